package api

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/usecase"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	purchases *usecase.PurchaseService
}

func NewPurchaseHandler(purchases *usecase.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

type buyRequest struct {
	Amount int64  `json:"amount"`
	Phone  string `json:"phone"`
}

func (h *PurchaseHandler) BuyGold(c *fiber.Ctx) error {
	var req buyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: body must be JSON", entity.ErrInvalidRequest))
	}

	customer := customerFrom(c)
	customer.Phone = req.Phone

	res, err := h.purchases.BuyGold(c.UserContext(), customer, req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"orderId":      res.Order.ID,
		"amount":       res.Order.Amount,
		"grams":        res.Order.Grams,
		"pricePerGram": res.Order.PricePerGram,
		"status":       res.Order.Status,
		"snapToken":    res.Payment.Token,
		"redirectUrl":  res.Payment.RedirectURL,
	})
}

func (h *PurchaseHandler) HandleNotification(c *fiber.Ctx) error {
	var n entity.PaymentNotification
	if err := c.BodyParser(&n); err != nil || n.OrderID == "" {
		return writeError(c, fmt.Errorf("%w: missing order_id", entity.ErrInvalidRequest))
	}
	if err := h.purchases.HandleNotification(c.UserContext(), &n); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *PurchaseHandler) GetPortfolio(c *fiber.Ctx) error {
	summary, err := h.purchases.Portfolio(c.UserContext(), userIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
