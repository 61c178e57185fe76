package api

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/usecase"
	"time"

	"github.com/gofiber/fiber/v2"
)

var indiaTime = time.FixedZone("IST", 5*60*60+30*60)

type PriceHandler struct {
	prices *usecase.PriceEstimator
}

func NewPriceHandler(prices *usecase.PriceEstimator) *PriceHandler {
	return &PriceHandler{prices: prices}
}

func (h *PriceHandler) GetPrice(c *fiber.Ctx) error {
	quote, err := h.prices.GetCurrentPrice(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.priceBody(quote))
}

func (h *PriceHandler) RefreshPrice(c *fiber.Ctx) error {
	quote, err := h.prices.RefreshPrice(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.priceBody(quote))
}

func (h *PriceHandler) GetHistory(c *fiber.Ctx) error {
	period := c.Query("period", "1d")
	points, err := h.prices.GetPriceHistory(c.UserContext(), period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"period": period, "currency": entity.CurrencyINR, "points": points})
}

func (h *PriceHandler) priceBody(quote *entity.PriceQuote) fiber.Map {
	current := fiber.Map{
		"price":     quote.Price,
		"currency":  quote.Currency,
		"unit":      "gram",
		"timestamp": quote.Timestamp,
		"source":    quote.Source,
	}
	if quote.Warning != "" {
		current["warning"] = quote.Warning
	}
	return fiber.Map{
		"current": current,
		"change":  h.prices.PriceChange(),
		"market": fiber.Map{
			"status": marketStatus(time.Now()),
			"purity": "24K",
		},
	}
}

// marketStatus follows MCX bullion hours, Monday to Friday 09:00-23:30 IST.
func marketStatus(now time.Time) string {
	t := now.In(indiaTime)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return "closed"
	}
	minutes := t.Hour()*60 + t.Minute()
	if minutes >= 9*60 && minutes < 23*60+30 {
		return "open"
	}
	return "closed"
}
