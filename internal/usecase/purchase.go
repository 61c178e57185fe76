package usecase

import (
	"aurum-core/internal/domain/entity"
	"aurum-core/internal/domain/repository"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const minPurchaseAmount = 100

// PurchaseService turns rupee amounts into gold orders and settles them from
// payment notifications.
type PurchaseService struct {
	prices  PriceReader
	store   repository.PortfolioStore
	gateway repository.PaymentGateway
	logger  repository.Logger
	now     func() time.Time
}

func NewPurchaseService(prices PriceReader, store repository.PortfolioStore, gateway repository.PaymentGateway, logger repository.Logger) *PurchaseService {
	return &PurchaseService{
		prices:  prices,
		store:   store,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *PurchaseService) BuyGold(ctx context.Context, customer entity.Customer, amount int64) (*entity.PurchaseResult, error) {
	if amount < minPurchaseAmount {
		return nil, fmt.Errorf("%w: minimum is ₹%d", entity.ErrInvalidAmount, minPurchaseAmount)
	}

	quote, err := s.prices.GetCurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &entity.Order{
		ID:           uuid.NewString(),
		UserID:       customer.UserID,
		Amount:       amount,
		Grams:        gramsFor(amount, quote.Price),
		PricePerGram: quote.Price,
		Status:       entity.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	payment, err := s.gateway.CreateTransaction(ctx, order, customer)
	if err != nil {
		if markErr := s.store.MarkFailed(ctx, order.ID); markErr != nil {
			s.logger.Error("PURCHASE", "failed to mark order failed", map[string]interface{}{"error": markErr, "order_id": order.ID})
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.logger.Info("PURCHASE", "order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"amount":   order.Amount,
		"grams":    order.Grams,
	})
	return &entity.PurchaseResult{Order: order, Payment: payment}, nil
}

func (s *PurchaseService) HandleNotification(ctx context.Context, n *entity.PaymentNotification) error {
	if !s.gateway.VerifySignature(n) {
		s.logger.Warn("PURCHASE", "payment notification signature mismatch", map[string]interface{}{"order_id": n.OrderID})
		return entity.ErrInvalidSignature
	}

	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus != "" && n.FraudStatus != "accept" {
			return nil
		}
		return s.settle(ctx, n.OrderID)
	case "settlement":
		return s.settle(ctx, n.OrderID)
	case "deny", "cancel", "expire", "failure":
		if err := s.store.MarkFailed(ctx, n.OrderID); err != nil {
			return err
		}
		s.logger.Info("PURCHASE", "order failed", map[string]interface{}{"order_id": n.OrderID, "status": n.TransactionStatus})
		return nil
	default:
		// pending and anything unknown leave the order as is
		return nil
	}
}

func (s *PurchaseService) settle(ctx context.Context, orderID string) error {
	credited, err := s.store.MarkPaid(ctx, orderID)
	if err != nil {
		return err
	}
	if credited {
		s.logger.Info("PURCHASE", "order settled, holding credited", map[string]interface{}{"order_id": orderID})
	}
	return nil
}

func (s *PurchaseService) Portfolio(ctx context.Context, userID string) (*entity.PortfolioSummary, error) {
	holding, err := s.store.GetHolding(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	quote, err := s.prices.GetCurrentPrice(ctx)
	if err != nil {
		return nil, err
	}

	value := round2(holding.TotalGrams * float64(quote.Price))
	summary := &entity.PortfolioSummary{
		TotalGrams:    holding.TotalGrams,
		TotalInvested: holding.TotalInvested,
		CurrentPrice:  quote.Price,
		CurrentValue:  value,
		ProfitLoss:    round2(value - float64(holding.TotalInvested)),
		Orders:        orders,
	}
	if holding.TotalInvested > 0 {
		summary.ProfitLossPercent = round2(summary.ProfitLoss / float64(holding.TotalInvested) * 100)
	}
	return summary, nil
}

func gramsFor(amount int64, price int) float64 {
	return math.Round(float64(amount)/float64(price)*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
