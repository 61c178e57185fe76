package repository

import (
	"aurum-core/internal/domain/entity"
	"context"
)

type AIProvider interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.AIResponse, error)
}

type ReplyCache interface {
	Get(key string) (*entity.ChatReply, bool)
	Set(key string, reply *entity.ChatReply)
	Len() int
}

type SessionStore interface {
	Append(ctx context.Context, sessionID string, msgs ...entity.ChatMessage) (int, error)
	History(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error)
}

type PortfolioStore interface {
	SaveOrder(ctx context.Context, order *entity.Order) error
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*entity.Order, error)
	// MarkPaid flips a pending order to paid and credits the holding exactly once.
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	MarkFailed(ctx context.Context, orderID string) error
	GetHolding(ctx context.Context, userID string) (*entity.Holding, error)
}

type PaymentGateway interface {
	CreateTransaction(ctx context.Context, order *entity.Order, customer entity.Customer) (*entity.PaymentSession, error)
	VerifySignature(n *entity.PaymentNotification) bool
}

// Logger is the structured logger every usecase writes through.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}
