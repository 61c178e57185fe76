package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order is a gold purchase priced at PricePerGram when it was created.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Amount       int64       `json:"amount"`
	Grams        float64     `json:"grams"`
	PricePerGram int         `json:"pricePerGram"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Holding struct {
	UserID        string  `json:"userId"`
	TotalGrams    float64 `json:"totalGrams"`
	TotalInvested int64   `json:"totalInvested"`
}

type PaymentSession struct {
	Token       string `json:"snapToken"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymentNotification is the subset of the gateway webhook the service acts on.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

type Customer struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type PurchaseResult struct {
	Order   *Order          `json:"order"`
	Payment *PaymentSession `json:"payment"`
}

type PortfolioSummary struct {
	TotalGrams        float64  `json:"totalGrams"`
	TotalInvested     int64    `json:"totalInvested"`
	CurrentPrice      int      `json:"currentPrice"`
	CurrentValue      float64  `json:"currentValue"`
	ProfitLoss        float64  `json:"profitLoss"`
	ProfitLossPercent float64  `json:"profitLossPercent"`
	Orders            []*Order `json:"orders"`
}
