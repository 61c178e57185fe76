package client

import (
	"aurum-core/internal/domain/entity"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway opens Snap checkout sessions for gold orders.
type MidtransGateway struct {
	snap        snap.Client
	serverKey   string
	frontendURL string
}

func NewMidtransGateway(serverKey string, isProduction bool, frontendURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{serverKey: serverKey, frontendURL: frontendURL}
	g.snap.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, order *entity.Order, customer entity.Customer) (*entity.PaymentSession, error) {
	resp, midErr := g.snap.CreateTransaction(snapRequest(order, customer, g.frontendURL))
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %s", midErr.GetMessage())
	}
	return &entity.PaymentSession{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(n *entity.PaymentNotification) bool {
	if g.serverKey == "" || n == nil {
		return false
	}
	expected := NotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func snapRequest(order *entity.Order, customer entity.Customer, frontendURL string) *snap.Request {
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.ID,
			GrossAmt: order.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/portfolio?payment=success", frontendURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "GOLD-24K",
				Name:  fmt.Sprintf("Digital gold %.4f g", order.Grams),
				Price: order.Amount,
				Qty:   1,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
}
