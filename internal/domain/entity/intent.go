package entity

type IntentCategory string

const (
	IntentGreeting       IntentCategory = "greeting"
	IntentPurchase       IntentCategory = "purchase_intent"
	IntentPriceInquiry   IntentCategory = "price_inquiry"
	IntentPortfolioCheck IntentCategory = "portfolio_check"
	IntentGoldGeneral    IntentCategory = "gold_general"
	IntentGeneral        IntentCategory = "general"
)

type Intent struct {
	Category   IntentCategory `json:"category"`
	Confidence float64        `json:"confidence"`
	Keywords   []string       `json:"keywords"`
}
