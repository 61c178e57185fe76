package usecase

import (
	"aurum-core/internal/domain/entity"
	"regexp"
	"strings"
)

var goldKeywords = []string{
	"gold", "invest", "buy", "purchase", "portfolio", "price", "rate",
	"savings", "money", "investment", "returns", "profit", "market",
}

var greetingPattern = regexp.MustCompile(`^(hi|hello|hey|good|greetings)\b`)

// ClassifyIntent tags a chat message by keyword. First matching rule wins.
func ClassifyIntent(message string) entity.Intent {
	text := strings.ToLower(strings.TrimSpace(message))

	matched := make([]string, 0)
	for _, kw := range goldKeywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	hasGold := len(matched) > 0

	intent := func(c entity.IntentCategory, confidence float64) entity.Intent {
		return entity.Intent{Category: c, Confidence: confidence, Keywords: matched}
	}

	switch {
	case hasGold && containsAny(text, "buy", "purchase"):
		return intent(entity.IntentPurchase, 0.9)
	case hasGold && containsAny(text, "price", "rate"):
		return intent(entity.IntentPriceInquiry, 0.8)
	case hasGold && containsAny(text, "portfolio", "holdings"):
		return intent(entity.IntentPortfolioCheck, 0.9)
	case hasGold:
		return intent(entity.IntentGoldGeneral, 0.7)
	case greetingPattern.MatchString(text):
		return intent(entity.IntentGreeting, 0.9)
	default:
		return intent(entity.IntentGeneral, 0.5)
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
