package usecase

import (
	"aurum-core/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		wantCategory   entity.IntentCategory
		wantConfidence float64
	}{
		{"purchase", "I want to buy gold", entity.IntentPurchase, 0.9},
		{"purchase uppercase", "PURCHASE some GOLD please", entity.IntentPurchase, 0.9},
		{"price inquiry", "What is the gold rate today?", entity.IntentPriceInquiry, 0.8},
		{"portfolio", "show my gold portfolio", entity.IntentPortfolioCheck, 0.9},
		{"holdings needs a gold keyword", "show my holdings", entity.IntentGeneral, 0.5},
		{"holdings with keyword", "how are my gold holdings", entity.IntentPortfolioCheck, 0.9},
		{"gold general", "Is gold a safe investment?", entity.IntentGoldGeneral, 0.7},
		{"greeting", "Hello there", entity.IntentGreeting, 0.9},
		{"greeting good morning", "good morning!", entity.IntentGreeting, 0.9},
		{"history is not a greeting", "history of rome", entity.IntentGeneral, 0.5},
		{"greeting needs a word boundary", "hiya there", entity.IntentGeneral, 0.5},
		{"keyword beats greeting", "hi, what's the gold price", entity.IntentPriceInquiry, 0.8},
		{"general", "tell me a joke", entity.IntentGeneral, 0.5},
		{"empty", "", entity.IntentGeneral, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyIntent(tt.message)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestClassifyIntentKeywords(t *testing.T) {
	got := ClassifyIntent("Buy gold for better returns")
	assert.ElementsMatch(t, []string{"gold", "buy", "returns"}, got.Keywords)
}
