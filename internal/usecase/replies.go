package usecase

import (
	"aurum-core/internal/domain/entity"
	"fmt"
	"strconv"
)

const (
	apologyMessage = "I'm sorry, I couldn't put a reply together just now. Ask me about today's gold price or how to start investing."
	errorMessage   = "I'm having a little trouble right now. Please try again in a moment, or ask about today's gold price."
)

var defaultSuggestions = map[entity.IntentCategory][]string{
	entity.IntentGreeting:       {"What's the gold price today?", "How do I buy gold?", "Why invest in gold?"},
	entity.IntentPurchase:       {"Buy ₹500", "Buy ₹1000", "Buy ₹2500", "Buy ₹5000"},
	entity.IntentPriceInquiry:   {"Buy gold now", "Show price history", "Why invest in gold?"},
	entity.IntentPortfolioCheck: {"View my portfolio", "Buy more gold", "Log in"},
	entity.IntentGoldGeneral:    {"Current gold price", "Start with ₹500", "How does digital gold work?"},
	entity.IntentGeneral:        {"Current gold price", "Start with ₹500", "How does digital gold work?"},
}

func suggestionsFor(c entity.IntentCategory) []string {
	s, ok := defaultSuggestions[c]
	if !ok {
		s = defaultSuggestions[entity.IntentGoldGeneral]
	}
	return append([]string(nil), s...)
}

// fallbackReply is the canned answer used when the model is skipped or fails.
func fallbackReply(c entity.IntentCategory, price int) parsedReply {
	p := formatRupees(price)
	var msg string
	switch c {
	case entity.IntentGreeting:
		msg = fmt.Sprintf("Hello! I'm your digital gold assistant. Gold is at ₹%s per gram today. Would you like to start investing with as little as ₹500?", p)
	case entity.IntentPurchase:
		msg = fmt.Sprintf("Great choice! At ₹%s per gram, ₹1000 buys about %.4f g of 24K gold. Pick an amount below to get started.", p, 1000/float64(price))
	case entity.IntentPortfolioCheck:
		msg = fmt.Sprintf("Log in to see your gold holdings and returns. Gold is currently ₹%s per gram.", p)
	default:
		msg = fmt.Sprintf("Digital gold lets you own 24K gold from just ₹500, stored safely for you. Today's price is ₹%s per gram.", p)
	}
	return parsedReply{Message: msg, Source: entity.ReplySourceFallback}
}

func genericPriceMessage(price int) string {
	return fmt.Sprintf("Gold is trading at ₹%s per gram. I can help you start investing from just ₹500, so ask me anything about digital gold.", formatRupees(price))
}

// formatRupees groups thousands: 6850 -> "6,850".
func formatRupees(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatRupees(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
