package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	modelPriceMin = 5500
	modelPriceMax = 8000
)

var (
	barePricePattern     = regexp.MustCompile(`^\s*(\d{4,5})(?:\.\d+)?\s*\.?\s*$`)
	currencyPricePattern = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr|\brupees)\s*(\d{1,2},\d{3}|\d{4,5})\b|\b(\d{1,2},\d{3}|\d{4,5})\s*(?:₹|rs\b|inr\b|rupees\b)`)
	commaPricePattern    = regexp.MustCompile(`\b(\d{1,2},\d{3})\b`)
	anyDigitsPattern     = regexp.MustCompile(`\d{4,5}`)
)

// priceMatcher returns the first in-range price it can find in a model reply.
type priceMatcher func(text string) (int, bool)

// priceMatchers run in order; the first match wins.
var priceMatchers = []priceMatcher{
	matchBarePrice,
	matchCurrencyPrice,
	matchCommaGroupedPrice,
	matchAnyDigits,
}

// ParsePriceReply extracts a per-gram price from free model text.
func ParsePriceReply(text string) (int, bool) {
	for _, match := range priceMatchers {
		if price, ok := match(text); ok {
			return price, true
		}
	}
	return 0, false
}

func matchBarePrice(text string) (int, bool) {
	m := barePricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return acceptPrice(m[1])
}

func matchCurrencyPrice(text string) (int, bool) {
	for _, m := range currencyPricePattern.FindAllStringSubmatch(text, -1) {
		candidate := m[1]
		if candidate == "" {
			candidate = m[2]
		}
		if price, ok := acceptPrice(candidate); ok {
			return price, true
		}
	}
	return 0, false
}

func matchCommaGroupedPrice(text string) (int, bool) {
	for _, m := range commaPricePattern.FindAllStringSubmatch(text, -1) {
		if price, ok := acceptPrice(m[1]); ok {
			return price, true
		}
	}
	return 0, false
}

func matchAnyDigits(text string) (int, bool) {
	for _, m := range anyDigitsPattern.FindAllString(text, -1) {
		if price, ok := acceptPrice(m); ok {
			return price, true
		}
	}
	return 0, false
}

func acceptPrice(raw string) (int, bool) {
	price, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil || price < modelPriceMin || price > modelPriceMax {
		return 0, false
	}
	return price, true
}
