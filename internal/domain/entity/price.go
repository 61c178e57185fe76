package entity

import "time"

type PriceSource string

const (
	PriceSourceCache         PriceSource = "cache"
	PriceSourceAPI           PriceSource = "api"
	PriceSourceCacheFallback PriceSource = "cache_fallback"
)

const CurrencyINR = "INR"

// PriceQuote is a gold price per gram in whole rupees.
type PriceQuote struct {
	Price     int         `json:"price"`
	Source    PriceSource `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Currency  string      `json:"currency"`
	Warning   string      `json:"warning,omitempty"`
}

type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     int       `json:"price"`
	Volume    int       `json:"volume"`
}

type PriceChange struct {
	Amount     int     `json:"amount"`
	Percentage float64 `json:"percentage"`
	Direction  string  `json:"direction"` // "up", "down" or "stable"
}
