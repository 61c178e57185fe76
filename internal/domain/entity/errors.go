package entity

import "errors"

// Standard domain errors
var (
	ErrPriceUnavailable   = errors.New("price service unavailable")
	ErrInvalidPeriod      = errors.New("invalid history period: expected 1d, 1w or 1m")
	ErrModelNotConfigured = errors.New("language model is not configured")
	ErrUnparseablePrice   = errors.New("no valid price found in model reply")
	ErrInvalidAmount      = errors.New("invalid purchase amount")
	ErrInvalidSignature   = errors.New("invalid payment notification signature")
	ErrOrderNotFound      = errors.New("the requested order was not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidRequest     = errors.New("invalid request parameters")
)
