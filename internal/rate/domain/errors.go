package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidRateType = errors.New("invalid_rate_type")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrRateExists      = errors.New("rate_exists")
	ErrNotFound        = errors.New("not_found")
)
