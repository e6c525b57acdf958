package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrCodeExists      = errors.New("code_exists")
	ErrNotFound        = errors.New("not_found")
)
