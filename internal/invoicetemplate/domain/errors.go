package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidInvoiceType = errors.New("invalid_invoice_type")
	ErrInvalidContent     = errors.New("invalid_content")
	ErrNotFound           = errors.New("not_found")
)
