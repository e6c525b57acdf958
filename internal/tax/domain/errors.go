package domain

import "errors"

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidCustomer        = errors.New("invalid_customer")
	ErrInvalidTaxCode         = errors.New("invalid_tax_code")
	ErrInvalidApplicationType = errors.New("invalid_application_type")
	ErrMissingAppliedTo       = errors.New("missing_applied_to")
	ErrInvalidTaxOrder        = errors.New("invalid_tax_order")
	ErrNotFound               = errors.New("not_found")

	// Calculation-time failures surfaced by the engine and its handlers.
	ErrUnknownHandler       = errors.New("unknown_handler")
	ErrMissingContext       = errors.New("missing_context")
	ErrInvalidInput         = errors.New("invalid_input")
	ErrDanglingTaxReference = errors.New("dangling_tax_reference")
)
