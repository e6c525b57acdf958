package domain

import "errors"

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidCustomer        = errors.New("invalid_customer")
	ErrCustomerNotFound       = errors.New("customer_not_found")
	ErrUnsupportedInvoiceType = errors.New("unsupported_invoice_type")
	ErrInvalidWorkDays        = errors.New("invalid_work_days")
	ErrInvalidPeriod          = errors.New("invalid_period")
	ErrInvalidExpense         = errors.New("invalid_expense")
	ErrMixedExpenseCurrency   = errors.New("mixed_expense_currency")
	ErrEmptyPattern           = errors.New("empty_pattern")
	ErrInvalidPattern         = errors.New("invalid_pattern")
	ErrInvalidSequence        = errors.New("invalid_sequence")
	ErrNoActiveTemplate       = errors.New("no_active_template")
	ErrNoRateConfigured       = errors.New("no_rate_configured")
	ErrTemplateRenderFailed   = errors.New("template_render_failed")
	ErrInvalidPageToken       = errors.New("invalid_page_token")
	ErrGenerationInProgress   = errors.New("generation_in_progress")
	ErrNotFound               = errors.New("not_found")
)
