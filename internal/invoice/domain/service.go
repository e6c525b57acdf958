package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invara/pkg/db/pagination"
)

type Service interface {
	// Generate runs the full computation pipeline and returns the
	// aggregate without persisting it.
	Generate(ctx context.Context, req GenerateRequest) (*Response, error)
	// Create runs the same pipeline and persists the result.
	Create(ctx context.Context, req GenerateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	PreviewNumber(ctx context.Context, pattern string) (string, error)
}

type ExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
}

type GenerateRequest struct {
	CustomerID    string         `json:"customer_id"`
	InvoiceType   string         `json:"invoice_type"`
	Period        string         `json:"period,omitempty"`
	WorkDays      int            `json:"work_days,omitempty"`
	Expenses      []ExpenseInput `json:"expenses,omitempty"`
	NumberPattern string         `json:"number_pattern,omitempty"`
}

type ListResponse struct {
	Items    []Response           `json:"items"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type TaxLineResponse struct {
	Code            string          `json:"code"`
	Description     string          `json:"description,omitempty"`
	Rate            decimal.Decimal `json:"rate"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Currency        string          `json:"currency"`
	EvaluationOrder int             `json:"evaluation_order"`
}

type ExpenseResponse struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type Response struct {
	ID               string            `json:"id"`
	CustomerID       string            `json:"customer_id"`
	InvoiceType      InvoiceType       `json:"invoice_type"`
	Number           string            `json:"number"`
	SequenceNumber   int64             `json:"sequence_number"`
	Year             int               `json:"year"`
	Period           string            `json:"period,omitempty"`
	WorkDays         int               `json:"work_days,omitempty"`
	Currency         string            `json:"currency"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	TotalExpenses    decimal.Decimal   `json:"total_expenses"`
	TotalTax         decimal.Decimal   `json:"total_tax"`
	Total            decimal.Decimal   `json:"total"`
	Status           InvoiceStatus     `json:"status"`
	TaxLines         []TaxLineResponse `json:"tax_lines"`
	Expenses         []ExpenseResponse `json:"expenses"`
	RenderedDocument string            `json:"rendered_document,omitempty"`
	IssuedAt         time.Time         `json:"issued_at"`
	CreatedAt        time.Time         `json:"created_at,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at,omitempty"`
}
