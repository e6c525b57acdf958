package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	CustomerID      string          `json:"customer_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	HandlerID       HandlerID       `json:"handler_id"`
	Rate            decimal.Decimal `json:"rate"`
	ApplicationType ApplicationType `json:"application_type"`
	AppliedToID     *string         `json:"applied_to_id,omitempty"`
	EvaluationOrder int             `json:"evaluation_order"`
	Active          *bool           `json:"active,omitempty"`
}

type UpdateRequest struct {
	ID              string           `json:"id"`
	Description     *string          `json:"description,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	EvaluationOrder *int             `json:"evaluation_order,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

type Response struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description,omitempty"`
	HandlerID       HandlerID       `json:"handler_id"`
	Rate            decimal.Decimal `json:"rate"`
	ApplicationType ApplicationType `json:"application_type"`
	AppliedToID     *string         `json:"applied_to_id,omitempty"`
	EvaluationOrder int             `json:"evaluation_order"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
