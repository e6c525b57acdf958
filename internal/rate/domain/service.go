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
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	CustomerID string          `json:"customer_id"`
	RateType   RateType        `json:"rate_type"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
}

type UpdateRequest struct {
	ID       string           `json:"id"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency *string          `json:"currency,omitempty"`
}

type Response struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	RateType   RateType        `json:"rate_type"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
