package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// RateResolver is the lookup boundary the generation pipeline depends on.
// A nil result with a nil error means no rate is configured.
type RateResolver interface {
	ResolveForInvoice(ctx context.Context, customerID snowflake.ID, rateType RateType) (*Rate, error)
}

type ListRequest struct {
	CustomerID string
	RateType   string
	SortBy     string
	OrderBy    string
}

type Repository interface {
	Create(ctx context.Context, rate *Rate) error
	FindByID(ctx context.Context, id snowflake.ID) (*Rate, error)
	FindByCustomerAndType(ctx context.Context, customerID snowflake.ID, rateType RateType) (*Rate, error)
	List(ctx context.Context, filter ListRequest) ([]Rate, error)
	Update(ctx context.Context, rate *Rate) error
	Delete(ctx context.Context, id snowflake.ID) error
}
