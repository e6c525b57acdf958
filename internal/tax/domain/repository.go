package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// TaxResolver returns the active tax definitions for an invoice context.
type TaxResolver interface {
	ResolveForInvoice(ctx context.Context, customerID snowflake.ID) ([]TaxDefinition, error)
}

type ListRequest struct {
	CustomerID string
	Code       string
	Active     *bool
	SortBy     string
	OrderBy    string
}

type Repository interface {
	GetActiveDefinitions(ctx context.Context, customerID snowflake.ID) ([]TaxDefinition, error)
	Create(ctx context.Context, def *TaxDefinition) error
	FindByID(ctx context.Context, id snowflake.ID) (*TaxDefinition, error)
	List(ctx context.Context, filter ListRequest) ([]TaxDefinition, error)
	Update(ctx context.Context, def *TaxDefinition) error
}
