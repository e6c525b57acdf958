package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	CustomerID  string
	InvoiceType string
	ActiveOnly  bool
	SortBy      string
	OrderBy     string
}

// TemplateResolver picks the template used when an invoice is generated.
// Resolution is scoped to (customer, invoice type) and only considers
// active templates.
type TemplateResolver interface {
	ResolveActive(ctx context.Context, customerID snowflake.ID, invoiceType string) (*InvoiceTemplate, error)
}

type Repository interface {
	Create(ctx context.Context, template *InvoiceTemplate) error
	FindByID(ctx context.Context, id snowflake.ID) (*InvoiceTemplate, error)
	FindActive(ctx context.Context, customerID snowflake.ID, invoiceType string) (*InvoiceTemplate, error)
	List(ctx context.Context, filter ListRequest) ([]InvoiceTemplate, error)
	Update(ctx context.Context, template *InvoiceTemplate) error
	DeactivateOthers(ctx context.Context, customerID snowflake.ID, invoiceType string, keep snowflake.ID) error
}
