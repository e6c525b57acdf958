package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"go.uber.org/fx"
)

type resolverParam struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p resolverParam) taxdomain.TaxResolver {
	return &resolver{repo: p.Repository}
}

// ResolveForInvoice reads a fresh snapshot of the customer's active tax
// definitions. Results are never cached.
func (r *resolver) ResolveForInvoice(ctx context.Context, customerID snowflake.ID) ([]taxdomain.TaxDefinition, error) {
	return r.repo.GetActiveDefinitions(ctx, customerID)
}
