// Package handler holds the tax calculation strategies. The registry is a
// closed mapping built once at startup: every handler the engine can ever
// dispatch to is declared here.
package handler

import (
	"fmt"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
)

// ContextKeyBaseTaxAmount carries the referenced tax's amount into a
// compound calculation.
const ContextKeyBaseTaxAmount = "BaseTaxAmount"

var oneHundred = decimal.NewFromInt(100)

// CalcFunc computes a tax amount from a base amount, a handler-specific rate
// and an optional calculation context.
type CalcFunc func(base decimal.Decimal, rate decimal.Decimal, calcCtx map[string]decimal.Decimal) (decimal.Decimal, error)

type Registry struct {
	handlers map[taxdomain.HandlerID]CalcFunc
}

// NewRegistry builds the full handler set.
func NewRegistry() *Registry {
	return &Registry{
		handlers: map[taxdomain.HandlerID]CalcFunc{
			taxdomain.HandlerPercentage: Percentage,
			taxdomain.HandlerFixed:      Fixed,
			taxdomain.HandlerCompound:   Compound,
		},
	}
}

// Resolve returns the calculation function for a handler id.
func (r *Registry) Resolve(id taxdomain.HandlerID) (CalcFunc, error) {
	fn, ok := r.handlers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", taxdomain.ErrUnknownHandler, id)
	}
	return fn, nil
}

// Percentage computes base * rate / 100. A negative base is rejected.
func Percentage(base decimal.Decimal, rate decimal.Decimal, _ map[string]decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative base amount %s", taxdomain.ErrInvalidInput, base)
	}
	return base.Mul(rate).Div(oneHundred), nil
}

// Fixed returns the rate unchanged. Sign is preserved, so a negative rate
// acts as a deduction.
func Fixed(_ decimal.Decimal, rate decimal.Decimal, _ map[string]decimal.Decimal) (decimal.Decimal, error) {
	return rate, nil
}

// Compound computes rate percent of the referenced tax amount supplied via
// the calculation context.
func Compound(_ decimal.Decimal, rate decimal.Decimal, calcCtx map[string]decimal.Decimal) (decimal.Decimal, error) {
	baseTax, ok := calcCtx[ContextKeyBaseTaxAmount]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", taxdomain.ErrMissingContext, ContextKeyBaseTaxAmount)
	}
	if baseTax.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative base tax amount %s", taxdomain.ErrInvalidInput, baseTax)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative rate %s", taxdomain.ErrInvalidInput, rate)
	}
	return baseTax.Mul(rate).Div(oneHundred), nil
}
