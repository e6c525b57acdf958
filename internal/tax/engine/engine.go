// Package engine evaluates a customer's tax definitions against a taxable
// base. Evaluation is sequential: a compound tax may only reference a tax
// that the declared order has already produced.
package engine

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"github.com/smallbiznis/invara/internal/tax/handler"
	"github.com/smallbiznis/invara/pkg/money"
)

type Engine struct {
	handlers *handler.Registry
}

func NewEngine(handlers *handler.Registry) *Engine {
	return &Engine{handlers: handlers}
}

// Result is the outcome of one engine run.
type Result struct {
	TotalTax money.Money
	Lines    []taxdomain.TaxLineResult
}

// Calculate evaluates the active definitions in declared order against the
// taxable base. The run is all-or-nothing: any handler or reference failure
// aborts the whole call and no partial lines are returned.
func (e *Engine) Calculate(definitions []taxdomain.TaxDefinition, taxableBase money.Money) (Result, error) {
	zero, err := money.Zero(taxableBase.Currency())
	if err != nil {
		return Result{}, err
	}

	active := make([]taxdomain.TaxDefinition, 0, len(definitions))
	for _, def := range definitions {
		if def.Active {
			active = append(active, def)
		}
	}
	if len(active) == 0 {
		return Result{TotalTax: zero, Lines: []taxdomain.TaxLineResult{}}, nil
	}

	// Stable sort: ties keep input order, nothing else breaks them.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].EvaluationOrder < active[j].EvaluationOrder
	})

	computed := make(map[snowflake.ID]money.Money, len(active))
	lines := make([]taxdomain.TaxLineResult, 0, len(active))
	total := zero

	for _, def := range active {
		base, calcCtx, err := e.resolveBase(def, taxableBase, computed)
		if err != nil {
			return Result{}, err
		}

		calc, err := e.handlers.Resolve(def.HandlerID)
		if err != nil {
			return Result{}, err
		}

		amount, err := calc(base.Amount(), def.Rate, calcCtx)
		if err != nil {
			return Result{}, err
		}

		taxAmount, err := money.New(amount, taxableBase.Currency())
		if err != nil {
			return Result{}, err
		}

		computed[def.ID] = taxAmount
		lines = append(lines, taxdomain.TaxLineResult{
			Code:            def.Code,
			Description:     def.Description,
			Rate:            def.Rate,
			BaseAmount:      base,
			TaxAmount:       taxAmount,
			EvaluationOrder: def.EvaluationOrder,
		})

		total, err = total.Add(taxAmount)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{TotalTax: total, Lines: lines}, nil
}

func (e *Engine) resolveBase(
	def taxdomain.TaxDefinition,
	taxableBase money.Money,
	computed map[snowflake.ID]money.Money,
) (money.Money, map[string]decimal.Decimal, error) {
	switch def.ApplicationType {
	case taxdomain.ApplicationOnBase:
		return taxableBase, nil, nil

	case taxdomain.ApplicationOnTax:
		if def.AppliedToID == nil {
			return money.Money{}, nil, fmt.Errorf("%w: tax %s has no applied_to reference", taxdomain.ErrDanglingTaxReference, def.Code)
		}
		base, ok := computed[*def.AppliedToID]
		if !ok {
			// Referenced tax was not processed yet, does not exist, or is
			// inactive. Declared order is authoritative; nothing is reordered.
			return money.Money{}, nil, fmt.Errorf("%w: tax %s references %s", taxdomain.ErrDanglingTaxReference, def.Code, def.AppliedToID.String())
		}
		return base, map[string]decimal.Decimal{
			handler.ContextKeyBaseTaxAmount: base.Amount(),
		}, nil

	default:
		return money.Money{}, nil, fmt.Errorf("%w: %q", taxdomain.ErrInvalidApplicationType, def.ApplicationType)
	}
}
