package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invara/pkg/money"
)

// TaxLineResult is one evaluated tax line. Lines are immutable and kept in
// evaluation order.
type TaxLineResult struct {
	Code            string
	Description     string
	Rate            decimal.Decimal
	BaseAmount      money.Money
	TaxAmount       money.Money
	EvaluationOrder int
}
