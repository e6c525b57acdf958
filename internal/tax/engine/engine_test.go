package engine

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"github.com/smallbiznis/invara/internal/tax/handler"
	"github.com/smallbiznis/invara/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eur(t *testing.T, amount string) money.Money {
	t.Helper()
	m, err := money.New(dec(amount), "EUR")
	require.NoError(t, err)
	return m
}

func newEngine() *Engine {
	return NewEngine(handler.NewRegistry())
}

func TestCalculate_NoActiveDefinitions(t *testing.T) {
	eng := newEngine()

	result, err := eng.Calculate(nil, eur(t, "100"))
	require.NoError(t, err)
	assert.True(t, result.TotalTax.IsZero())
	assert.Equal(t, "EUR", result.TotalTax.Currency())
	assert.Empty(t, result.Lines)

	// inactive definitions count as absent
	result, err = eng.Calculate([]taxdomain.TaxDefinition{
		{ID: 1, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, Active: false},
	}, eur(t, "100"))
	require.NoError(t, err)
	assert.True(t, result.TotalTax.IsZero())
	assert.Empty(t, result.Lines)
}

func TestCalculate_OrdersByDeclaredOrder(t *testing.T) {
	eng := newEngine()

	defs := []taxdomain.TaxDefinition{
		{ID: 1, Code: "SECOND", HandlerID: taxdomain.HandlerPercentage, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 2, Active: true},
		{ID: 2, Code: "FIRST", HandlerID: taxdomain.HandlerPercentage, Rate: dec("5"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
	}

	result, err := eng.Calculate(defs, eur(t, "100"))
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "FIRST", result.Lines[0].Code)
	assert.Equal(t, "SECOND", result.Lines[1].Code)
}

func TestCalculate_StableTieBreak(t *testing.T) {
	eng := newEngine()

	defs := []taxdomain.TaxDefinition{
		{ID: 1, Code: "A", HandlerID: taxdomain.HandlerPercentage, Rate: dec("1"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
		{ID: 2, Code: "B", HandlerID: taxdomain.HandlerPercentage, Rate: dec("2"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
	}

	result, err := eng.Calculate(defs, eur(t, "100"))
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "A", result.Lines[0].Code)
	assert.Equal(t, "B", result.Lines[1].Code)
}

func TestCalculate_CompoundChain(t *testing.T) {
	eng := newEngine()

	vatID := snowflake.ID(10)
	surchargeID := vatID

	defs := []taxdomain.TaxDefinition{
		{ID: vatID, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
		{ID: 11, Code: "SURCHARGE", HandlerID: taxdomain.HandlerCompound, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnTax, AppliedToID: &surchargeID, EvaluationOrder: 2, Active: true},
	}

	result, err := eng.Calculate(defs, eur(t, "100"))
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	assert.True(t, result.Lines[0].TaxAmount.Equal(eur(t, "21")), "VAT got %s", result.Lines[0].TaxAmount)
	assert.True(t, result.Lines[1].TaxAmount.Equal(eur(t, "2.1")), "surcharge got %s", result.Lines[1].TaxAmount)
	assert.True(t, result.Lines[1].BaseAmount.Equal(eur(t, "21")))
	assert.True(t, result.TotalTax.Equal(eur(t, "23.1")), "total got %s", result.TotalTax)
}

func TestCalculate_DanglingReference(t *testing.T) {
	eng := newEngine()
	missing := snowflake.ID(999)

	// references a tax that is evaluated later
	laterID := snowflake.ID(20)
	defs := []taxdomain.TaxDefinition{
		{ID: 21, Code: "SURCHARGE", HandlerID: taxdomain.HandlerCompound, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnTax, AppliedToID: &laterID, EvaluationOrder: 1, Active: true},
		{ID: laterID, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 2, Active: true},
	}
	_, err := eng.Calculate(defs, eur(t, "100"))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)

	// references a tax that does not exist at all
	defs = []taxdomain.TaxDefinition{
		{ID: 22, Code: "SURCHARGE", HandlerID: taxdomain.HandlerCompound, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnTax, AppliedToID: &missing, EvaluationOrder: 1, Active: true},
	}
	_, err = eng.Calculate(defs, eur(t, "100"))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)

	// references an inactive tax
	inactiveID := snowflake.ID(30)
	defs = []taxdomain.TaxDefinition{
		{ID: inactiveID, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: false},
		{ID: 31, Code: "SURCHARGE", HandlerID: taxdomain.HandlerCompound, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnTax, AppliedToID: &inactiveID, EvaluationOrder: 2, Active: true},
	}
	_, err = eng.Calculate(defs, eur(t, "100"))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)
}

func TestCalculate_AllOrNothing(t *testing.T) {
	eng := newEngine()
	missing := snowflake.ID(999)

	defs := []taxdomain.TaxDefinition{
		{ID: 40, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
		{ID: 41, Code: "BROKEN", HandlerID: taxdomain.HandlerCompound, Rate: dec("10"), ApplicationType: taxdomain.ApplicationOnTax, AppliedToID: &missing, EvaluationOrder: 2, Active: true},
	}

	result, err := eng.Calculate(defs, eur(t, "100"))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)
	assert.Empty(t, result.Lines, "no partial lines on failure")
}

func TestCalculate_UnknownHandler(t *testing.T) {
	eng := newEngine()

	defs := []taxdomain.TaxDefinition{
		{ID: 50, Code: "ODD", HandlerID: "WITHHOLDING", Rate: dec("1"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
	}

	_, err := eng.Calculate(defs, eur(t, "100"))
	assert.ErrorIs(t, err, taxdomain.ErrUnknownHandler)
}

func TestCalculate_FixedDeduction(t *testing.T) {
	eng := newEngine()

	defs := []taxdomain.TaxDefinition{
		{ID: 60, Code: "VAT", HandlerID: taxdomain.HandlerPercentage, Rate: dec("21"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 1, Active: true},
		{ID: 61, Code: "WHT", HandlerID: taxdomain.HandlerFixed, Rate: dec("-5"), ApplicationType: taxdomain.ApplicationOnBase, EvaluationOrder: 2, Active: true},
	}

	result, err := eng.Calculate(defs, eur(t, "100"))
	require.NoError(t, err)
	assert.True(t, result.TotalTax.Equal(eur(t, "16")), "total got %s", result.TotalTax)
}
