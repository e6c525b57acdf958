package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount string, currency string) Money {
	t.Helper()
	m, err := New(decimal.RequireFromString(amount), currency)
	require.NoError(t, err)
	return m
}

func TestNew_NormalizesCurrency(t *testing.T) {
	m, err := New(decimal.NewFromInt(10), "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency())
}

func TestNew_RejectsBadCurrency(t *testing.T) {
	for _, code := range []string{"", "EU", "EURO", "E1R", "€UR"} {
		_, err := New(decimal.NewFromInt(1), code)
		assert.ErrorIs(t, err, ErrInvalidCurrency, "code %q", code)
	}
}

func TestAdd(t *testing.T) {
	a := mustMoney(t, "100.50", "EUR")
	b := mustMoney(t, "49.50", "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equal(mustMoney(t, "150", "EUR")))

	// operands untouched
	assert.True(t, a.Equal(mustMoney(t, "100.50", "EUR")))
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := mustMoney(t, "100", "EUR")
	b := mustMoney(t, "100", "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Cmp(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMulDiv(t *testing.T) {
	m := mustMoney(t, "100", "EUR")

	assert.True(t, m.Mul(decimal.NewFromInt(20)).Equal(mustMoney(t, "2000", "EUR")))

	half, err := m.Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, half.Equal(mustMoney(t, "50", "EUR")))

	_, err = m.Div(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEqual_ByValue(t *testing.T) {
	assert.True(t, mustMoney(t, "21.0", "EUR").Equal(mustMoney(t, "21.00", "EUR")))
	assert.False(t, mustMoney(t, "21", "EUR").Equal(mustMoney(t, "21", "USD")))
}

func TestZero(t *testing.T) {
	z, err := Zero("USD")
	require.NoError(t, err)
	assert.True(t, z.IsZero())
	assert.Equal(t, "USD", z.Currency())
}
