package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
)

func setupDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceTaxLine{},
		&invoicedomain.InvoiceExpense{},
		&invoicedomain.InvoiceSequence{},
	))
	return db
}

func TestNextSequenceStartsAtOneAndIncrements(t *testing.T) {
	db := setupDB(t, "invoice_repo_seq")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	customerID := node.Generate()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextSequence(ctx, customerID, invoicedomain.InvoiceTypeMonthly, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNextSequenceKeysAreIndependent(t *testing.T) {
	db := setupDB(t, "invoice_repo_seq_keys")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	customerID := node.Generate()
	otherCustomer := node.Generate()

	first, err := repo.NextSequence(ctx, customerID, invoicedomain.InvoiceTypeMonthly, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	// Different year, type and customer each start their own counter.
	perYear, err := repo.NextSequence(ctx, customerID, invoicedomain.InvoiceTypeMonthly, 2027)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perYear)

	perType, err := repo.NextSequence(ctx, customerID, invoicedomain.InvoiceTypeOneTime, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perType)

	perCustomer, err := repo.NextSequence(ctx, otherCustomer, invoicedomain.InvoiceTypeMonthly, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perCustomer)

	second, err := repo.NextSequence(ctx, customerID, invoicedomain.InvoiceTypeMonthly, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}

func TestSaveAndFindByID(t *testing.T) {
	db := setupDB(t, "invoice_repo_save")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	invoiceID := node.Generate()
	customerID := node.Generate()

	invoice := &invoicedomain.Invoice{
		ID:               invoiceID,
		CustomerID:       customerID,
		InvoiceType:      invoicedomain.InvoiceTypeMonthly,
		Number:           "INV-2026-03-001",
		SequenceNumber:   1,
		Year:             2026,
		Period:           "2026-03",
		WorkDays:         20,
		Currency:         "EUR",
		Subtotal:         decimal.NewFromInt(2000),
		TotalExpenses:    decimal.NewFromInt(200),
		TotalTax:         decimal.RequireFromString("462"),
		Total:            decimal.RequireFromString("2662"),
		Status:           invoicedomain.InvoiceStatusDraft,
		RenderedDocument: "<p>INV-2026-03-001</p>",
		IssuedAt:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	lines := []invoicedomain.InvoiceTaxLine{
		{
			ID:              node.Generate(),
			InvoiceID:       invoiceID,
			Code:            "VAT",
			Rate:            decimal.NewFromInt(21),
			BaseAmount:      decimal.NewFromInt(2200),
			TaxAmount:       decimal.NewFromInt(462),
			Currency:        "EUR",
			EvaluationOrder: 1,
		},
	}
	expenses := []invoicedomain.InvoiceExpense{
		{
			ID:          node.Generate(),
			InvoiceID:   invoiceID,
			Description: "Travel",
			Amount:      decimal.NewFromInt(200),
			Currency:    "EUR",
		},
	}

	require.NoError(t, repo.Save(ctx, invoice, lines, expenses))

	got, gotLines, gotExpenses, err := repo.FindByID(ctx, invoiceID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-2026-03-001", got.Number)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("2662")))
	require.Len(t, gotLines, 1)
	assert.Equal(t, "VAT", gotLines[0].Code)
	require.Len(t, gotExpenses, 1)
	assert.Equal(t, "Travel", gotExpenses[0].Description)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	db := setupDB(t, "invoice_repo_missing")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	got, lines, expenses, err := repo.FindByID(context.Background(), node.Generate())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, lines)
	assert.Nil(t, expenses)
}

func TestListFilters(t *testing.T) {
	db := setupDB(t, "invoice_repo_list")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()
	customerID := node.Generate()

	for i, year := range []int{2025, 2026, 2026} {
		invoice := &invoicedomain.Invoice{
			ID:             node.Generate(),
			CustomerID:     customerID,
			InvoiceType:    invoicedomain.InvoiceTypeMonthly,
			Number:         "N",
			SequenceNumber: int64(i + 1),
			Year:           year,
			Currency:       "EUR",
			Subtotal:       decimal.NewFromInt(100),
			TotalExpenses:  decimal.Zero,
			TotalTax:       decimal.Zero,
			Total:          decimal.NewFromInt(100),
			Status:         invoicedomain.InvoiceStatusDraft,
			IssuedAt:       now,
		}
		require.NoError(t, repo.Save(ctx, invoice, nil, nil))
	}

	all, pageInfo, err := repo.List(ctx, invoicedomain.ListRequest{CustomerID: customerID.String()})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.False(t, pageInfo.HasMore)

	byYear, _, err := repo.List(ctx, invoicedomain.ListRequest{CustomerID: customerID.String(), Year: 2026})
	require.NoError(t, err)
	assert.Len(t, byYear, 2)
}

func TestListCursorPagination(t *testing.T) {
	db := setupDB(t, "invoice_repo_page")
	repo := NewRepository(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()
	customerID := node.Generate()

	for i := 0; i < 5; i++ {
		invoice := &invoicedomain.Invoice{
			ID:             node.Generate(),
			CustomerID:     customerID,
			InvoiceType:    invoicedomain.InvoiceTypeMonthly,
			Number:         "N",
			SequenceNumber: int64(i + 1),
			Year:           2026,
			Currency:       "EUR",
			Subtotal:       decimal.NewFromInt(100),
			TotalExpenses:  decimal.Zero,
			TotalTax:       decimal.Zero,
			Total:          decimal.NewFromInt(100),
			Status:         invoicedomain.InvoiceStatusDraft,
			IssuedAt:       now,
		}
		require.NoError(t, repo.Save(ctx, invoice, nil, nil))
	}

	filter := invoicedomain.ListRequest{CustomerID: customerID.String()}
	filter.PageSize = 2

	first, pageInfo, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.True(t, pageInfo.HasMore)
	require.NotEmpty(t, pageInfo.NextPageToken)

	// Newest first.
	assert.Greater(t, first[0].SequenceNumber, first[1].SequenceNumber)

	filter.PageToken = pageInfo.NextPageToken
	second, pageInfo, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.True(t, pageInfo.HasMore)
	assert.Less(t, second[0].ID.Int64(), first[1].ID.Int64())

	filter.PageToken = pageInfo.NextPageToken
	last, pageInfo, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.False(t, pageInfo.HasMore)
}
