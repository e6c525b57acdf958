package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invara/pkg/db/pagination"
)

type ListRequest struct {
	CustomerID  string
	InvoiceType string
	Year        int
	pagination.Pagination
}

type Repository interface {
	// Save persists the aggregate with its tax lines and expenses in a
	// single transaction.
	Save(ctx context.Context, invoice *Invoice, lines []InvoiceTaxLine, expenses []InvoiceExpense) error
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, []InvoiceTaxLine, []InvoiceExpense, error)
	// List pages newest-first on the snowflake id cursor.
	List(ctx context.Context, filter ListRequest) ([]*Invoice, *pagination.PageInfo, error)
	// NextSequence reserves and returns the next value of the
	// (customer, invoice type, year) counter. The reservation is atomic:
	// two concurrent calls never receive the same value.
	NextSequence(ctx context.Context, customerID snowflake.ID, invoiceType InvoiceType, year int) (int64, error)
}
