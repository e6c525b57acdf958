package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	"github.com/smallbiznis/invara/pkg/db"
	"github.com/smallbiznis/invara/pkg/db/option"
	"github.com/smallbiznis/invara/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, invoice *invoicedomain.Invoice, lines []invoicedomain.InvoiceTaxLine, expenses []invoicedomain.InvoiceExpense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		if len(expenses) > 0 {
			if err := tx.Create(&expenses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, []invoicedomain.InvoiceTaxLine, []invoicedomain.InvoiceExpense, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, invoice_type, number, sequence_number, year, period,
		        work_days, currency, subtotal, total_expenses, total_tax, total,
		        status, rendered_document, issued_at, created_at, updated_at
		 FROM invoices
		 WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, nil, nil, err
	}
	if invoice.ID == 0 {
		return nil, nil, nil, nil
	}

	var lines []invoicedomain.InvoiceTaxLine
	err = r.db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, code, description, rate, base_amount, tax_amount, currency, evaluation_order
		 FROM invoice_tax_lines
		 WHERE invoice_id = ?
		 ORDER BY evaluation_order ASC, id ASC`,
		id,
	).Scan(&lines).Error
	if err != nil {
		return nil, nil, nil, err
	}

	var expenses []invoicedomain.InvoiceExpense
	err = r.db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, description, amount, currency
		 FROM invoice_expenses
		 WHERE invoice_id = ?
		 ORDER BY id ASC`,
		id,
	).Scan(&expenses).Error
	if err != nil {
		return nil, nil, nil, err
	}

	return &invoice, lines, expenses, nil
}

const defaultPageSize = 50

func (r *repository) List(ctx context.Context, filter invoicedomain.ListRequest) ([]*invoicedomain.Invoice, *pagination.PageInfo, error) {
	var items []*invoicedomain.Invoice
	stmt := r.db.WithContext(ctx).Model(&invoicedomain.Invoice{})

	if raw := strings.TrimSpace(filter.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, nil, invoicedomain.ErrInvalidCustomer
		}
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	if filter.InvoiceType != "" {
		stmt = option.ApplyOperator(option.Condition{Field: "invoice_type", Value: filter.InvoiceType}).Apply(stmt)
	}
	if filter.Year > 0 {
		stmt = option.ApplyOperator(option.Condition{Field: "year", Value: filter.Year}).Apply(stmt)
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}

	if filter.PageToken != "" {
		cursor, err := pagination.DecodeCursor(filter.PageToken)
		if err != nil {
			return nil, nil, invoicedomain.ErrInvalidPageToken
		}
		if cursor.ID != "" {
			cursorID, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, nil, invoicedomain.ErrInvalidPageToken
			}
			stmt = option.ApplyOperator(option.Condition{Field: "id", Operator: option.LT, Value: cursorID}).Apply(stmt)
		}
	}

	// Snowflake ids are time-ordered, so id DESC is newest-first. One
	// extra row decides has_more.
	if err := stmt.Order("id DESC").Limit(limit + 1).Find(&items).Error; err != nil {
		return nil, nil, err
	}

	pageInfo, items := pagination.BuildCursorPageInfo(items, limit, func(invoice *invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: invoice.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	return items, pageInfo, nil
}

// NextSequence increments the counter row in place and reads the value
// back inside the same transaction. The in-place UPDATE is the atomic
// step; the row is created on first use, and a duplicate-key error on
// that insert means another generation won the race, so we fall back to
// the increment path.
func (r *repository) NextSequence(ctx context.Context, customerID snowflake.ID, invoiceType invoicedomain.InvoiceType, year int) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Exec(
			`UPDATE invoice_sequences
			 SET last_value = last_value + 1, updated_at = ?
			 WHERE customer_id = ? AND invoice_type = ? AND year = ?`,
			now, customerID, invoiceType, year,
		)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			seed := &invoicedomain.InvoiceSequence{
				CustomerID:  customerID,
				InvoiceType: invoiceType,
				Year:        year,
				LastValue:   1,
				UpdatedAt:   now,
			}
			err := tx.Create(seed).Error
			if err == nil {
				next = 1
				return nil
			}
			if !db.IsDuplicateKeyErr(err) {
				return err
			}
			res = tx.Exec(
				`UPDATE invoice_sequences
				 SET last_value = last_value + 1, updated_at = ?
				 WHERE customer_id = ? AND invoice_type = ? AND year = ?`,
				now, customerID, invoiceType, year,
			)
			if res.Error != nil {
				return res.Error
			}
		}

		return tx.Raw(
			`SELECT last_value FROM invoice_sequences
			 WHERE customer_id = ? AND invoice_type = ? AND year = ?`,
			customerID, invoiceType, year,
		).Scan(&next).Error
	})
	return next, err
}
