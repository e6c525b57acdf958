package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceTypeMonthly InvoiceType = "MONTHLY"
	InvoiceTypeOneTime InvoiceType = "ONE_TIME"
)

func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypeMonthly, InvoiceTypeOneTime:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
)

// Invoice is the computed aggregate for one generation run. Generation
// itself persists nothing; Save stores the aggregate together with its
// tax lines and expenses in one transaction.
type Invoice struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	CustomerID       snowflake.ID    `gorm:"column:customer_id;not null;index"`
	InvoiceType      InvoiceType     `gorm:"column:invoice_type;type:text;not null"`
	Number           string          `gorm:"type:text;not null"`
	SequenceNumber   int64           `gorm:"column:sequence_number;not null"`
	Year             int             `gorm:"not null;index"`
	Period           string          `gorm:"type:text"`
	WorkDays         int             `gorm:"column:work_days;not null;default:0"`
	Currency         string          `gorm:"type:text;not null"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	TotalExpenses    decimal.Decimal `gorm:"column:total_expenses;type:numeric(20,6);not null"`
	TotalTax         decimal.Decimal `gorm:"column:total_tax;type:numeric(20,6);not null"`
	Total            decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Status           InvoiceStatus   `gorm:"type:text;not null;default:'DRAFT'"`
	RenderedDocument string          `gorm:"column:rendered_document;type:text;not null"`
	IssuedAt         time.Time       `gorm:"column:issued_at;not null"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceTaxLine is one evaluated tax, stored in evaluation order.
type InvoiceTaxLine struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	InvoiceID       snowflake.ID    `gorm:"column:invoice_id;not null;index"`
	Code            string          `gorm:"type:text;not null"`
	Description     string          `gorm:"type:text"`
	Rate            decimal.Decimal `gorm:"type:numeric(12,6);not null"`
	BaseAmount      decimal.Decimal `gorm:"column:base_amount;type:numeric(20,6);not null"`
	TaxAmount       decimal.Decimal `gorm:"column:tax_amount;type:numeric(20,6);not null"`
	Currency        string          `gorm:"type:text;not null"`
	EvaluationOrder int             `gorm:"column:evaluation_order;not null"`
}

func (InvoiceTaxLine) TableName() string { return "invoice_tax_lines" }

type InvoiceExpense struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	InvoiceID   snowflake.ID    `gorm:"column:invoice_id;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Currency    string          `gorm:"type:text;not null"`
}

func (InvoiceExpense) TableName() string { return "invoice_expenses" }

// InvoiceSequence is the authoritative per-key counter behind invoice
// numbering. Reservation increments last_value atomically, so concurrent
// generations for the same key never observe the same value. Discarded
// generations leave gaps; numbers are unique, not contiguous.
type InvoiceSequence struct {
	CustomerID  snowflake.ID `gorm:"column:customer_id;primaryKey;autoIncrement:false"`
	InvoiceType InvoiceType  `gorm:"column:invoice_type;type:text;primaryKey"`
	Year        int          `gorm:"primaryKey;autoIncrement:false"`
	LastValue   int64        `gorm:"column:last_value;not null"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvoiceSequence) TableName() string { return "invoice_sequences" }
