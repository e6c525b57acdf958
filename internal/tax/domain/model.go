package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ApplicationType selects the base a tax definition is computed against.
type ApplicationType string

const (
	// ApplicationOnBase applies the tax to the invoice taxable base.
	ApplicationOnBase ApplicationType = "ON_BASE"
	// ApplicationOnTax applies the tax to another, already-computed tax line.
	ApplicationOnTax ApplicationType = "ON_TAX"
)

// HandlerID names a calculation strategy. The set is closed: handlers are
// registered once at startup and never looked up dynamically beyond this list.
type HandlerID string

const (
	HandlerPercentage HandlerID = "PERCENTAGE"
	HandlerFixed      HandlerID = "FIXED"
	HandlerCompound   HandlerID = "COMPOUND"
)

// TaxDefinition is a customer-scoped tax rule.
// NOTE:
// - Code is a stable, engine-facing identifier (immutable once created)
// - Description is UI-facing and editable
// - Rate's meaning depends on the handler: a percentage for PERCENTAGE and
//   COMPOUND, a flat amount for FIXED (negative = deduction)
// - An ON_TAX definition must reference a definition with a strictly smaller
//   evaluation order; evaluation never reorders beyond the declared order.
type TaxDefinition struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	CustomerID snowflake.ID `gorm:"column:customer_id;not null;index"`

	Code        string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	HandlerID   HandlerID       `gorm:"column:handler_id;type:text;not null"`
	Rate        decimal.Decimal `gorm:"type:numeric(12,6);not null"`

	ApplicationType ApplicationType `gorm:"column:application_type;type:text;not null"`
	AppliedToID     *snowflake.ID   `gorm:"column:applied_to_id"`

	EvaluationOrder int  `gorm:"column:evaluation_order;not null"`
	Active          bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxDefinition) TableName() string { return "tax_definitions" }

func (t *TaxDefinition) Validate() error {
	if t.Code == "" {
		return ErrInvalidTaxCode
	}
	switch t.HandlerID {
	case HandlerPercentage, HandlerFixed, HandlerCompound:
	default:
		return ErrUnknownHandler
	}
	switch t.ApplicationType {
	case ApplicationOnBase:
		if t.AppliedToID != nil {
			return ErrInvalidApplicationType
		}
	case ApplicationOnTax:
		if t.AppliedToID == nil {
			return ErrMissingAppliedTo
		}
	default:
		return ErrInvalidApplicationType
	}
	return nil
}
