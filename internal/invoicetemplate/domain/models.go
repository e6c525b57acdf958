package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceTemplate holds the document body rendered for a generated invoice.
// Content is opaque to this service: it is handed verbatim to the renderer.
// At most one active template exists per (customer, invoice type).
type InvoiceTemplate struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	CustomerID  snowflake.ID      `gorm:"column:customer_id;not null;index"`
	InvoiceType string            `gorm:"column:invoice_type;type:text;not null"`
	Name        string            `gorm:"type:text;not null"`
	Content     string            `gorm:"type:text;not null"`
	Active      bool              `gorm:"not null;default:true"`
	Style       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvoiceTemplate) TableName() string { return "invoice_templates" }
