package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RateType classifies how a rate's price is applied during generation.
type RateType string

const (
	RateTypeDaily   RateType = "DAILY"
	RateTypeMonthly RateType = "MONTHLY"
	RateTypeHourly  RateType = "HOURLY"
	RateTypeFixed   RateType = "FIXED"
)

func (t RateType) Valid() bool {
	switch t {
	case RateTypeDaily, RateTypeMonthly, RateTypeHourly, RateTypeFixed:
		return true
	default:
		return false
	}
}

// Rate is a customer's price for one rate type. One row per
// (customer, rate_type); generation reads a fresh snapshot on every call.
type Rate struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	CustomerID snowflake.ID    `gorm:"column:customer_id;not null;index;uniqueIndex:ux_rate_customer_type"`
	RateType   RateType        `gorm:"column:rate_type;type:text;not null;uniqueIndex:ux_rate_customer_type"`
	Price      decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Currency   string          `gorm:"type:text;not null"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Rate) TableName() string { return "rates" }
