package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	"github.com/smallbiznis/invara/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) templatedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, template *templatedomain.InvoiceTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*templatedomain.InvoiceTemplate, error) {
	var template templatedomain.InvoiceTemplate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, invoice_type, name, content, active, style, created_at, updated_at
		 FROM invoice_templates
		 WHERE id = ?`,
		id,
	).Scan(&template).Error
	if err != nil {
		return nil, err
	}
	if template.ID == 0 {
		return nil, nil
	}
	return &template, nil
}

func (r *repository) FindActive(ctx context.Context, customerID snowflake.ID, invoiceType string) (*templatedomain.InvoiceTemplate, error) {
	var template templatedomain.InvoiceTemplate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, invoice_type, name, content, active, style, created_at, updated_at
		 FROM invoice_templates
		 WHERE customer_id = ? AND invoice_type = ? AND active = ?
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		customerID, invoiceType, true,
	).Scan(&template).Error
	if err != nil {
		return nil, err
	}
	if template.ID == 0 {
		return nil, nil
	}
	return &template, nil
}

func (r *repository) List(ctx context.Context, filter templatedomain.ListRequest) ([]templatedomain.InvoiceTemplate, error) {
	var items []templatedomain.InvoiceTemplate
	stmt := r.db.WithContext(ctx).Model(&templatedomain.InvoiceTemplate{})

	if raw := strings.TrimSpace(filter.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, templatedomain.ErrInvalidCustomer
		}
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	if filter.InvoiceType != "" {
		stmt = stmt.Where("invoice_type = ?", filter.InvoiceType)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}

	stmt = option.WithSortBy(option.QuerySortBy{
		SortBy:  filter.SortBy,
		OrderBy: filter.OrderBy,
		Allow: map[string]bool{
			"created_at": true,
			"updated_at": true,
			"name":       true,
		},
	}).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, template *templatedomain.InvoiceTemplate) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE invoice_templates
		 SET name = ?, content = ?, active = ?, style = ?, updated_at = ?
		 WHERE id = ?`,
		template.Name,
		template.Content,
		template.Active,
		template.Style,
		template.UpdatedAt,
		template.ID,
	).Error
}

func (r *repository) DeactivateOthers(ctx context.Context, customerID snowflake.ID, invoiceType string, keep snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE invoice_templates
		 SET active = ?
		 WHERE customer_id = ? AND invoice_type = ? AND id <> ?`,
		false, customerID, invoiceType, keep,
	).Error
}
