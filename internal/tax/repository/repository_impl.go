package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"github.com/smallbiznis/invara/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveDefinitions(ctx context.Context, customerID snowflake.ID) ([]taxdomain.TaxDefinition, error) {
	var defs []taxdomain.TaxDefinition
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, code, description, handler_id, rate,
		        application_type, applied_to_id, evaluation_order, active,
		        created_at, updated_at
		 FROM tax_definitions
		 WHERE customer_id = ? AND active = true
		 ORDER BY evaluation_order ASC, id ASC`,
		customerID,
	).Scan(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *repository) Create(ctx context.Context, def *taxdomain.TaxDefinition) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO tax_definitions (
			id, customer_id, code, description, handler_id, rate,
			application_type, applied_to_id, evaluation_order, active,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID,
		def.CustomerID,
		def.Code,
		def.Description,
		def.HandlerID,
		def.Rate,
		def.ApplicationType,
		def.AppliedToID,
		def.EvaluationOrder,
		def.Active,
		def.CreatedAt,
		def.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxDefinition, error) {
	var def taxdomain.TaxDefinition
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, code, description, handler_id, rate,
		        application_type, applied_to_id, evaluation_order, active,
		        created_at, updated_at
		 FROM tax_definitions
		 WHERE id = ?`,
		id,
	).Scan(&def).Error
	if err != nil {
		return nil, err
	}
	if def.ID == 0 {
		return nil, nil
	}
	return &def, nil
}

func (r *repository) List(ctx context.Context, filter taxdomain.ListRequest) ([]taxdomain.TaxDefinition, error) {
	var items []taxdomain.TaxDefinition
	stmt := r.db.WithContext(ctx).Model(&taxdomain.TaxDefinition{})

	if filter.CustomerID != "" {
		customerID, err := snowflake.ParseString(filter.CustomerID)
		if err != nil {
			return nil, taxdomain.ErrInvalidCustomer
		}
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	stmt = option.WithSortBy(option.QuerySortBy{
		SortBy:  filter.SortBy,
		OrderBy: filter.OrderBy,
		Allow: map[string]bool{
			"created_at":       true,
			"updated_at":       true,
			"code":             true,
			"evaluation_order": true,
		},
	}).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, def *taxdomain.TaxDefinition) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tax_definitions
		 SET description = ?, rate = ?, evaluation_order = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		def.Description,
		def.Rate,
		def.EvaluationOrder,
		def.Active,
		def.UpdatedAt,
		def.ID,
	).Error
}
