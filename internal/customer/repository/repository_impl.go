package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	"github.com/smallbiznis/invara/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) customerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, customer *customerdomain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, name, email, currency, metadata, created_at, updated_at
		 FROM customers
		 WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, name, email, currency, metadata, created_at, updated_at
		 FROM customers
		 WHERE code = ?`,
		code,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, filter customerdomain.ListRequest) ([]customerdomain.Customer, error) {
	var items []customerdomain.Customer
	stmt := r.db.WithContext(ctx).Model(&customerdomain.Customer{})

	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}

	stmt = option.WithSortBy(option.QuerySortBy{
		SortBy:  filter.SortBy,
		OrderBy: filter.OrderBy,
		Allow: map[string]bool{
			"created_at": true,
			"updated_at": true,
			"name":       true,
			"code":       true,
		},
	}).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, customer *customerdomain.Customer) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET name = ?, email = ?, currency = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		customer.Name,
		customer.Email,
		customer.Currency,
		customer.Metadata,
		customer.UpdatedAt,
		customer.ID,
	).Error
}
