package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	"github.com/smallbiznis/invara/pkg/db/option"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ratedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rate *ratedomain.Rate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*ratedomain.Rate, error) {
	var rate ratedomain.Rate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, rate_type, price, currency, created_at, updated_at
		 FROM rates
		 WHERE id = ?`,
		id,
	).Scan(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

func (r *repository) FindByCustomerAndType(ctx context.Context, customerID snowflake.ID, rateType ratedomain.RateType) (*ratedomain.Rate, error) {
	var rate ratedomain.Rate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, rate_type, price, currency, created_at, updated_at
		 FROM rates
		 WHERE customer_id = ? AND rate_type = ?
		 LIMIT 1`,
		customerID,
		rateType,
	).Scan(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

func (r *repository) List(ctx context.Context, filter ratedomain.ListRequest) ([]ratedomain.Rate, error) {
	var items []ratedomain.Rate
	stmt := r.db.WithContext(ctx).Model(&ratedomain.Rate{})

	if filter.CustomerID != "" {
		customerID, err := snowflake.ParseString(filter.CustomerID)
		if err != nil {
			return nil, ratedomain.ErrInvalidCustomer
		}
		stmt = stmt.Where("customer_id = ?", customerID)
	}
	if filter.RateType != "" {
		stmt = stmt.Where("rate_type = ?", filter.RateType)
	}

	stmt = option.WithSortBy(option.QuerySortBy{
		SortBy:  filter.SortBy,
		OrderBy: filter.OrderBy,
		Allow: map[string]bool{
			"created_at": true,
			"updated_at": true,
			"rate_type":  true,
		},
	}).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, rate *ratedomain.Rate) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE rates
		 SET price = ?, currency = ?, updated_at = ?
		 WHERE id = ?`,
		rate.Price,
		rate.Currency,
		rate.UpdatedAt,
		rate.ID,
	).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM rates WHERE id = ?`, id).Error
}
