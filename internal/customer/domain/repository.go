package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Code    string
	Name    string
	SortBy  string
	OrderBy string
}

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id snowflake.ID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	List(ctx context.Context, filter ListRequest) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
}
