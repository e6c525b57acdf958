package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}

type CreateRequest struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Currency string         `json:"currency"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateRequest struct {
	ID       string         `json:"id"`
	Name     *string        `json:"name,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Currency *string        `json:"currency,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Response struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Currency  string         `json:"currency,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
