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
	CustomerID  string         `json:"customer_id"`
	InvoiceType string         `json:"invoice_type"`
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Active      *bool          `json:"active,omitempty"`
	Style       map[string]any `json:"style,omitempty"`
}

type UpdateRequest struct {
	ID      string         `json:"id"`
	Name    *string        `json:"name,omitempty"`
	Content *string        `json:"content,omitempty"`
	Active  *bool          `json:"active,omitempty"`
	Style   map[string]any `json:"style,omitempty"`
}

type Response struct {
	ID          string         `json:"id"`
	CustomerID  string         `json:"customer_id"`
	InvoiceType string         `json:"invoice_type"`
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Active      bool           `json:"active"`
	Style       map[string]any `json:"style,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
