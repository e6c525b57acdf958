package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	"github.com/smallbiznis/invara/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  customerdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  customerdomain.Repository
}

func NewService(p serviceParams) customerdomain.Service {
	return &Service{
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Response, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, customerdomain.ErrInvalidCode
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, customerdomain.ErrInvalidEmail
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency != "" && len(currency) != 3 {
		return nil, customerdomain.ErrInvalidCurrency
	}

	now := time.Now().UTC()
	record := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		Email:     email,
		Currency:  currency,
		Metadata:  normalizeMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, customerdomain.ErrCodeExists
		}
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", record.ID.String()),
		zap.String("code", record.Code),
	)
	return toResponse(record), nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListRequest) ([]customerdomain.Response, error) {
	filter := customerdomain.ListRequest{
		Code:    strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:    strings.TrimSpace(req.Name),
		SortBy:  strings.TrimSpace(req.SortBy),
		OrderBy: strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]customerdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*customerdomain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, customerdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, customerdomain.ErrNotFound
	}

	return toResponse(item), nil
}

func (s *Service) Update(ctx context.Context, req customerdomain.UpdateRequest) (*customerdomain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, customerdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, customerdomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, customerdomain.ErrInvalidName
		}
		item.Name = name
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, customerdomain.ErrInvalidEmail
		}
		item.Email = email
	}

	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency != "" && len(currency) != 3 {
			return nil, customerdomain.ErrInvalidCurrency
		}
		item.Currency = currency
	}

	if req.Metadata != nil {
		item.Metadata = normalizeMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return toResponse(item), nil
}

func toResponse(customer *customerdomain.Customer) *customerdomain.Response {
	if customer == nil {
		return nil
	}
	return &customerdomain.Response{
		ID:        customer.ID.String(),
		Code:      customer.Code,
		Name:      customer.Name,
		Email:     customer.Email,
		Currency:  customer.Currency,
		Metadata:  map[string]any(customer.Metadata),
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func normalizeMap(input map[string]any) datatypes.JSONMap {
	if input == nil {
		return datatypes.JSONMap{}
	}
	output := datatypes.JSONMap{}
	for key, value := range input {
		if key == "" {
			continue
		}
		output[key] = value
	}
	return output
}
