package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	"github.com/smallbiznis/invara/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type resolverParam struct {
	fx.In

	Repository ratedomain.Repository
}

type resolver struct {
	repo ratedomain.Repository
}

func NewResolver(p resolverParam) ratedomain.RateResolver {
	return &resolver{repo: p.Repository}
}

func (r *resolver) ResolveForInvoice(ctx context.Context, customerID snowflake.ID, rateType ratedomain.RateType) (*ratedomain.Rate, error) {
	return r.repo.FindByCustomerAndType(ctx, customerID, rateType)
}

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  ratedomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  ratedomain.Repository
}

func NewService(p serviceParams) ratedomain.Service {
	return &Service{
		log:   p.Log.Named("rate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req ratedomain.CreateRequest) (*ratedomain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, ratedomain.ErrInvalidCustomer
	}

	if !req.RateType.Valid() {
		return nil, ratedomain.ErrInvalidRateType
	}

	if req.Price.IsNegative() {
		return nil, ratedomain.ErrInvalidPrice
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, ratedomain.ErrInvalidCurrency
	}

	now := time.Now().UTC()
	record := &ratedomain.Rate{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		RateType:   req.RateType,
		Price:      req.Price,
		Currency:   currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, ratedomain.ErrRateExists
		}
		return nil, err
	}

	s.log.Info("rate created",
		zap.String("rate_id", record.ID.String()),
		zap.String("customer_id", record.CustomerID.String()),
		zap.String("rate_type", string(record.RateType)),
	)
	return toResponse(record), nil
}

func (s *Service) List(ctx context.Context, req ratedomain.ListRequest) ([]ratedomain.Response, error) {
	filter := ratedomain.ListRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		RateType:   strings.ToUpper(strings.TrimSpace(req.RateType)),
		SortBy:     strings.TrimSpace(req.SortBy),
		OrderBy:    strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]ratedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*ratedomain.Response, error) {
	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ratedomain.ErrNotFound
	}

	return toResponse(item), nil
}

func (s *Service) Update(ctx context.Context, req ratedomain.UpdateRequest) (*ratedomain.Response, error) {
	rateID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ratedomain.ErrNotFound
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ratedomain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}

	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return nil, ratedomain.ErrInvalidCurrency
		}
		item.Currency = currency
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return toResponse(item), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, rateID)
	if err != nil {
		return err
	}
	if item == nil {
		return ratedomain.ErrNotFound
	}

	return s.repo.Delete(ctx, rateID)
}

func toResponse(rate *ratedomain.Rate) *ratedomain.Response {
	if rate == nil {
		return nil
	}
	return &ratedomain.Response{
		ID:         rate.ID.String(),
		CustomerID: rate.CustomerID.String(),
		RateType:   rate.RateType,
		Price:      rate.Price,
		Currency:   rate.Currency,
		CreatedAt:  rate.CreatedAt,
		UpdatedAt:  rate.UpdatedAt,
	}
}
