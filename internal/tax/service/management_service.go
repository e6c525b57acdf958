package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func NewService(p serviceParams) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, taxdomain.ErrInvalidCustomer
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, taxdomain.ErrInvalidTaxCode
	}

	var appliedToID *snowflake.ID
	if req.AppliedToID != nil {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.AppliedToID))
		if err != nil {
			return nil, taxdomain.ErrInvalidID
		}
		appliedToID = &parsed
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	record := &taxdomain.TaxDefinition{
		ID:              s.genID.Generate(),
		CustomerID:      customerID,
		Code:            code,
		Description:     strings.TrimSpace(req.Description),
		HandlerID:       req.HandlerID,
		Rate:            req.Rate,
		ApplicationType: req.ApplicationType,
		AppliedToID:     appliedToID,
		EvaluationOrder: req.EvaluationOrder,
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkOrderAgainstReference(ctx, record); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("tax definition created",
		zap.String("tax_id", record.ID.String()),
		zap.String("customer_id", record.CustomerID.String()),
		zap.String("code", record.Code),
		zap.String("handler", string(record.HandlerID)),
	)
	return toResponse(record), nil
}

func (s *Service) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.Response, error) {
	filter := taxdomain.ListRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Active:     req.Active,
		SortBy:     strings.TrimSpace(req.SortBy),
		OrderBy:    strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]taxdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*taxdomain.Response, error) {
	taxID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrNotFound
	}

	return toResponse(item), nil
}

func (s *Service) Update(ctx context.Context, req taxdomain.UpdateRequest) (*taxdomain.Response, error) {
	taxID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrNotFound
	}

	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.EvaluationOrder != nil {
		item.EvaluationOrder = *req.EvaluationOrder
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := s.checkOrderAgainstReference(ctx, item); err != nil {
		return nil, err
	}
	if err := s.checkDependents(ctx, item); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return toResponse(item), nil
}

func (s *Service) Disable(ctx context.Context, id string) (*taxdomain.Response, error) {
	inactive := false
	return s.Update(ctx, taxdomain.UpdateRequest{ID: id, Active: &inactive})
}

// checkOrderAgainstReference enforces at save time what the engine would
// otherwise only discover during calculation: an ON_TAX definition must point
// at an existing, active definition of the same customer with a strictly
// smaller evaluation order.
func (s *Service) checkOrderAgainstReference(ctx context.Context, def *taxdomain.TaxDefinition) error {
	if def.ApplicationType != taxdomain.ApplicationOnTax {
		return nil
	}
	if def.AppliedToID == nil {
		return taxdomain.ErrMissingAppliedTo
	}

	ref, err := s.repo.FindByID(ctx, *def.AppliedToID)
	if err != nil {
		return err
	}
	if ref == nil || ref.CustomerID != def.CustomerID || !ref.Active {
		return taxdomain.ErrDanglingTaxReference
	}
	if ref.EvaluationOrder >= def.EvaluationOrder {
		return taxdomain.ErrInvalidTaxOrder
	}
	return nil
}

// checkDependents rejects updates that would strand an existing ON_TAX
// definition pointing at this one.
func (s *Service) checkDependents(ctx context.Context, def *taxdomain.TaxDefinition) error {
	defs, err := s.repo.List(ctx, taxdomain.ListRequest{CustomerID: def.CustomerID.String()})
	if err != nil {
		return err
	}
	for i := range defs {
		dep := defs[i]
		if dep.AppliedToID == nil || *dep.AppliedToID != def.ID || !dep.Active {
			continue
		}
		if !def.Active {
			return taxdomain.ErrDanglingTaxReference
		}
		if def.EvaluationOrder >= dep.EvaluationOrder {
			return taxdomain.ErrInvalidTaxOrder
		}
	}
	return nil
}

func toResponse(def *taxdomain.TaxDefinition) *taxdomain.Response {
	if def == nil {
		return nil
	}
	resp := &taxdomain.Response{
		ID:              def.ID.String(),
		CustomerID:      def.CustomerID.String(),
		Code:            def.Code,
		Description:     def.Description,
		HandlerID:       def.HandlerID,
		Rate:            def.Rate,
		ApplicationType: def.ApplicationType,
		EvaluationOrder: def.EvaluationOrder,
		Active:          def.Active,
		CreatedAt:       def.CreatedAt,
		UpdatedAt:       def.UpdatedAt,
	}
	if def.AppliedToID != nil {
		appliedTo := def.AppliedToID.String()
		resp.AppliedToID = &appliedTo
	}
	return resp
}
