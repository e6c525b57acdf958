package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var validInvoiceTypes = map[string]bool{
	"MONTHLY":  true,
	"ONE_TIME": true,
}

type resolverParam struct {
	fx.In

	Repository templatedomain.Repository
}

type resolver struct {
	repo templatedomain.Repository
}

func NewResolver(p resolverParam) templatedomain.TemplateResolver {
	return &resolver{repo: p.Repository}
}

func (r *resolver) ResolveActive(ctx context.Context, customerID snowflake.ID, invoiceType string) (*templatedomain.InvoiceTemplate, error) {
	return r.repo.FindActive(ctx, customerID, invoiceType)
}

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  templatedomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  templatedomain.Repository
}

func NewService(p serviceParams) templatedomain.Service {
	return &Service{
		log:   p.Log.Named("invoicetemplate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req templatedomain.CreateRequest) (*templatedomain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, templatedomain.ErrInvalidCustomer
	}

	invoiceType := strings.ToUpper(strings.TrimSpace(req.InvoiceType))
	if !validInvoiceTypes[invoiceType] {
		return nil, templatedomain.ErrInvalidInvoiceType
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, templatedomain.ErrInvalidName
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, templatedomain.ErrInvalidContent
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	record := &templatedomain.InvoiceTemplate{
		ID:          s.genID.Generate(),
		CustomerID:  customerID,
		InvoiceType: invoiceType,
		Name:        name,
		Content:     req.Content,
		Active:      active,
		Style:       normalizeMap(req.Style),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	// A single active template per (customer, invoice type): activating
	// a new template retires the previous one.
	if record.Active {
		if err := s.repo.DeactivateOthers(ctx, record.CustomerID, record.InvoiceType, record.ID); err != nil {
			return nil, err
		}
	}

	s.log.Info("invoice template created",
		zap.String("template_id", record.ID.String()),
		zap.String("customer_id", record.CustomerID.String()),
		zap.String("invoice_type", record.InvoiceType),
		zap.Bool("active", record.Active),
	)
	return toResponse(record), nil
}

func (s *Service) List(ctx context.Context, req templatedomain.ListRequest) ([]templatedomain.Response, error) {
	filter := templatedomain.ListRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		InvoiceType: strings.ToUpper(strings.TrimSpace(req.InvoiceType)),
		ActiveOnly:  req.ActiveOnly,
		SortBy:      strings.TrimSpace(req.SortBy),
		OrderBy:     strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]templatedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*templatedomain.Response, error) {
	templateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, templatedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, templatedomain.ErrNotFound
	}

	return toResponse(item), nil
}

func (s *Service) Update(ctx context.Context, req templatedomain.UpdateRequest) (*templatedomain.Response, error) {
	templateID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, templatedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, templatedomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, templatedomain.ErrInvalidName
		}
		item.Name = name
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, templatedomain.ErrInvalidContent
		}
		item.Content = *req.Content
	}

	activated := false
	if req.Active != nil {
		activated = *req.Active && !item.Active
		item.Active = *req.Active
	}

	if req.Style != nil {
		item.Style = normalizeMap(req.Style)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	if activated {
		if err := s.repo.DeactivateOthers(ctx, item.CustomerID, item.InvoiceType, item.ID); err != nil {
			return nil, err
		}
	}

	return toResponse(item), nil
}

func toResponse(template *templatedomain.InvoiceTemplate) *templatedomain.Response {
	if template == nil {
		return nil
	}
	return &templatedomain.Response{
		ID:          template.ID.String(),
		CustomerID:  template.CustomerID.String(),
		InvoiceType: template.InvoiceType,
		Name:        template.Name,
		Content:     template.Content,
		Active:      template.Active,
		Style:       map[string]any(template.Style),
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
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
