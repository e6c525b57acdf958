package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invara/internal/clock"
	"github.com/smallbiznis/invara/internal/config"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	"github.com/smallbiznis/invara/internal/invoice/format"
	"github.com/smallbiznis/invara/internal/invoice/render"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	"github.com/smallbiznis/invara/internal/lock"
	"github.com/smallbiznis/invara/internal/observability/metrics"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"github.com/smallbiznis/invara/internal/tax/engine"
	"github.com/smallbiznis/invara/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParams struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Config    config.Config
	Invoicing *config.InvoicingConfigHolder
	Locker    *lock.Locker `optional:"true"`
	Customers customerdomain.Repository
	Rates     ratedomain.RateResolver
	Taxes     taxdomain.TaxResolver
	Templates templatedomain.TemplateResolver
	Engine    *engine.Engine
	Renderer  render.Renderer
	Repo      invoicedomain.Repository
	Metrics   *metrics.GenerationMetrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       config.Config
	invoicing *config.InvoicingConfigHolder
	locker    *lock.Locker
	customers customerdomain.Repository
	rates     ratedomain.RateResolver
	taxes     taxdomain.TaxResolver
	templates templatedomain.TemplateResolver
	engine    *engine.Engine
	renderer  render.Renderer
	repo      invoicedomain.Repository
	metrics   *metrics.GenerationMetrics
}

func NewService(p serviceParams) invoicedomain.Service {
	return &Service{
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Config,
		invoicing: p.Invoicing,
		locker:    p.Locker,
		customers: p.Customers,
		rates:     p.Rates,
		taxes:     p.Taxes,
		templates: p.Templates,
		engine:    p.Engine,
		renderer:  p.Renderer,
		repo:      p.Repo,
		metrics:   p.Metrics,
	}
}

// aggregate is one fully computed generation result, not yet persisted.
type aggregate struct {
	invoice  *invoicedomain.Invoice
	lines    []invoicedomain.InvoiceTaxLine
	expenses []invoicedomain.InvoiceExpense
}

func (s *Service) Generate(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Response, error) {
	start := time.Now()
	agg, err := s.generate(ctx, req)
	s.metrics.Observe(req.InvoiceType, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return toResponse(agg.invoice, agg.lines, agg.expenses), nil
}

func (s *Service) Create(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Response, error) {
	start := time.Now()
	agg, err := s.generate(ctx, req)
	s.metrics.Observe(req.InvoiceType, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, agg.invoice, agg.lines, agg.expenses); err != nil {
		return nil, err
	}

	s.log.Info("invoice persisted",
		zap.String("invoice_id", agg.invoice.ID.String()),
		zap.String("number", agg.invoice.Number),
		zap.String("customer_id", agg.invoice.CustomerID.String()),
		zap.String("total", agg.invoice.Total.String()),
	)
	return toResponse(agg.invoice, agg.lines, agg.expenses), nil
}

// generate runs the whole pipeline in strict sequence: template, rate,
// taxes, subtotal, expenses, tax engine, number reservation, rendering.
// Any failure aborts the call; nothing is persisted here.
func (s *Service) generate(ctx context.Context, req invoicedomain.GenerateRequest) (*aggregate, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidCustomer
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, invoicedomain.ErrCustomerNotFound
	}

	invoiceType := invoicedomain.InvoiceType(strings.ToUpper(strings.TrimSpace(req.InvoiceType)))
	if !invoiceType.Valid() {
		return nil, invoicedomain.ErrUnsupportedInvoiceType
	}

	if invoiceType == invoicedomain.InvoiceTypeMonthly && req.WorkDays <= 0 {
		return nil, invoicedomain.ErrInvalidWorkDays
	}
	if req.WorkDays < 0 {
		return nil, invoicedomain.ErrInvalidWorkDays
	}

	issuedAt := s.clock.Now()
	refDate := issuedAt
	period := strings.TrimSpace(req.Period)
	if period != "" {
		parsed, err := time.Parse("2006-01", period)
		if err != nil {
			return nil, invoicedomain.ErrInvalidPeriod
		}
		refDate = parsed
	}

	invoicingCfg := s.invoicing.Current()
	pattern := strings.TrimSpace(req.NumberPattern)
	if pattern == "" {
		pattern = invoicingCfg.DefaultNumberPattern
	}
	if strings.TrimSpace(pattern) == "" {
		return nil, invoicedomain.ErrEmptyPattern
	}
	if !format.ValidatePattern(pattern) {
		return nil, invoicedomain.ErrInvalidPattern
	}

	defaultCurrency := strings.ToUpper(strings.TrimSpace(customer.Currency))
	if defaultCurrency == "" {
		defaultCurrency = invoicingCfg.DefaultCurrency
	}
	if defaultCurrency == "" {
		defaultCurrency = s.cfg.DefaultCurrency
	}

	year := refDate.Year()

	if s.locker != nil {
		key := fmt.Sprintf("invoice:generate:%s:%s:%d", customerID, invoiceType, year)
		ttl := time.Duration(s.cfg.GenerationLockTTLSeconds) * time.Second
		token, acquired, err := s.locker.TryLock(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, invoicedomain.ErrGenerationInProgress
		}
		defer func() {
			if err := s.locker.Release(ctx, key, token); err != nil {
				s.log.Warn("generation lock release failed", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	template, err := s.templates.ResolveActive(ctx, customerID, string(invoiceType))
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, invoicedomain.ErrNoActiveTemplate
	}

	rateType := ratedomain.RateTypeMonthly
	if invoiceType == invoicedomain.InvoiceTypeOneTime {
		rateType = ratedomain.RateTypeDaily
	}
	rate, err := s.rates.ResolveForInvoice(ctx, customerID, rateType)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, invoicedomain.ErrNoRateConfigured
	}

	definitions, err := s.taxes.ResolveForInvoice(ctx, customerID)
	if err != nil {
		return nil, err
	}

	subtotalAmount := rate.Price
	if invoiceType == invoicedomain.InvoiceTypeMonthly {
		subtotalAmount = rate.Price.Mul(decimal.NewFromInt(int64(req.WorkDays)))
	}
	subtotal, err := money.New(subtotalAmount, rate.Currency)
	if err != nil {
		return nil, err
	}

	expensesTotal, expenseRows, err := s.sumExpenses(req.Expenses, defaultCurrency)
	if err != nil {
		return nil, err
	}

	taxableBase := subtotal
	if !expensesTotal.IsZero() {
		taxableBase, err = subtotal.Add(expensesTotal)
		if err != nil {
			return nil, err
		}
	}

	taxResult, err := s.engine.Calculate(definitions, taxableBase)
	if err != nil {
		return nil, err
	}

	sequence, err := s.repo.NextSequence(ctx, customerID, invoiceType, year)
	if err != nil {
		return nil, err
	}

	number, err := format.Generate(pattern, sequence, refDate, customer.Code)
	if err != nil {
		return nil, err
	}

	total, err := taxableBase.Add(taxResult.TotalTax)
	if err != nil {
		return nil, err
	}

	invoiceID := s.genID.Generate()
	invoice := &invoicedomain.Invoice{
		ID:             invoiceID,
		CustomerID:     customerID,
		InvoiceType:    invoiceType,
		Number:         number,
		SequenceNumber: sequence,
		Year:           year,
		Period:         period,
		WorkDays:       req.WorkDays,
		Currency:       subtotal.Currency(),
		Subtotal:       subtotal.Amount(),
		TotalExpenses:  expensesTotal.Amount(),
		TotalTax:       taxResult.TotalTax.Amount(),
		Total:          total.Amount(),
		Status:         invoicedomain.InvoiceStatusDraft,
		IssuedAt:       issuedAt,
		CreatedAt:      issuedAt,
		UpdatedAt:      issuedAt,
	}

	lines := make([]invoicedomain.InvoiceTaxLine, 0, len(taxResult.Lines))
	for _, line := range taxResult.Lines {
		lines = append(lines, invoicedomain.InvoiceTaxLine{
			ID:              s.genID.Generate(),
			InvoiceID:       invoiceID,
			Code:            line.Code,
			Description:     line.Description,
			Rate:            line.Rate,
			BaseAmount:      line.BaseAmount.Amount(),
			TaxAmount:       line.TaxAmount.Amount(),
			Currency:        line.TaxAmount.Currency(),
			EvaluationOrder: line.EvaluationOrder,
		})
	}

	for i := range expenseRows {
		expenseRows[i].ID = s.genID.Generate()
		expenseRows[i].InvoiceID = invoiceID
	}

	projection := buildProjection(invoice, customer, lines, expenseRows)
	document, err := s.renderer.Render(template.Content, projection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invoicedomain.ErrTemplateRenderFailed, err)
	}
	invoice.RenderedDocument = document

	s.log.Info("invoice generated",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("invoice_type", string(invoiceType)),
		zap.String("number", number),
		zap.Int64("sequence", sequence),
		zap.String("subtotal", invoice.Subtotal.String()),
		zap.String("total_tax", invoice.TotalTax.String()),
		zap.String("total", invoice.Total.String()),
	)

	return &aggregate{invoice: invoice, lines: lines, expenses: expenseRows}, nil
}

// sumExpenses validates and totals the supplied expenses. Expenses with
// no currency take the configured default; after that every expense must
// share one currency. No expenses yields a zero total in the default
// currency.
func (s *Service) sumExpenses(inputs []invoicedomain.ExpenseInput, defaultCurrency string) (money.Money, []invoicedomain.InvoiceExpense, error) {
	if len(inputs) == 0 {
		zero, err := money.Zero(defaultCurrency)
		if err != nil {
			return money.Money{}, nil, err
		}
		return zero, nil, nil
	}

	var (
		total money.Money
		rows  = make([]invoicedomain.InvoiceExpense, 0, len(inputs))
	)
	for i, input := range inputs {
		if input.Amount.IsNegative() {
			return money.Money{}, nil, invoicedomain.ErrInvalidExpense
		}

		currency := strings.ToUpper(strings.TrimSpace(input.Currency))
		if currency == "" {
			currency = defaultCurrency
		}

		amount, err := money.New(input.Amount, currency)
		if err != nil {
			return money.Money{}, nil, err
		}

		if i == 0 {
			total = amount
		} else {
			if amount.Currency() != total.Currency() {
				return money.Money{}, nil, invoicedomain.ErrMixedExpenseCurrency
			}
			total, err = total.Add(amount)
			if err != nil {
				return money.Money{}, nil, err
			}
		}

		rows = append(rows, invoicedomain.InvoiceExpense{
			Description: strings.TrimSpace(input.Description),
			Amount:      amount.Amount(),
			Currency:    amount.Currency(),
		})
	}
	return total, rows, nil
}

// buildProjection flattens the invoice into the key/value map handed to
// the template renderer. Tax and expense entries are 1-based.
func buildProjection(invoice *invoicedomain.Invoice, customer *customerdomain.Customer, lines []invoicedomain.InvoiceTaxLine, expenses []invoicedomain.InvoiceExpense) map[string]string {
	data := map[string]string{
		"invoice_number": invoice.Number,
		"invoice_type":   string(invoice.InvoiceType),
		"period":         invoice.Period,
		"year":           strconv.Itoa(invoice.Year),
		"work_days":      strconv.Itoa(invoice.WorkDays),
		"currency":       invoice.Currency,
		"subtotal":       invoice.Subtotal.String(),
		"total_expenses": invoice.TotalExpenses.String(),
		"total_tax":      invoice.TotalTax.String(),
		"total":          invoice.Total.String(),
		"issued_at":      invoice.IssuedAt.UTC().Format("2006-01-02"),
		"customer_code":  customer.Code,
		"customer_name":  customer.Name,
		"customer_email": customer.Email,
		"tax_count":      strconv.Itoa(len(lines)),
		"expense_count":  strconv.Itoa(len(expenses)),
	}

	for i, line := range lines {
		prefix := fmt.Sprintf("tax_%d_", i+1)
		data[prefix+"code"] = line.Code
		data[prefix+"description"] = line.Description
		data[prefix+"rate"] = line.Rate.String()
		data[prefix+"amount"] = line.TaxAmount.String()
	}
	for i, expense := range expenses {
		prefix := fmt.Sprintf("expense_%d_", i+1)
		data[prefix+"description"] = expense.Description
		data[prefix+"amount"] = expense.Amount.String()
	}
	return data
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) (*invoicedomain.ListResponse, error) {
	filter := invoicedomain.ListRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		InvoiceType: strings.ToUpper(strings.TrimSpace(req.InvoiceType)),
		Year:        req.Year,
		Pagination:  req.Pagination,
	}

	items, pageInfo, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &invoicedomain.ListResponse{
		Items:    make([]invoicedomain.Response, 0, len(items)),
		PageInfo: pageInfo,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, *toResponse(item, nil, nil))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Response, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidID
	}

	invoice, lines, expenses, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}

	return toResponse(invoice, lines, expenses), nil
}

func (s *Service) PreviewNumber(ctx context.Context, pattern string) (string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = s.invoicing.Current().DefaultNumberPattern
	}
	if !format.ValidatePattern(pattern) {
		return "", invoicedomain.ErrInvalidPattern
	}
	return format.Preview(pattern, s.clock.Now())
}

func toResponse(invoice *invoicedomain.Invoice, lines []invoicedomain.InvoiceTaxLine, expenses []invoicedomain.InvoiceExpense) *invoicedomain.Response {
	if invoice == nil {
		return nil
	}

	taxLines := make([]invoicedomain.TaxLineResponse, 0, len(lines))
	for _, line := range lines {
		taxLines = append(taxLines, invoicedomain.TaxLineResponse{
			Code:            line.Code,
			Description:     line.Description,
			Rate:            line.Rate,
			BaseAmount:      line.BaseAmount,
			TaxAmount:       line.TaxAmount,
			Currency:        line.Currency,
			EvaluationOrder: line.EvaluationOrder,
		})
	}

	expenseRows := make([]invoicedomain.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		expenseRows = append(expenseRows, invoicedomain.ExpenseResponse{
			Description: expense.Description,
			Amount:      expense.Amount,
			Currency:    expense.Currency,
		})
	}

	return &invoicedomain.Response{
		ID:               invoice.ID.String(),
		CustomerID:       invoice.CustomerID.String(),
		InvoiceType:      invoice.InvoiceType,
		Number:           invoice.Number,
		SequenceNumber:   invoice.SequenceNumber,
		Year:             invoice.Year,
		Period:           invoice.Period,
		WorkDays:         invoice.WorkDays,
		Currency:         invoice.Currency,
		Subtotal:         invoice.Subtotal,
		TotalExpenses:    invoice.TotalExpenses,
		TotalTax:         invoice.TotalTax,
		Total:            invoice.Total,
		Status:           invoice.Status,
		TaxLines:         taxLines,
		Expenses:         expenseRows,
		RenderedDocument: invoice.RenderedDocument,
		IssuedAt:         invoice.IssuedAt,
		CreatedAt:        invoice.CreatedAt,
		UpdatedAt:        invoice.UpdatedAt,
	}
}
