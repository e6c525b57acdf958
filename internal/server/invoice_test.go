package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
)

type fakeInvoiceService struct {
	generateCalls int
	createCalls   int
	lastRequest   invoicedomain.GenerateRequest
	response      *invoicedomain.Response
	err           error
}

func (f *fakeInvoiceService) Generate(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Response, error) {
	f.generateCalls++
	f.lastRequest = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.Response, error) {
	f.createCalls++
	f.lastRequest = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListRequest) (*invoicedomain.ListResponse, error) {
	_ = ctx
	_ = req
	if f.err != nil {
		return nil, f.err
	}
	return &invoicedomain.ListResponse{Items: []invoicedomain.Response{}}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (*invoicedomain.Response, error) {
	_ = ctx
	_ = id
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeInvoiceService) PreviewNumber(ctx context.Context, pattern string) (string, error) {
	_ = ctx
	_ = pattern
	if f.err != nil {
		return "", f.err
	}
	return "INV-2026-03-0001", nil
}

func newInvoiceTestRouter(svc invoicedomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{invoiceSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/invoices/generate", srv.GenerateInvoice)
	router.POST("/v1/invoices", srv.CreateInvoice)
	router.GET("/v1/invoices/:id", srv.GetInvoice)
	router.POST("/v1/invoice_numbers/preview", srv.PreviewInvoiceNumber)
	return router
}

func TestGenerateInvoiceReturnsAggregate(t *testing.T) {
	svc := &fakeInvoiceService{response: &invoicedomain.Response{
		ID:     "1234",
		Number: "INV-2026-03-0001",
	}}
	router := newInvoiceTestRouter(svc)

	body := `{"customer_id":"1234","invoice_type":"MONTHLY","period":"2026-03","work_days":20}`
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.generateCalls != 1 {
		t.Fatalf("expected one Generate call, got %d", svc.generateCalls)
	}
	if svc.createCalls != 0 {
		t.Fatal("generate endpoint must not persist")
	}
	if svc.lastRequest.WorkDays != 20 || svc.lastRequest.InvoiceType != "MONTHLY" {
		t.Fatalf("unexpected request passed to service: %+v", svc.lastRequest)
	}
}

func TestCreateInvoicePersists(t *testing.T) {
	svc := &fakeInvoiceService{response: &invoicedomain.Response{ID: "1234"}}
	router := newInvoiceTestRouter(svc)

	body := `{"customer_id":"1234","invoice_type":"ONE_TIME"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.createCalls != 1 {
		t.Fatalf("expected one Create call, got %d", svc.createCalls)
	}
}

func TestInvoiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid work days", invoicedomain.ErrInvalidWorkDays, http.StatusBadRequest},
		{"mixed expense currency", invoicedomain.ErrMixedExpenseCurrency, http.StatusBadRequest},
		{"no active template", invoicedomain.ErrNoActiveTemplate, http.StatusNotFound},
		{"no rate configured", invoicedomain.ErrNoRateConfigured, http.StatusNotFound},
		{"generation in progress", invoicedomain.ErrGenerationInProgress, http.StatusConflict},
		{"render failure", invoicedomain.ErrTemplateRenderFailed, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newInvoiceTestRouter(&fakeInvoiceService{err: tc.err})

			body := `{"customer_id":"1234","invoice_type":"MONTHLY","work_days":20}`
			req := httptest.NewRequest(http.MethodPost, "/v1/invoices/generate", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestGenerateInvoiceRejectsMalformedBody(t *testing.T) {
	svc := &fakeInvoiceService{}
	router := newInvoiceTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/generate", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.generateCalls != 0 {
		t.Fatal("service must not be called for a malformed body")
	}
}

func TestPreviewInvoiceNumber(t *testing.T) {
	router := newInvoiceTestRouter(&fakeInvoiceService{})

	body := `{"pattern":"INV-{YEAR}-{MONTH:00}-{NUMBER:0000}"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/invoice_numbers/preview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var payload struct {
		Data struct {
			Preview string `json:"preview"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Preview != "INV-2026-03-0001" {
		t.Fatalf("unexpected preview %q", payload.Data.Preview)
	}
}
