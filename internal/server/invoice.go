package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	"github.com/smallbiznis/invara/pkg/db/pagination"
)

type expenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
}

type generateInvoiceRequest struct {
	CustomerID    string           `json:"customer_id"`
	InvoiceType   string           `json:"invoice_type"`
	Period        string           `json:"period,omitempty"`
	WorkDays      int              `json:"work_days,omitempty"`
	Expenses      []expenseRequest `json:"expenses,omitempty"`
	NumberPattern string           `json:"number_pattern,omitempty"`
}

func (r generateInvoiceRequest) toDomain() invoicedomain.GenerateRequest {
	expenses := make([]invoicedomain.ExpenseInput, 0, len(r.Expenses))
	for _, expense := range r.Expenses {
		expenses = append(expenses, invoicedomain.ExpenseInput{
			Description: strings.TrimSpace(expense.Description),
			Amount:      expense.Amount,
			Currency:    strings.TrimSpace(expense.Currency),
		})
	}
	return invoicedomain.GenerateRequest{
		CustomerID:    strings.TrimSpace(r.CustomerID),
		InvoiceType:   strings.TrimSpace(r.InvoiceType),
		Period:        strings.TrimSpace(r.Period),
		WorkDays:      r.WorkDays,
		Expenses:      expenses,
		NumberPattern: strings.TrimSpace(r.NumberPattern),
	}
}

// GenerateInvoice computes the full aggregate without persisting it.
func (s *Server) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Generate(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CreateInvoice computes and persists the aggregate.
func (s *Server) CreateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		CustomerID  string `form:"customer_id"`
		InvoiceType string `form:"invoice_type"`
		Year        string `form:"year"`
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	year, err := parseOptionalInt(query.Year)
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		CustomerID:  strings.TrimSpace(query.CustomerID),
		InvoiceType: strings.TrimSpace(query.InvoiceType),
		Year:        year,
		Pagination:  query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PreviewInvoiceNumber shows what a pattern produces with sequence 1 and
// a placeholder customer code.
func (s *Server) PreviewInvoiceNumber(c *gin.Context) {
	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	preview, err := s.invoiceSvc.PreviewNumber(c.Request.Context(), req.Pattern)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"preview": preview}})
}
