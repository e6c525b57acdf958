package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
)

type createInvoiceTemplateRequest struct {
	CustomerID  string         `json:"customer_id"`
	InvoiceType string         `json:"invoice_type"`
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Active      *bool          `json:"active,omitempty"`
	Style       map[string]any `json:"style,omitempty"`
}

type updateInvoiceTemplateRequest struct {
	Name    *string        `json:"name,omitempty"`
	Content *string        `json:"content,omitempty"`
	Active  *bool          `json:"active,omitempty"`
	Style   map[string]any `json:"style,omitempty"`
}

func (s *Server) CreateInvoiceTemplate(c *gin.Context) {
	var req createInvoiceTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceTemplateSvc.Create(c.Request.Context(), templatedomain.CreateRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		InvoiceType: strings.TrimSpace(req.InvoiceType),
		Name:        strings.TrimSpace(req.Name),
		Content:     req.Content,
		Active:      req.Active,
		Style:       req.Style,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoiceTemplates(c *gin.Context) {
	var query struct {
		CustomerID  string `form:"customer_id"`
		InvoiceType string `form:"invoice_type"`
		Active      string `form:"active"`
		SortBy      string `form:"sort_by"`
		OrderBy     string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	activeOnly, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.invoiceTemplateSvc.List(c.Request.Context(), templatedomain.ListRequest{
		CustomerID:  strings.TrimSpace(query.CustomerID),
		InvoiceType: strings.TrimSpace(query.InvoiceType),
		ActiveOnly:  activeOnly != nil && *activeOnly,
		SortBy:      strings.TrimSpace(query.SortBy),
		OrderBy:     strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceTemplate(c *gin.Context) {
	resp, err := s.invoiceTemplateSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceTemplate(c *gin.Context) {
	var req updateInvoiceTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceTemplateSvc.Update(c.Request.Context(), templatedomain.UpdateRequest{
		ID:      c.Param("id"),
		Name:    req.Name,
		Content: req.Content,
		Active:  req.Active,
		Style:   req.Style,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
