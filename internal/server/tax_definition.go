package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
)

type createTaxDefinitionRequest struct {
	CustomerID      string          `json:"customer_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	HandlerID       string          `json:"handler_id"`
	Rate            decimal.Decimal `json:"rate"`
	ApplicationType string          `json:"application_type"`
	AppliedToID     *string         `json:"applied_to_id,omitempty"`
	EvaluationOrder int             `json:"evaluation_order"`
	Active          *bool           `json:"active,omitempty"`
}

type updateTaxDefinitionRequest struct {
	Description     *string          `json:"description,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	EvaluationOrder *int             `json:"evaluation_order,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

func (s *Server) CreateTaxDefinition(c *gin.Context) {
	var req createTaxDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Create(c.Request.Context(), taxdomain.CreateRequest{
		CustomerID:      strings.TrimSpace(req.CustomerID),
		Code:            strings.TrimSpace(req.Code),
		Description:     strings.TrimSpace(req.Description),
		HandlerID:       taxdomain.HandlerID(strings.ToUpper(strings.TrimSpace(req.HandlerID))),
		Rate:            req.Rate,
		ApplicationType: taxdomain.ApplicationType(strings.ToUpper(strings.TrimSpace(req.ApplicationType))),
		AppliedToID:     req.AppliedToID,
		EvaluationOrder: req.EvaluationOrder,
		Active:          req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxDefinitions(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		Code       string `form:"code"`
		Active     string `form:"active"`
		SortBy     string `form:"sort_by"`
		OrderBy    string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.taxSvc.List(c.Request.Context(), taxdomain.ListRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		Code:       strings.TrimSpace(query.Code),
		Active:     active,
		SortBy:     strings.TrimSpace(query.SortBy),
		OrderBy:    strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTaxDefinition(c *gin.Context) {
	resp, err := s.taxSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTaxDefinition(c *gin.Context) {
	var req updateTaxDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Update(c.Request.Context(), taxdomain.UpdateRequest{
		ID:              c.Param("id"),
		Description:     req.Description,
		Rate:            req.Rate,
		EvaluationOrder: req.EvaluationOrder,
		Active:          req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisableTaxDefinition(c *gin.Context) {
	resp, err := s.taxSvc.Disable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
