package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
)

type createRateRequest struct {
	CustomerID string          `json:"customer_id"`
	RateType   string          `json:"rate_type"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
}

type updateRateRequest struct {
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency *string          `json:"currency,omitempty"`
}

func (s *Server) CreateRate(c *gin.Context) {
	var req createRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateSvc.Create(c.Request.Context(), ratedomain.CreateRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		RateType:   ratedomain.RateType(strings.ToUpper(strings.TrimSpace(req.RateType))),
		Price:      req.Price,
		Currency:   strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRates(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		RateType   string `form:"rate_type"`
		SortBy     string `form:"sort_by"`
		OrderBy    string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateSvc.List(c.Request.Context(), ratedomain.ListRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		RateType:   strings.ToUpper(strings.TrimSpace(query.RateType)),
		SortBy:     strings.TrimSpace(query.SortBy),
		OrderBy:    strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRate(c *gin.Context) {
	resp, err := s.rateSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateSvc.Update(c.Request.Context(), ratedomain.UpdateRequest{
		ID:       c.Param("id"),
		Price:    req.Price,
		Currency: req.Currency,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRate(c *gin.Context) {
	if err := s.rateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
