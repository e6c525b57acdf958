package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/invara/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invara/internal/invoice/domain"
	"github.com/smallbiznis/invara/internal/invoice/render"
	templatedomain "github.com/smallbiznis/invara/internal/invoicetemplate/domain"
	"github.com/smallbiznis/invara/internal/lock"
	ratedomain "github.com/smallbiznis/invara/internal/rate/domain"
	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
	"github.com/smallbiznis/invara/pkg/money"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// mapError translates domain failures into the response taxonomy:
// validation 400, not found 404, conflicts 409, configuration 422,
// upstream failures 502, everything else 500.
func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isConfigurationError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "configuration_error",
			Message: errorLeaf(err),
		}
	case isExternalFailure(err):
		return http.StatusBadGateway, errorPayload{
			Type:    "external_failure",
			Message: errorLeaf(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidCode),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidCurrency),
		errors.Is(err, ratedomain.ErrInvalidID),
		errors.Is(err, ratedomain.ErrInvalidCustomer),
		errors.Is(err, ratedomain.ErrInvalidRateType),
		errors.Is(err, ratedomain.ErrInvalidPrice),
		errors.Is(err, ratedomain.ErrInvalidCurrency),
		errors.Is(err, taxdomain.ErrInvalidID),
		errors.Is(err, taxdomain.ErrInvalidCustomer),
		errors.Is(err, taxdomain.ErrInvalidTaxCode),
		errors.Is(err, taxdomain.ErrInvalidInput),
		errors.Is(err, taxdomain.ErrInvalidApplicationType),
		errors.Is(err, taxdomain.ErrMissingAppliedTo),
		errors.Is(err, taxdomain.ErrInvalidTaxOrder),
		errors.Is(err, templatedomain.ErrInvalidID),
		errors.Is(err, templatedomain.ErrInvalidCustomer),
		errors.Is(err, templatedomain.ErrInvalidName),
		errors.Is(err, templatedomain.ErrInvalidInvoiceType),
		errors.Is(err, templatedomain.ErrInvalidContent),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrUnsupportedInvoiceType),
		errors.Is(err, invoicedomain.ErrInvalidWorkDays),
		errors.Is(err, invoicedomain.ErrInvalidPeriod),
		errors.Is(err, invoicedomain.ErrInvalidExpense),
		errors.Is(err, invoicedomain.ErrMixedExpenseCurrency),
		errors.Is(err, invoicedomain.ErrEmptyPattern),
		errors.Is(err, invoicedomain.ErrInvalidPattern),
		errors.Is(err, invoicedomain.ErrInvalidSequence),
		errors.Is(err, invoicedomain.ErrInvalidPageToken),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrCurrencyMismatch):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, ratedomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, templatedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrCustomerNotFound),
		errors.Is(err, invoicedomain.ErrNoActiveTemplate),
		errors.Is(err, invoicedomain.ErrNoRateConfigured),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	return errors.Is(err, customerdomain.ErrCodeExists) ||
		errors.Is(err, ratedomain.ErrRateExists) ||
		errors.Is(err, invoicedomain.ErrGenerationInProgress) ||
		errors.Is(err, lock.ErrNotAcquired)
}

func isConfigurationError(err error) bool {
	return errors.Is(err, taxdomain.ErrUnknownHandler) ||
		errors.Is(err, taxdomain.ErrDanglingTaxReference) ||
		errors.Is(err, taxdomain.ErrMissingContext)
}

func isExternalFailure(err error) bool {
	return errors.Is(err, invoicedomain.ErrTemplateRenderFailed) ||
		errors.Is(err, render.ErrRender)
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return errorLeaf(err)
}

func errorLeaf(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ":"); idx > 0 {
		return msg[:idx]
	}
	return msg
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "mixed_expense_currency":
		return "expenses must share one currency"
	case "empty_pattern":
		return "number pattern must not be blank"
	default:
		return "invalid value"
	}
}
