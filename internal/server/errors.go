package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/sheet"
	"github.com/smallbiznis/payslip/internal/stats"
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
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrTooManyRequests    = errors.New("too_many_requests")
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

	if schemaErr, ok := payrolldomain.AsSchemaError(err); ok {
		code := "missing_column"
		if errors.Is(schemaErr, payrolldomain.ErrMissingPushColumn) {
			code = payrolldomain.ErrMissingPushColumn.Error()
		}
		errs := make([]ValidationError, 0, len(schemaErr.Missing))
		for _, col := range schemaErr.Missing {
			errs = append(errs, ValidationError{
				Field:   string(schemaErr.Source),
				Code:    code,
				Message: col,
			})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "schema_error",
			Message: schemaErr.Error(),
			Errors:  errs,
		}
	}

	if code, field, ok := validationErrorCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    code,
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, payrolldomain.ErrAgentRowsNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, sheet.ErrExportTooLarge):
		return http.StatusBadGateway, errorPayload{
			Type:    "export_too_large",
			Message: err.Error(),
		}
	case errors.Is(err, payrolldomain.ErrSourceNotAvailable):
		return http.StatusBadGateway, errorPayload{
			Type:    "source_unavailable",
			Message: "export source not available",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
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

// validationErrorCode maps request level sentinel errors to a code and the
// offending field.
func validationErrorCode(err error) (code string, field string, ok bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request", "request", true
	case errors.Is(err, payrolldomain.ErrAgentRequired):
		return "required", "agent", true
	case errors.Is(err, payrolldomain.ErrUnknownAgentType):
		return "unknown_agent_type", "agent_type", true
	case errors.Is(err, payrolldomain.ErrInvalidDateRange):
		return "invalid_date_range", "end", true
	case errors.Is(err, payrolldomain.ErrInvalidCutoffHour):
		return "invalid_cutoff_hour", "cutoff_hour", true
	case errors.Is(err, sheet.ErrSheetNotFound):
		return "sheet_not_found", "sheet", true
	case errors.Is(err, sheet.ErrNoWorksheet),
		errors.Is(err, sheet.ErrEmptyWorksheet):
		return "empty_workbook", "file", true
	case errors.Is(err, stats.ErrUnknownColumn):
		return "unknown_column", "column", true
	case errors.Is(err, stats.ErrUnknownOperation):
		return "unknown_operation", "operation", true
	case errors.Is(err, stats.ErrNoData):
		return "no_data", "column", true
	default:
		return "", "", false
	}
}

func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
