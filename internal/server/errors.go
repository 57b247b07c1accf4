package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/auth"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/smallbiznis/iomreport/internal/migration"
	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/smallbiznis/iomreport/internal/session"
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
	Type           string            `json:"type"`
	Message        string            `json:"message"`
	Details        string            `json:"details,omitempty"`
	Hint           string            `json:"hint,omitempty"`
	Code           string            `json:"code,omitempty"`
	RemediationSQL string            `json:"remediation_sql,omitempty"`
	Errors         []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
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

// remotePayload carries a gateway failure verbatim. The setup script is
// attached when the failure means the table is missing.
func remotePayload(remoteErr *domain.RemoteError) errorPayload {
	payload := errorPayload{
		Type:    "remote_error",
		Message: remoteErr.Message,
		Details: remoteErr.Details,
		Hint:    remoteErr.Hint,
		Code:    remoteErr.Code,
	}
	if payload.Message == "" {
		payload.Message = remoteErr.Error()
	}
	if remoteErr.SchemaMissing() {
		payload.RemediationSQL = migration.SetupSQL()
	}
	return payload
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

	var decodeErr *importer.DecodeError
	if errors.As(err, &decodeErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "decode_error",
			Message: decodeErr.Message,
		}
	}

	if remoteErr, ok := domain.AsRemoteError(err); ok {
		return http.StatusBadGateway, remotePayload(remoteErr)
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidSession):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, auth.ErrLoginLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many login attempts",
		}
	case errors.Is(err, session.ErrPendingMismatch),
		errors.Is(err, session.ErrCommitInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, session.ErrNoPending):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, importer.ErrSheetsDisabled):
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

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, importer.ErrEmptyURL),
		errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, auth.ErrInvalidView),
		errors.Is(err, domain.ErrUnsupportedTarget):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, importer.ErrEmptyURL):
		return "invalid_url"
	case errors.Is(err, report.ErrUnknownFormat):
		return "invalid_format"
	case errors.Is(err, auth.ErrInvalidView):
		return "invalid_view"
	case errors.Is(err, domain.ErrUnsupportedTarget):
		return "invalid_target"
	default:
		return err.Error()
	}
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
	case "invalid_url":
		return "url is required"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog reports the error type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if payload.Code != "" {
		return payload.Type, payload.Code
	}
	return payload.Type, http.StatusText(status)
}
