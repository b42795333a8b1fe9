// Package dto provides the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries field errors or the upstream error code.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeForbidden   = "FORBIDDEN"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
)

// Detail keys set for upstream API failures.
const (
	DetailUpstreamCode   = "upstream_code"
	DetailUpstreamStatus = "upstream_status"
)

// ContextKeyTraceID is the gin key consulted when no span is active.
const ContextKeyTraceID = "trace_id"

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetailFor maps an error to its envelope detail. Unknown errors get a
// generic message so internals do not leak.
func ErrorDetailFor(err error) ErrorDetail {
	detail := ErrorDetail{Code: ErrorCodeInternal, Message: "an internal error occurred"}

	switch {
	case domain.IsNotFound(err):
		detail = ErrorDetail{Code: ErrorCodeNotFound, Message: err.Error()}
	case domain.IsConflict(err):
		detail = ErrorDetail{Code: ErrorCodeConflict, Message: err.Error()}
	case domain.IsValidation(err):
		detail = ErrorDetail{Code: ErrorCodeValidation, Message: err.Error()}

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			detail.Details = map[string]string{validationErr.Field: validationErr.Message}
		}
	case domain.IsForbidden(err):
		detail = ErrorDetail{Code: ErrorCodeForbidden, Message: err.Error()}
	case domain.IsUnavailable(err):
		detail = ErrorDetail{Code: ErrorCodeUnavailable, Message: err.Error()}
	}

	var apiErr *acl.APIError
	if errors.As(err, &apiErr) {
		if detail.Details == nil {
			detail.Details = map[string]string{}
		}

		detail.Details[DetailUpstreamCode] = strconv.Itoa(apiErr.Code)
		detail.Details[DetailUpstreamStatus] = strconv.Itoa(apiErr.HTTPStatus)
	}

	return detail
}

// MapError maps an error to an HTTP status and error envelope.
func MapError(err error) (int, *ErrorResponse) {
	detail := ErrorDetailFor(err)

	return HTTPStatusFromCode(detail.Code), &ErrorResponse{Error: detail}
}

// GetTraceID returns the active span's trace ID, falling back to the gin
// context value stored under ContextKeyTraceID.
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	if id, ok := c.Get(ContextKeyTraceID); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}

	return ""
}

// HandleError writes the envelope for err. Internal errors are logged with
// their full text since the response hides it.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// AbortWithCode aborts the chain with an envelope for code.
func AbortWithCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}
