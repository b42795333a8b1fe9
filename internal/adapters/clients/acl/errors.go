package acl

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// APIError is a failed API call.
type APIError struct {
	Message    string
	Code       int
	HTTPStatus int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.HTTPStatus == 0 {
		return fmt.Sprintf("twitter api: %s (code %d)", e.Message, e.Code)
	}

	return fmt.Sprintf("twitter api: %s (code %d, http %d)", e.Message, e.Code, e.HTTPStatus)
}

// Unwrap returns the domain sentinel matching HTTPStatus.
func (e *APIError) Unwrap() error {
	return sentinelForStatus(e.HTTPStatus)
}

// CreateIfFailed returns nil for a successful Outcome and an *APIError for
// anything else. It never inspects the payload of a successful call.
func CreateIfFailed(o Outcome) error {
	if o.Succeeded() {
		return nil
	}

	message, code, ok := firstPayloadError(o.ErrorPayload)
	if !ok {
		message, code = o.TransportErrorMessage, o.TransportErrorCode
	}

	return &APIError{
		Message:    message,
		Code:       code,
		HTTPStatus: o.HTTPStatus,
	}
}

// firstPayloadError extracts errors[0].message and errors[0].code.
// ok is false when the payload is not JSON or errors[0] is not an object.
func firstPayloadError(payload []byte) (message string, code int, ok bool) {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return "", 0, false
	}

	list := gjson.GetBytes(payload, "errors")
	if !list.IsArray() {
		return "", 0, false
	}

	first := list.Get("0")
	if !first.IsObject() {
		return "", 0, false
	}

	return first.Get("message").String(), int(first.Get("code").Int()), true
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status == 0, status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	default:
		return domain.ErrValidation
	}
}
