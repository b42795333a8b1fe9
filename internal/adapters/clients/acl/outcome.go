package acl

import "net/http"

// Outcome is everything known about one finished API call.
type Outcome struct {
	// HTTPStatus is the response status, or 0 if no response arrived.
	HTTPStatus int

	// ErrorPayload is the raw response body. It may be empty or not JSON.
	ErrorPayload []byte

	// TransportErrorMessage describes a failure below HTTP.
	TransportErrorMessage string

	// TransportErrorCode classifies TransportErrorMessage.
	TransportErrorCode int
}

// Succeeded reports whether the status is one the API uses for success.
// Only 200 and 201 count; other 2xx codes are treated as failures.
func (o Outcome) Succeeded() bool {
	return o.HTTPStatus == http.StatusOK || o.HTTPStatus == http.StatusCreated
}

// Responded reports whether an HTTP response was received at all.
func (o Outcome) Responded() bool {
	return o.HTTPStatus != 0
}
