// Package clients provides the instrumented HTTP client used for upstream APIs.
package clients

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"

	"golang.org/x/oauth2"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Transport error codes. The values follow libcurl's CURLcode numbering so
// they stay comparable with what other Twitter tooling reports.
const (
	CodeCouldNotResolve = 6
	CodeCouldNotConnect = 7
	CodeTimeout         = 28
	CodeTLS             = 35
	CodeAborted         = 42
	CodeReceive         = 56
)

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err with its classified code.
func NewTransportError(err error) *TransportError {
	return &TransportError{Code: ClassifyTransportError(err), Err: err}
}

// ClassifyTransportError maps a failed round trip to a transport error code.
func ClassifyTransportError(err error) int {
	var (
		dnsErr     *net.DNSError
		opErr      *net.OpError
		netErr     net.Error
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)

	switch {
	case errors.Is(err, ErrCircuitOpen):
		return CodeCouldNotConnect
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &dnsErr):
		return CodeCouldNotResolve
	case errors.As(err, &recordErr), errors.As(err, &verifyErr),
		errors.As(err, &unknownCA), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return CodeTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return CodeCouldNotConnect
	default:
		return CodeReceive
	}
}

// TokenRejection reports the status of a token endpoint that answered a
// token request with an error. The endpoint was reachable, so this is not a
// transport failure.
func TokenRejection(err error) (status int, ok bool) {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) || retrieveErr.Response == nil {
		return 0, false
	}

	return retrieveErr.Response.StatusCode, true
}
