// Package acl is the anti-corruption layer between Twitter API responses
// and the rest of the service.
//
// Every API call, successful or not, is summarised as an [Outcome]: the
// HTTP status, the raw response body and, when no response arrived, a
// transport error message and code. [CreateIfFailed] turns an Outcome into
// either nil (status 200 or 201) or an [*APIError]:
//
//   - message and code come from the first entry of a non-empty "errors"
//     array in the body, e.g. {"errors":[{"message":"Forbidden","code":87}]}
//   - otherwise they come from the transport error fields
//   - the HTTP status is always copied from the Outcome
//
// APIError unwraps to a domain sentinel so callers can branch without
// knowing HTTP:
//
//   - 401, 403 → [domain.ErrForbidden]
//   - 404 → [domain.ErrNotFound]
//   - 409 → [domain.ErrConflict]
//   - 429, 5xx, 0 (no response) → [domain.ErrUnavailable]
//   - any other status → [domain.ErrValidation]
//
// Nothing in this package performs I/O.
package acl
