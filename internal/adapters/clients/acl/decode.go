package acl

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// Decode unmarshals a successful response body into T.
func Decode[T any](body []byte) (*T, error) {
	if len(body) == 0 {
		return nil, errors.New("decoding response: empty body")
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &out, nil
}

// ValidateRequired returns a domain validation error if value is empty.
func ValidateRequired(value, field string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}
