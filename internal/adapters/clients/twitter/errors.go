package twitter

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// ErrUnknownConnection is matched by every *LookupError.
var ErrUnknownConnection = errors.New("unknown connection")

// LookupError is returned when a connection name is not configured.
type LookupError struct {
	Name string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("twitter connection %q is not configured", e.Name)
}

// Is matches ErrUnknownConnection and domain.ErrNotFound.
func (e *LookupError) Is(target error) bool {
	return target == ErrUnknownConnection || target == domain.ErrNotFound
}
