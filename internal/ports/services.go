// Package ports defines the interfaces the application layer depends on.
// Adapters implement them; the app package never imports an adapter.
//
// Methods take a context first and return domain types and domain errors
// (ErrNotFound, ErrForbidden, ErrUnavailable), never transport types.
package ports

import (
	"context"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// AccountClient reads the account a named connection authenticates as.
type AccountClient interface {
	// VerifyCredentials returns the account behind connection.
	// Returns domain.ErrNotFound if the connection is not configured,
	// domain.ErrForbidden if the upstream rejects the credentials, and
	// domain.ErrUnavailable if the upstream cannot be reached.
	VerifyCredentials(ctx context.Context, connection string) (*domain.Account, error)
}

// ConnectionDirectory lists the configured connection names.
type ConnectionDirectory interface {
	// Names returns the connection names in sorted order.
	Names() []string
}
