// Package app contains the application services that orchestrate use cases
// over the ports. It holds no HTTP or Twitter specifics.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
	"github.com/jsamuelsen/go-twitter-connections/internal/ports"
)

// defaultVerifyConcurrency applies when AccountServiceConfig.Concurrency is unset.
const defaultVerifyConcurrency = 4

// AccountService answers "who is each connection logged in as".
type AccountService struct {
	accounts    ports.AccountClient
	directory   ports.ConnectionDirectory
	concurrency int
	logger      *slog.Logger
}

// AccountServiceConfig contains the dependencies of AccountService.
type AccountServiceConfig struct {
	Accounts  ports.AccountClient
	Directory ports.ConnectionDirectory

	// Concurrency bounds VerifyAll. Defaults to 4.
	Concurrency int

	Logger *slog.Logger
}

// NewAccountService creates the service. Panics if Accounts or Directory
// is nil. Defaults logger to slog.Default() if nil.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	if cfg.Accounts == nil {
		panic("AccountService: Accounts is required")
	}

	if cfg.Directory == nil {
		panic("AccountService: Directory is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultVerifyConcurrency
	}

	return &AccountService{
		accounts:    cfg.Accounts,
		directory:   cfg.Directory,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "app.AccountService")),
	}
}

// Connections returns the configured connection names.
func (s *AccountService) Connections() []string {
	return s.directory.Names()
}

// VerifyCredentials returns the account behind connection.
func (s *AccountService) VerifyCredentials(ctx context.Context, connection string) (*domain.Account, error) {
	connection = strings.TrimSpace(connection)
	if connection == "" {
		return nil, domain.NewValidationError("connection", "cannot be empty")
	}

	ctx = logging.WithConnection(ctx, connection)
	logger := logging.FromContext(ctx)

	acct, err := s.accounts.VerifyCredentials(ctx, connection)
	if err != nil {
		logger.WarnContext(ctx, "credential verification failed", slog.Any("error", err))
		return nil, fmt.Errorf("verifying connection %q: %w", connection, err)
	}

	logger.InfoContext(ctx, "credentials verified",
		slog.String("account_id", acct.ID),
		slog.String("handle", acct.Handle()),
	)

	return acct, nil
}

// VerifyAll verifies every configured connection concurrently. Each
// connection gets its own status; one failure does not stop the rest.
func (s *AccountService) VerifyAll(ctx context.Context) []domain.ConnectionStatus {
	names := s.directory.Names()
	start := time.Now()

	results := MapPartialLimit(ctx, s.concurrency, names, s.VerifyCredentials)

	statuses := make([]domain.ConnectionStatus, len(names))
	failed := 0

	for i, name := range names {
		statuses[i] = domain.ConnectionStatus{
			Connection: name,
			Account:    results[i].Value,
			Err:        results[i].Err,
		}

		if !statuses[i].OK() {
			failed++
		}
	}

	s.logger.InfoContext(ctx, "verified connections",
		slog.Int("total", len(names)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)),
	)

	return statuses
}
