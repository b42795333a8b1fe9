// Package main is the entry point for the twitter connections service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients/twitter"
	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http"
	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-twitter-connections/internal/app"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/config"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/telemetry"
	"github.com/jsamuelsen/go-twitter-connections/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.Int("connections", len(cfg.Twitter.Connections)),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the connection registry
	registry := twitter.NewRegistry(twitter.RegistryConfig{
		APIBaseURL: cfg.Twitter.APIBaseURL,
		TokenURL:   cfg.Twitter.TokenURL,
		UserAgent:  cfg.Twitter.UserAgent,
		Client:     cfg.Client,
		Metrics:    twitter.NewMetrics(nil),
		Logger:     logger,
	})

	if err := registry.Configure(cfg.Twitter.Connections); err != nil {
		return fmt.Errorf("configuring twitter connections: %w", err)
	}

	// 6. Register health checks
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Client.Timeout))
	if err := healthRegistry.Register(registry); err != nil {
		return fmt.Errorf("registering twitter health check: %w", err)
	}

	// 7. Create the account service (application layer)
	accountService := app.NewAccountService(app.AccountServiceConfig{
		Accounts:    twitter.NewAccounts(registry, logger),
		Directory:   registry,
		Concurrency: cfg.Twitter.VerifyConcurrency,
		Logger:      logger,
	})

	// 8. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	connectionsHandler := handlers.NewConnectionsHandler(accountService)

	// 9. Create HTTP server and router
	server := http.New(&cfg.Server, cfg.App.Environment, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		healthHandler,
		connectionsHandler,
	))

	// 10. Start server (non-blocking)
	serverErr := server.Start()

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until SIGINT/SIGTERM or a server failure, then
// drains the HTTP server within shutdownTimeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}

		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
