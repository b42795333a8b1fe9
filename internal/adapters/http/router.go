package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/config"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests when RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains everything SetupRouter mounts.
type RouterConfig struct {
	// Logger seeds the per-request logger. Defaults to slog.Default().
	Logger *slog.Logger

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	HealthHandler      *handlers.HealthHandler
	ConnectionsHandler *handlers.ConnectionsHandler

	// Timeout bounds /api/v1 requests. Zero disables the deadline.
	Timeout time.Duration
}

// SetupRouter configures middleware and routes on engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request logger seeding
//  3. Request ID
//  4. Correlation ID
//  5. OpenTelemetry tracing and metrics
//  6. Logging (skips /-/ endpoints)
//
// /-/ carries the probes without a deadline. /api/v1 carries the
// connection routes behind Timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceName := "go-twitter-connections"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(),
		requestLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.ConnectionsHandler != nil {
		cfg.ConnectionsHandler.RegisterRoutes(apiV1)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	connectionsHandler *handlers.ConnectionsHandler,
) RouterConfig {
	return RouterConfig{
		Logger:             logger,
		AppConfig:          appCfg,
		HealthHandler:      healthHandler,
		ConnectionsHandler: connectionsHandler,
		Timeout:            DefaultRequestTimeout,
	}
}

// requestLogger stores logger in the request context so later middleware
// and handlers derive from it.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}
