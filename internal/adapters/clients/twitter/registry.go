package twitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients"
	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/config"
)

// DefaultConnection is the name used when GetClient is called with "".
const DefaultConnection = "default"

// serviceName labels spans, logs and the circuit breaker.
const serviceName = "twitter"

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// APIBaseURL is the REST API root. Defaults to config.DefaultTwitterAPIBaseURL.
	APIBaseURL string

	// TokenURL is the client-credentials endpoint. Defaults to
	// config.DefaultTwitterTokenURL.
	TokenURL string

	// UserAgent is sent unless a connection sets its own.
	UserAgent string

	// Client holds timeout, breaker and pool settings.
	Client config.ClientConfig

	// Metrics is optional.
	Metrics *Metrics

	Logger *slog.Logger
}

// Registry hands out clients for named connections.
type Registry struct {
	apiBaseURL string
	tokenURL   string
	userAgent  string
	timeout    time.Duration
	transport  *http.Transport
	breaker    *clients.CircuitBreaker
	metrics    *Metrics
	logger     *slog.Logger
	validate   *validator.Validate

	group singleflight.Group

	mu          sync.RWMutex
	connections map[string]config.ConnectionConfig
	cache       map[string]*Client
	generation  uint64
}

// NewRegistry creates a registry with no connections.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "twitter.Registry"))

	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = config.DefaultTwitterAPIBaseURL
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = config.DefaultTwitterTokenURL
	}

	breaker := clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		MaxFailures:   cfg.Client.CircuitBreaker.MaxFailures,
		Timeout:       cfg.Client.CircuitBreaker.Timeout,
		HalfOpenLimit: cfg.Client.CircuitBreaker.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to clients.State) {
		logger.Warn("circuit breaker state changed",
			slog.String("downstream", serviceName),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Registry{
		apiBaseURL:  apiBaseURL,
		tokenURL:    tokenURL,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Client.Timeout,
		transport:   clients.NewTransport(cfg.Client.Transport),
		breaker:     breaker,
		metrics:     cfg.Metrics,
		logger:      logger,
		validate:    newValidator(),
		connections: map[string]config.ConnectionConfig{},
		cache:       map[string]*Client{},
	}
}

// Configure replaces the connection set. Cached clients are dropped since
// they were built from the previous set. On error nothing changes.
func (r *Registry) Configure(connections map[string]config.ConnectionConfig) error {
	for name, conn := range connections {
		if strings.TrimSpace(name) == "" {
			return domain.NewValidationError("connections", "connection name must not be blank")
		}

		if err := r.validate.Struct(conn); err != nil {
			return fmt.Errorf("connection %q: %w",
				name, domain.NewValidationError("connections."+name, describe(err)))
		}
	}

	r.mu.Lock()
	r.connections = maps.Clone(connections)
	if r.connections == nil {
		r.connections = map[string]config.ConnectionConfig{}
	}
	r.cache = map[string]*Client{}
	r.generation++
	r.mu.Unlock()

	r.logger.Info("twitter connections configured", slog.Any("connections", r.Names()))

	return nil
}

// GetClient returns the cached client for name, creating it on first use.
// An empty name selects DefaultConnection. Concurrent first calls for the
// same name share one creation.
func (r *Registry) GetClient(name string) (*Client, error) {
	if name == "" {
		name = DefaultConnection
	}

	r.mu.RLock()
	cached, hit := r.cache[name]
	conn, configured := r.connections[name]
	gen := r.generation
	r.mu.RUnlock()

	if hit {
		r.metrics.lookup("hit")
		return cached, nil
	}

	if !configured {
		r.metrics.lookup("unknown")
		return nil, &LookupError{Name: name}
	}

	r.metrics.lookup("miss")

	v, err, _ := r.group.Do(strconv.FormatUint(gen, 10)+"/"+name, func() (any, error) {
		r.mu.RLock()
		cached, hit := r.cache[name]
		r.mu.RUnlock()

		if hit {
			return cached, nil
		}

		c, err := r.build(name, conn)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		// Configure ran meanwhile: hand the client out but keep it out of
		// the new generation's cache.
		if r.generation == gen {
			r.cache[name] = c
		}

		return c, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Client), nil //nolint:forcetypeassert // only *Client is stored
}

// CreateClient builds a new client for name. The cache is neither read
// nor written.
func (r *Registry) CreateClient(name string) (*Client, error) {
	if name == "" {
		name = DefaultConnection
	}

	r.mu.RLock()
	conn, configured := r.connections[name]
	r.mu.RUnlock()

	if !configured {
		return nil, &LookupError{Name: name}
	}

	return r.build(name, conn)
}

// Default returns the cached client for DefaultConnection.
func (r *Registry) Default() (*Client, error) {
	return r.GetClient(DefaultConnection)
}

// Names returns the configured connection names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.connections))
}

// Name implements ports.HealthChecker.
func (r *Registry) Name() string {
	return serviceName
}

// Check implements ports.HealthChecker. It fails while the upstream
// circuit is open or when any connection cannot be assembled.
func (r *Registry) Check(ctx context.Context) error {
	if r.breaker.State() == clients.StateOpen {
		return domain.NewUnavailableError(serviceName, "circuit breaker open")
	}

	states := r.CheckComponents(ctx)
	for _, name := range slices.Sorted(maps.Keys(states)) {
		if err := states[name]; err != nil {
			return fmt.Errorf("connection %q: %w", name, err)
		}
	}

	return nil
}

// CheckComponents implements ports.ComponentChecker with one entry per
// configured connection. It assembles clients without touching the
// network, the cache or the creation metrics.
func (r *Registry) CheckComponents(ctx context.Context) map[string]error {
	r.mu.RLock()
	connections := maps.Clone(r.connections)
	r.mu.RUnlock()

	open := r.breaker.State() == clients.StateOpen
	states := make(map[string]error, len(connections))

	for name, conn := range connections {
		switch {
		case open:
			states[name] = domain.NewUnavailableError(serviceName, "circuit breaker open")
		case ctx.Err() != nil:
			states[name] = ctx.Err()
		default:
			_, states[name] = r.assemble(name, conn)
		}
	}

	return states
}

func (r *Registry) build(name string, conn config.ConnectionConfig) (*Client, error) {
	c, err := r.assemble(name, conn)
	if err != nil {
		return nil, err
	}

	r.metrics.clientCreated(name, c.mode)
	r.logger.Debug("twitter client created",
		slog.String("connection", name),
		slog.String("auth_mode", string(c.mode)),
	)

	return c, nil
}

// assemble wires a client for conn without recording it anywhere.
func (r *Registry) assemble(name string, conn config.ConnectionConfig) (*Client, error) {
	timeout := conn.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	transport, mode := authTransport(conn, r.tokenURL, &http.Client{
		Transport: r.transport,
		Timeout:   timeout,
	})

	header := http.Header{}

	userAgent := conn.UserAgent
	if userAgent == "" {
		userAgent = r.userAgent
	}

	if userAgent != "" {
		header.Set("User-Agent", userAgent)
	}

	hc, err := clients.New(&clients.Config{
		BaseURL:     r.apiBaseURL,
		ServiceName: serviceName,
		Timeout:     timeout,
		Transport:   transport,
		Breaker:     r.breaker,
		Header:      header,
		Logger:      r.logger.With(slog.String("connection", name)),
	})
	if err != nil {
		return nil, fmt.Errorf("building client for %q: %w", name, err)
	}

	return &Client{name: name, mode: mode, http: hc}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(koanfName)

	return v
}

func koanfName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
	if name == "" || name == "-" {
		return f.Name
	}

	return name
}

// describe flattens validator errors into "field is required" phrases.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "required_with":
			param := fe.Param()
			if sf, ok := reflect.TypeFor[config.ConnectionConfig]().FieldByName(param); ok {
				param = koanfName(sf)
			}

			parts = append(parts, fmt.Sprintf("%s is required when %s is set", field, param))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}

	return strings.Join(parts, "; ")
}
