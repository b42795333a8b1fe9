package ports

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned by Register for a name already taken.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker reports whether a component can serve. The twitter
// connection registry is one.
type HealthChecker interface {
	// Name identifies the checker in readiness output. It must be unique.
	Name() string

	// Check returns nil when the component is ready. It must honor ctx.
	Check(ctx context.Context) error
}

// ComponentChecker is a HealthChecker made of named parts, such as one
// entry per configured connection. CheckComponents returns one entry
// per part; a nil error marks the part ready.
type ComponentChecker interface {
	HealthChecker
	CheckComponents(ctx context.Context) map[string]error
}

// HealthRegistry collects checkers at startup and runs them on demand.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is either healthy or unhealthy.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func statusOf(err error) HealthStatus {
	if err != nil {
		return HealthStatusUnhealthy
	}

	return HealthStatusHealthy
}

// HealthResult is the outcome of one CheckAll run.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one checker. Components is set only for
// a ComponentChecker and is keyed by part name.
type CheckResult struct {
	Status     HealthStatus                `json:"status"`
	Message    string                      `json:"message,omitempty"`
	Duration   time.Duration               `json:"duration"`
	Components map[string]*ComponentResult `json:"components,omitempty"`
}

// ComponentResult is the state of one part of a ComponentChecker.
type ComponentResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthRegistryOption configures a DefaultHealthRegistry.
type HealthRegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout bounds each individual check. Zero leaves only the
// caller's deadline in force.
func WithCheckTimeout(d time.Duration) HealthRegistryOption {
	return func(r *DefaultHealthRegistry) {
		r.checkTimeout = d
	}
}

// DefaultHealthRegistry runs its checkers concurrently. Safe for
// concurrent use.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checkers     []HealthChecker
	checkTimeout time.Duration
}

func NewHealthRegistry(opts ...HealthRegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker. Checkers run in no particular order.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every checker and is unhealthy if any checker or any
// component of a ComponentChecker fails.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, checker)
			return nil
		})
	}

	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, checker := range checkers {
		out.Checks[checker.Name()] = results[i]
		if results[i].Status == HealthStatusUnhealthy {
			out.Status = HealthStatusUnhealthy
		}
	}

	return out
}

func (r *DefaultHealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)

		defer cancel()
	}

	start := time.Now()

	err := checker.Check(ctx)

	var components map[string]error
	if cc, ok := checker.(ComponentChecker); ok {
		components = cc.CheckComponents(ctx)
	}

	result := &CheckResult{Status: statusOf(err), Duration: time.Since(start)}
	if err != nil {
		result.Message = err.Error()
	}

	if components == nil {
		return result
	}

	result.Components = make(map[string]*ComponentResult, len(components))

	for _, name := range slices.Sorted(maps.Keys(components)) {
		cerr := components[name]

		cr := &ComponentResult{Status: statusOf(cerr)}
		if cerr != nil {
			cr.Message = cerr.Error()

			if result.Status == HealthStatusHealthy {
				result.Status = HealthStatusUnhealthy
				result.Message = fmt.Sprintf("%s: %s", name, cr.Message)
			}
		}

		result.Components[name] = cr
	}

	return result
}
