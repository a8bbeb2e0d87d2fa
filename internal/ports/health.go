package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned by Register for a name already in use.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is a component probed by /-/ready. The dataset providers
// are the only production implementations.
type HealthChecker interface {
	Name() string

	// Check returns nil when the component can serve requests. It must honor
	// ctx cancellation.
	Check(ctx context.Context) error
}

// HealthDescriber is optionally implemented by a HealthChecker to attach
// details to a passing check, such as the loaded dataset's version.
type HealthDescriber interface {
	Describe() map[string]any
}

// HealthRegistry runs every registered check.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the outcome of a check or of the whole probe.
type HealthStatus string

// Health states.
const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the readiness report. It is unhealthy if any check failed.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is one check's outcome.
type CheckResult struct {
	Status   HealthStatus   `json:"status"`
	Message  string         `json:"message,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// DefaultHealthRegistry runs checks concurrently, each bounded by an
// optional per-check timeout. Safe for concurrent use.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	timeout  time.Duration
}

// HealthRegistryOption configures a DefaultHealthRegistry.
type HealthRegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout bounds each check. Zero leaves only the caller's deadline.
func WithCheckTimeout(d time.Duration) HealthRegistryOption {
	return func(r *DefaultHealthRegistry) {
		r.timeout = d
	}
}

// NewHealthRegistry returns an empty registry.
func NewHealthRegistry(opts ...HealthRegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker. Names must be unique.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll probes every checker in parallel and waits for all of them.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	// Checks report failures in their result, never through the group.
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = r.probe(ctx, c)
			return nil
		})
	}

	_ = g.Wait()

	report := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, c := range checkers {
		report.Checks[c.Name()] = results[i]

		if results[i].Status == HealthStatusUnhealthy {
			report.Status = HealthStatusUnhealthy
		}
	}

	return report
}

func (r *DefaultHealthRegistry) probe(ctx context.Context, c HealthChecker) *CheckResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.Check(ctx)
	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()

		return res
	}

	if d, ok := c.(HealthDescriber); ok {
		res.Details = d.Describe()
	}

	return res
}
