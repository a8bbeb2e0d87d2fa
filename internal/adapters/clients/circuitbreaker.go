package clients

import (
	"errors"

	"github.com/sony/gobreaker"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
)

// State is the circuit breaker state.
type State = gobreaker.State

// Circuit breaker states.
const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// CircuitBreaker guards the dataset origin. It opens after MaxFailures
// consecutive failed fetches, waits Timeout, then lets HalfOpenLimit probes
// through. That many consecutive successes close it again.
type CircuitBreaker struct {
	cb *gobreaker.TwoStepCircuitBreaker
}

// NewCircuitBreaker creates a breaker named after the downstream service.
// onStateChange may be nil.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig, onStateChange func(from, to State)) *CircuitBreaker {
	maxFailures := max(cfg.MaxFailures, 1)
	halfOpenLimit := max(cfg.HalfOpenLimit, 1)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(halfOpenLimit), //nolint:gosec // bounded by config validation
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures) //nolint:gosec // bounded by config validation
		},
	}

	if onStateChange != nil {
		settings.OnStateChange = func(_ string, from, to gobreaker.State) {
			onStateChange(from, to)
		}
	}

	return &CircuitBreaker{cb: gobreaker.NewTwoStepCircuitBreaker(settings)}
}

// Allow reserves a slot for one call. The returned func must be called with
// the outcome. ErrCircuitOpen is returned when the call is rejected.
// A nil breaker admits every call.
func (b *CircuitBreaker) Allow() (func(success bool), error) {
	if b == nil {
		return func(bool) {}, nil
	}

	done, err := b.cb.Allow()
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}

	if err != nil {
		return nil, err
	}

	return done, nil
}

// State returns the current state. A nil breaker is always closed.
func (b *CircuitBreaker) State() State {
	if b == nil {
		return StateClosed
	}

	return b.cb.State()
}
