package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
)

// backoff is the retry schedule: attempts in total, with the n-th retry
// waiting initial*factor^(n-1), capped at ceiling, then spread by ±jitter.
type backoff struct {
	attempts int
	initial  time.Duration
	ceiling  time.Duration
	factor   float64
	jitter   float64
}

func newBackoff(cfg config.RetryConfig) backoff {
	b := backoff{
		attempts: max(cfg.MaxAttempts, 1),
		initial:  cfg.InitialInterval,
		ceiling:  cfg.MaxInterval,
		factor:   cfg.Multiplier,
		jitter:   min(max(cfg.JitterFactor, 0), 1),
	}

	if b.factor < 1 {
		b.factor = 1
	}

	if b.ceiling < b.initial {
		b.ceiling = b.initial
	}

	return b
}

// delay returns the wait before retry n, counting from 1.
func (b backoff) delay(n int) time.Duration {
	d := min(float64(b.initial)*math.Pow(b.factor, float64(n-1)), float64(b.ceiling))

	spread := (rand.Float64()*2 - 1) * b.jitter //nolint:gosec // jitter only

	return time.Duration(d + d*spread)
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableError reports whether a transport error may succeed on retry:
// timeouts and connection-level failures, but never caller cancellation.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
