package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/hitokoto-service/internal/adapters/clients"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "hitokoto-service"
)

// Outcome labels on the client metrics.
const (
	outcomeOK       = "ok"
	outcomeFailed   = "failed"
	outcomeRejected = "circuit_open"
	outcomeCanceled = "canceled"
)

// Config configures a Client.
type Config struct {
	// BaseURL is either a host prefix or the full document URL. In the latter
	// case callers pass an empty path.
	BaseURL string

	// ServiceName labels logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	UserAgent string
	Logger    *slog.Logger
}

// Client fetches documents from one origin. Server errors and network
// failures are retried with jittered exponential backoff, and a circuit
// breaker stops calls to an origin that keeps failing.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	agent   string
	retry   backoff
	breaker *CircuitBreaker
	logger  *slog.Logger

	tracer  trace.Tracer
	latency metric.Float64Histogram
	total   metric.Int64Counter
}

// New validates cfg and builds a client. Missing timeout, attempts and user
// agent fall back to defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	agent := cfg.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"), slog.String("downstream", cfg.ServiceName))

	meter := otel.Meter(instrumentationName)

	latency, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of outbound dataset requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound dataset requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	var breaker *CircuitBreaker
	if cfg.Circuit.Enabled {
		breaker = NewCircuitBreaker(cfg.ServiceName, cfg.Circuit, func(from, to State) {
			logger.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
		})
	}

	return &Client{
		http:    &http.Client{Timeout: timeout, Transport: newTransport(cfg.Transport)},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		name:    cfg.ServiceName,
		agent:   agent,
		retry:   newBackoff(cfg.Retry),
		breaker: breaker,
		logger:  logger,
		tracer:  otel.Tracer(instrumentationName),
		latency: latency,
		total:   total,
	}, nil
}

func newTransport(cfg config.TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default

	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}

	return t
}

// Get fetches path relative to the base URL. The caller closes the body.
// Non-2xx responses below 500 are returned as-is for the caller to map.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	started := time.Now()
	logger := c.logger
	if reqLogger, ok := logging.Lookup(ctx); ok {
		logger = reqLogger.With(slog.String("downstream", c.name))
	}

	logger = logger.With(slog.String("url", req.URL.Redacted()))

	done, err := c.breaker.Allow()
	if err != nil {
		c.observe(ctx, 0, outcomeRejected, started)
		logger.Warn("request blocked by circuit breaker")

		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "GET "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Accept", "application/json")
	middleware.ForwardIDs(ctx, req.Header)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.attempt(ctx, req, logger)
	done(err == nil)

	if err != nil {
		outcome := outcomeFailed
		if ctx.Err() != nil {
			outcome = outcomeCanceled
		}

		span.SetStatus(codes.Error, err.Error())
		c.observe(ctx, 0, outcome, started)
		logger.Error("request failed", slog.Duration("duration", time.Since(started)), slog.Any("error", err))

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.observe(ctx, resp.StatusCode, outcomeOK, started)
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(started)))

	return resp, nil
}

// attempt runs the request up to the configured number of times.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := range c.retry.attempts {
		if n > 0 {
			wait := c.retry.delay(n)
			logger.Debug("retrying request", slog.Int("attempt", n+1), slog.Duration("backoff", wait))

			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		switch {
		case err != nil && !isRetryableError(err):
			return nil, err
		case err != nil:
			lastErr = err
		case resp.StatusCode >= http.StatusInternalServerError:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		default:
			return resp, nil
		}

		logger.Debug("attempt failed", slog.Int("attempt", n+1), slog.Any("error", lastErr))
	}

	return nil, lastErr
}

// CircuitState reports the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// resolve joins path onto the base URL. An empty path is the base URL itself.
func (c *Client) resolve(path string) string {
	if path == "" {
		return c.baseURL
	}

	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) observe(ctx context.Context, status int, outcome string, started time.Time) {
	attrs := []attribute.KeyValue{
		attribute.String("peer.service", c.name),
		attribute.String("result", outcome),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.latency.Record(ctx, time.Since(started).Seconds(), opt)
	c.total.Add(ctx, 1, opt)
}
