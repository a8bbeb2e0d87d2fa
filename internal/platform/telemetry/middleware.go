package telemetry

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// HeaderTraceID echoes the active trace so callers can quote it in reports.
const HeaderTraceID = "X-Trace-ID"

const unmatchedRoute = "unmatched"

// serverInstruments are the OTLP counterparts of the Prometheus request series.
type serverInstruments struct {
	duration metric.Float64Histogram
	inflight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	duration, err := meter.Float64Histogram(
		namespace+".http.server.duration",
		metric.WithDescription("Time spent answering a request."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inflight, err := meter.Int64UpDownCounter(
		namespace+".http.server.inflight",
		metric.WithDescription("Requests currently being answered."),
	)
	if err != nil {
		return nil, err
	}

	return &serverInstruments{duration: duration, inflight: inflight}, nil
}

func (s *serverInstruments) begin(ctx context.Context, method, route string) func(status int, elapsed time.Duration) {
	if s == nil {
		return func(int, time.Duration) {}
	}

	base := []attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
	}
	s.inflight.Add(ctx, 1, metric.WithAttributes(base...))

	return func(status int, elapsed time.Duration) {
		s.inflight.Add(ctx, -1, metric.WithAttributes(base...))
		s.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			append(base, attribute.Int("http.response.status_code", status))...,
		))
	}
}

// Middleware measures every request into the OTLP meter and, when collectors
// is non-nil, the Prometheus histogram. The trace ID of the request span is
// echoed in X-Trace-ID and attached to the request logger.
func Middleware(collectors *Collectors) gin.HandlerFunc {
	instruments, err := newServerInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		started := time.Now()
		ctx := c.Request.Context()
		route := routeOf(c)

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		done := instruments.begin(ctx, c.Request.Method, route)

		c.Next()

		elapsed := time.Since(started)
		status := c.Writer.Status()

		done(status, elapsed)
		collectors.ObserveRequest(c.Request.Method, route, status, elapsed)
	}
}

// routeOf is the registered route pattern, or a fixed label for requests that
// fall through to the redirect so arbitrary paths never become label values.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}

// TracingMiddleware starts a server span per request.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
