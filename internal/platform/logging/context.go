package logging

import (
	"context"
	"log/slog"
)

// Attribute keys added by the request enrichers.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request logger, or the process default when ctx
// carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return defaultLogger
}

// Lookup returns the logger stored in ctx without falling back to the default.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)

	return logger, ok && logger != nil
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns a context whose logger carries the extra attributes.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}

	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags the context logger with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, slog.String(KeyRequestID, requestID))
}

// WithTraceID tags the context logger with the OpenTelemetry trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return With(ctx, slog.String(KeyTraceID, traceID))
}

// WithCorrelationID tags the context logger with the correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, correlationID))
}

// SetDefault replaces both the fallback logger and slog's default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
