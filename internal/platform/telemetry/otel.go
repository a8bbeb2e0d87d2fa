// Package telemetry provides OpenTelemetry tracing and metrics plus the
// Prometheus collectors scraped on /-/metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/hitokoto-service/telemetry"
	flushTimeout        = 5 * time.Second
)

// Config holds telemetry configuration. Endpoint is the collector's OTLP/gRPC
// URL; an http:// scheme disables TLS.
type Config struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	Version      string
	Environment  string
	SamplingRate float64
}

// Provider owns the exporters installed by New.
type Provider struct {
	stops []stop
}

type stop struct {
	name string
	fn   func(context.Context) error
}

// New installs OTLP trace and metric exporters as the global providers.
// When telemetry is disabled the globals stay noop and the returned Provider
// has nothing to flush.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spans, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	metrics, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("creating metric exporter: %w", err),
			spans.Shutdown(ctx),
		)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spans),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{stops: []stop{
		{name: "tracer provider", fn: tp.Shutdown},
		{name: "meter provider", fn: mp.Shutdown},
	}}, nil
}

func newResource(cfg *Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
}

// Tracer returns the service tracer from the global provider. It is a noop
// tracer until New installs a real provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Shutdown flushes pending spans and metrics, giving up after five seconds.
func (p *Provider) Shutdown(ctx context.Context) error {
	if len(p.stops) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	var errs []error

	for _, s := range p.stops {
		if err := s.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down %s: %w", s.name, err))
		}
	}

	return errors.Join(errs...)
}
