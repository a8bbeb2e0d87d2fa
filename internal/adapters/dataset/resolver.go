package dataset

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Local is tried first. Nil skips straight to Remote.
	Local ports.DatasetSource

	// Remote is used when Local is nil or its file does not exist.
	Remote ports.DatasetSource

	// Recorder counts load attempts. Optional.
	Recorder ports.LoadRecorder

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Resolver chooses between the local file and the remote document.
// Implements ports.DatasetSource.
//
// A local file that exists but cannot be parsed is a hard failure; the remote
// source is only consulted when the local file is absent.
type Resolver struct {
	local    ports.DatasetSource
	remote   ports.DatasetSource
	recorder ports.LoadRecorder
	logger   *slog.Logger
}

// NewResolver creates a resolver over the configured sources.
func NewResolver(cfg ResolverConfig) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		local:    cfg.Local,
		remote:   cfg.Remote,
		recorder: cfg.Recorder,
		logger:   logger.With(slog.String("component", "dataset.Resolver")),
	}
}

// Name identifies the resolver in logs.
func (r *Resolver) Name() string {
	return "resolver"
}

// Load returns the dataset from the first source that has one.
func (r *Resolver) Load(ctx context.Context) (*domain.Dataset, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "dataset.Load")
	defer span.End()

	if r.local != nil {
		ds, err := r.try(ctx, r.local)
		if err == nil {
			span.SetAttributes(attribute.String("dataset.source", r.local.Name()))
			return ds, nil
		}

		if !errors.Is(err, ErrSourceNotFound) {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		r.logger.DebugContext(ctx, "no local dataset, using remote", slog.Any("error", err))
	}

	if r.remote == nil {
		err := domain.NewLoadError(r.Name(), "no dataset source available", nil)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	ds, err := r.try(ctx, r.remote)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("dataset.source", r.remote.Name()))

	return ds, nil
}

func (r *Resolver) try(ctx context.Context, src ports.DatasetSource) (*domain.Dataset, error) {
	ds, err := src.Load(ctx)

	if r.recorder != nil && !errors.Is(err, ErrSourceNotFound) {
		r.recorder.DatasetLoaded(src.Name(), err)
	}

	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "dataset source selected",
		slog.String("source", src.Name()),
		slog.Int("sentences", ds.Len()),
	)

	return ds, nil
}
