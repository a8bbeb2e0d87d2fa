// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// QuoteService serves random quotes and dataset statistics.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	provider       ports.DatasetProvider
	indexes        ports.IndexSource
	recorder       ports.QuoteRecorder
	includeVersion bool
	logger         *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// Provider hands out the loaded dataset. Required.
	Provider ports.DatasetProvider

	// Indexes draws random indexes. Defaults to NewRandomIndexSource().
	Indexes ports.IndexSource

	// Recorder counts served quotes by result. Optional.
	Recorder ports.QuoteRecorder

	// IncludeVersion adds the dataset version and update date to every quote.
	IncludeVersion bool

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Provider is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Provider == nil {
		panic("app: QuoteServiceConfig.Provider is required")
	}

	indexes := cfg.Indexes
	if indexes == nil {
		indexes = NewRandomIndexSource()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		provider:       cfg.Provider,
		indexes:        indexes,
		recorder:       cfg.Recorder,
		includeVersion: cfg.IncludeVersion,
		logger:         logger.With(slog.String("component", "app.QuoteService")),
	}
}

// RandomQuote picks one record uniformly at random.
//
// Errors:
//   - domain.ErrLoadFailure when the dataset is not available
//   - domain.ErrEmptyDataset when the dataset has no records
//   - domain.ErrProjectionFailure when the chosen record cannot be rendered
func (s *QuoteService) RandomQuote(ctx context.Context) (*domain.QuoteView, error) {
	logger := s.loggerFor(ctx)

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		s.record(telemetry.ResultUnavailable)
		return nil, fmt.Errorf("getting dataset: %w", err)
	}

	n := ds.Len()
	if n == 0 {
		s.record(telemetry.ResultEmpty)
		logger.WarnContext(ctx, "random quote requested from empty dataset")

		return nil, domain.NewEmptyDatasetError(ds.Version, ds.Update)
	}

	i := s.indexes.IntN(n)

	view, err := s.project(ds, i)
	if err != nil {
		s.record(telemetry.ResultError)
		logger.ErrorContext(ctx, "failed to project quote",
			slog.Int("index", i),
			slog.Any("error", err),
		)

		return nil, err
	}

	s.record(telemetry.ResultOK)
	logger.Log(ctx, logging.LevelTrace, "served quote", slog.Int("index", i))

	return view, nil
}

// Info returns the dataset metadata with the sentence count.
func (s *QuoteService) Info(ctx context.Context) (*domain.Info, error) {
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}

	return ds.Info(), nil
}

// Metadata returns the dataset metadata for diagnostic responses.
// It never fails: if the dataset is not available the zero Metadata is returned.
func (s *QuoteService) Metadata(ctx context.Context) domain.Metadata {
	ds, err := s.provider.Dataset(ctx)
	if err != nil || ds == nil {
		return domain.Metadata{}
	}

	return ds.Metadata
}

// project renders record i, turning a panic in the indexing path into a
// ProjectionError.
func (s *QuoteService) project(ds *domain.Dataset, i int) (view *domain.QuoteView, err error) {
	defer func() {
		if r := recover(); r != nil {
			view = nil
			err = domain.NewProjectionError(i, fmt.Sprintf("panic: %v", r))
		}
	}()

	return ds.Project(i, s.includeVersion)
}

func (s *QuoteService) record(result string) {
	if s.recorder != nil {
		s.recorder.QuoteServed(result)
	}
}

func (s *QuoteService) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger.With(slog.String("component", "app.QuoteService"))
	}

	return s.logger
}
