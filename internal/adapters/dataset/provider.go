package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// healthCheckName is the name both providers register under.
const healthCheckName = "dataset"

// errNoSentences is reported by the health check for an empty dataset.
var errNoSentences = errors.New("dataset has no sentences")

// Static serves a dataset that was loaded before the server started.
// Implements ports.DatasetProvider and ports.HealthChecker.
type Static struct {
	ds *domain.Dataset
}

// NewStatic wraps an already loaded dataset.
func NewStatic(ds *domain.Dataset) *Static {
	return &Static{ds: ds}
}

// Dataset returns the wrapped dataset. It never fails.
func (p *Static) Dataset(context.Context) (*domain.Dataset, error) {
	return p.ds, nil
}

// Current returns the dataset without blocking.
func (p *Static) Current() *domain.Dataset {
	return p.ds
}

// Name implements ports.HealthChecker.
func (p *Static) Name() string {
	return healthCheckName
}

// Describe implements ports.HealthDescriber.
func (p *Static) Describe() map[string]any {
	return describe(p.ds)
}

// Check implements ports.HealthChecker. An empty dataset is unhealthy.
func (p *Static) Check(context.Context) error {
	if p.ds.Len() == 0 {
		return errNoSentences
	}

	return nil
}

// DefaultLoadTimeout bounds a lazy load when no timeout is configured.
const DefaultLoadTimeout = 30 * time.Second

// LazyOption configures a Lazy provider.
type LazyOption func(*Lazy)

// WithLoadTimeout bounds each load attempt.
func WithLoadTimeout(d time.Duration) LazyOption {
	return func(p *Lazy) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) LazyOption {
	return func(p *Lazy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithOnLoad registers a callback run once after the first successful load.
func WithOnLoad(fn func(context.Context, *domain.Dataset)) LazyOption {
	return func(p *Lazy) {
		p.onLoad = fn
	}
}

// Lazy loads the dataset on first use.
// Implements ports.DatasetProvider and ports.HealthChecker.
//
// Only a successful load is kept. A failed load is returned to every caller
// that was waiting on it, and the next call starts a fresh attempt.
// Concurrent callers on a cold provider share one load.
type Lazy struct {
	source  ports.DatasetSource
	timeout time.Duration
	logger  *slog.Logger
	onLoad  func(context.Context, *domain.Dataset)

	group  singleflight.Group
	cached atomic.Pointer[domain.Dataset]
}

// NewLazy creates a provider that loads from source on demand.
func NewLazy(source ports.DatasetSource, opts ...LazyOption) *Lazy {
	p := &Lazy{
		source:  source,
		timeout: DefaultLoadTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With(slog.String("component", "dataset.Lazy"))

	return p
}

// Dataset returns the cached dataset, loading it first if needed.
// The load itself is detached from ctx so one caller giving up does not fail
// the others; ctx only bounds how long this caller waits. A caller that stops
// waiting gets a LoadError wrapping ctx.Err().
func (p *Lazy) Dataset(ctx context.Context) (*domain.Dataset, error) {
	if ds := p.cached.Load(); ds != nil {
		return ds, nil
	}

	ch := p.group.DoChan(healthCheckName, func() (any, error) {
		if ds := p.cached.Load(); ds != nil {
			return ds, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		ds, err := p.source.Load(loadCtx)
		if err != nil {
			p.logger.WarnContext(ctx, "dataset load failed, will retry on next request",
				slog.String("source", p.source.Name()),
				slog.Any("error", err),
			)

			return nil, err
		}

		p.cached.Store(ds)

		if p.onLoad != nil {
			p.onLoad(loadCtx, ds)
		}

		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, domain.NewLoadError(p.source.Name(), "load did not finish", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		ds, _ := res.Val.(*domain.Dataset)

		return ds, nil
	}
}

// Current returns the cached dataset or nil if nothing has loaded yet.
func (p *Lazy) Current() *domain.Dataset {
	return p.cached.Load()
}

// Describe implements ports.HealthDescriber.
func (p *Lazy) Describe() map[string]any {
	return describe(p.Current())
}

// Name implements ports.HealthChecker.
func (p *Lazy) Name() string {
	return healthCheckName
}

// Check implements ports.HealthChecker. It triggers a load when the cache is
// cold, so a readiness probe warms the provider.
func (p *Lazy) Check(ctx context.Context) error {
	ds, err := p.Dataset(ctx)
	if err != nil {
		return err
	}

	if ds.Len() == 0 {
		return errNoSentences
	}

	return nil
}
