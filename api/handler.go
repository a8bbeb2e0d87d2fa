// Package api is the edge entry point. The platform calls Handler for every
// request; the router and dataset provider are built on the first call and
// reused for the life of the instance.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/dataset"
	httpadapter "github.com/jsamuelsen/hitokoto-service/internal/adapters/http"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/hitokoto-service/internal/app"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// Profile is the configuration profile loaded by the edge entry.
const Profile = "edge"

// Version is injected via ldflags, like the standalone binary.
var Version = "dev"

var (
	once    sync.Once
	handler http.Handler
)

// Handler serves one request.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		handler = build()
	})

	handler.ServeHTTP(w, r)
}

// build loads configuration and assembles the engine. A configuration error
// yields a handler that answers every request with a 500.
func build() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load(Profile)
	if err == nil {
		err = cfg.Validate()
	}

	if err != nil {
		slog.Error("invalid edge configuration", slog.Any("error", err))
		return unavailable()
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})

	h, err := newHandler(cfg, logger)
	if err != nil {
		logger.Error("building edge handler", slog.Any("error", err))
		return unavailable()
	}

	return h
}

// newHandler assembles the gin engine over a lazily loaded dataset.
func newHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	registry := telemetry.NewRegistry()

	var provider *dataset.Lazy

	collectors := telemetry.NewCollectors(registry, func() float64 {
		return float64(provider.Current().Len())
	})

	// An open breaker would refuse loads without fetching. Every request on a
	// cold instance has to reach the origin again.
	edge := *cfg
	edge.Client.CircuitBreaker.Enabled = false

	resolver, err := dataset.NewResolverFromConfig(&edge, collectors, logger)
	if err != nil {
		return nil, err
	}

	provider = dataset.NewLazy(resolver,
		dataset.WithLoadTimeout(cfg.Dataset.LoadTimeout),
		dataset.WithLogger(logger),
		dataset.WithOnLoad(func(ctx context.Context, ds *domain.Dataset) {
			dataset.LogSummary(ctx, logger, ds)
		}),
	)

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Dataset.LoadTimeout))
	if err := healthRegistry.Register(provider); err != nil {
		return nil, err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Provider:       provider,
		Recorder:       collectors,
		IncludeVersion: cfg.API.IncludeVersion,
		Logger:         logger,
	})

	faviconURL := cfg.Site.FaviconURL
	if faviconURL == "" {
		faviconURL = config.DefaultFaviconURL
	}

	// No OTLP exporters here: an idle function instance is frozen before a
	// batch would flush, so tracing stays off at the edge.
	return httpadapter.NewEngine(httpadapter.RouterConfig{
		Logger:       logger,
		ServiceName:  cfg.Telemetry.ServiceName,
		Collectors:   collectors,
		API:          cfg.API,
		QuoteHandler: handlers.NewQuoteHandler(service),
		SiteHandler: handlers.NewSiteHandler(handlers.SiteConfig{
			IndexPath:  cfg.Site.IndexPath,
			FaviconURL: faviconURL,
		}),
		HealthHandler: handlers.NewHealthHandler(healthRegistry,
			handlers.NewBuildInfo(Version, "unknown", "unknown"),
			handlers.WithGatherer(registry),
		),
		Timeout: cfg.Dataset.LoadTimeout,
	}), nil
}

func unavailable() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.PureJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MessageInternal))
	})

	return engine
}
