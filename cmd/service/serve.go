package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/dataset"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/hitokoto-service/internal/app"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

func newServeCmd(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *profile)
		},
	}
}

func serve(ctx context.Context, profile string) error {
	// 1. Load and validate configuration (fail fast)
	cfg, err := loadConfig(profile)
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)
	logger.Debug("dataset configured",
		slog.String("url", cfg.Dataset.URL),
		slog.String("local_path", cfg.Dataset.LocalPath),
		slog.Duration("load_timeout", cfg.Dataset.LoadTimeout),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Prometheus collectors
	var provider *dataset.Static

	registry := telemetry.NewRegistry()
	collectors := telemetry.NewCollectors(registry, func() float64 {
		return float64(provider.Current().Len())
	})

	// 5. Load the dataset; the server never starts without one
	ds, err := loadDataset(ctx, cfg, collectors, logger)
	if err != nil {
		logger.Error("failed to read dataset", slog.Any("error", err))
		return err
	}

	dataset.LogSummary(ctx, logger, ds)
	provider = dataset.NewStatic(ds)

	// 6. Health registry
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Dataset.LoadTimeout))
	if err := healthRegistry.Register(provider); err != nil {
		return fmt.Errorf("registering dataset health check: %w", err)
	}

	// 7. Quote service (application layer)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Provider:       provider,
		Recorder:       collectors,
		IncludeVersion: cfg.API.IncludeVersion,
		Logger:         logger,
	})

	// 8. HTTP server and routes
	server, err := http.New(&cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Collectors:     collectors,
		API:            cfg.API,
		QuoteHandler:   handlers.NewQuoteHandler(quoteService),
		SiteHandler: handlers.NewSiteHandler(handlers.SiteConfig{
			IndexPath:  cfg.Site.IndexPath,
			FaviconURL: cfg.Site.FaviconURL,
		}),
		HealthHandler: handlers.NewHealthHandler(healthRegistry,
			handlers.NewBuildInfo(Version, Commit, BuildTime),
			handlers.WithGatherer(registry),
		),
		Timeout: http.DefaultRequestTimeout,
	})

	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.String("addr", server.Addr()), slog.Any("error", err))
		return err
	}

	logger.Info("服务已启动",
		slog.String("address", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
		slog.String("listen", server.Addr()),
		slog.Int("port", cfg.Server.Port),
		slog.String("layout", cfg.API.Layout),
	)

	// 9. Serve until a signal arrives or the listener fails
	return runServer(ctx, logger, server, cfg.Server.ShutdownTimeout)
}

// runServer serves until SIGINT/SIGTERM or a listener error, then drains
// in-flight requests within shutdownTimeout.
func runServer(ctx context.Context, logger *slog.Logger, server *http.Server, shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := server.Serve()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The channel is closed without a value after a clean shutdown.
		if err, ok := <-serverErr; ok {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		if ctx.Err() != nil {
			logger.Info("received shutdown signal")
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
