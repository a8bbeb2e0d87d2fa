package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/dataset"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// profileEnv selects the config profile when --profile is not given.
const profileEnv = "APP_ENVIRONMENT"

func newRootCmd() *cobra.Command {
	var profile string

	root := &cobra.Command{
		Use:   "hitokoto",
		Short: "心跳引擎一言 - random quote HTTP service",
		Long: `hitokoto serves random quotes from the heartbeat-engine dataset.

The dataset is read from a local JSON file when present, otherwise fetched
once from the configured URL (DATAURL overrides it).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(fmt.Sprintf("hitokoto {{.Version}} (commit %s, built %s)\n", Commit, BuildTime))
	root.PersistentFlags().StringVarP(&profile, "profile", "p", "",
		"config profile, loads configs/<profile>.yaml (default: $APP_ENVIRONMENT or local)")

	serve := newServeCmd(&profile)
	root.AddCommand(serve, newInfoCmd(&profile))

	// Running without a subcommand starts the server.
	root.RunE = serve.RunE

	return root
}

// loadConfig loads and validates configuration for the selected profile.
func loadConfig(profile string) (*config.Config, error) {
	if profile == "" {
		profile = os.Getenv(profileEnv)
	}

	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// loadDataset resolves the dataset once, bounded by dataset.load_timeout.
func loadDataset(ctx context.Context, cfg *config.Config, recorder ports.LoadRecorder, logger *slog.Logger) (*domain.Dataset, error) {
	resolver, err := dataset.NewResolverFromConfig(cfg, recorder, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	defer cancel()

	ds, err := resolver.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	return ds, nil
}
