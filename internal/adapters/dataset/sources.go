package dataset

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/clients"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// originServiceName names the dataset host in client logs, spans and errors.
const originServiceName = "dataset-origin"

// NewResolverFromConfig wires the local file and the remote document into a
// Resolver. An empty dataset.local_path disables the local source.
func NewResolverFromConfig(cfg *config.Config, recorder ports.LoadRecorder, logger *slog.Logger) (*Resolver, error) {
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Dataset.URL,
		ServiceName: originServiceName,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.App.Name + "/" + cfg.App.Version,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating dataset client: %w", err)
	}

	rc := ResolverConfig{
		Remote: acl.NewDatasetClient(acl.DatasetClientConfig{
			Client:      httpClient,
			ServiceName: originServiceName,
			Logger:      logger,
		}),
		Recorder: recorder,
		Logger:   logger,
	}

	if cfg.Dataset.LocalPath != "" {
		rc.Local = NewFileSource(cfg.Dataset.LocalPath, logger)
	}

	return NewResolver(rc), nil
}
