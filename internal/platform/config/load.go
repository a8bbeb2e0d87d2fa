package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultDir holds base.yaml and the profile files, relative to the working directory.
const DefaultDir = "configs"

// layer is one configuration source. Later layers override earlier ones.
type layer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// Load reads DefaultDir. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultDir, profile)
}

// LoadFrom merges, lowest precedence first:
//
//	built-in defaults
//	<dir>/base.yaml
//	<dir>/<profile>.yaml
//	APP_* environment variables
//	DATAURL (dataset.url only)
//
// Missing YAML files are skipped so the binary runs without a configs directory.
func LoadFrom(dir, profile string) (*Config, error) {
	layers := []layer{{name: "defaults", provider: confmap.Provider(defaults(), ".")}}
	layers = appendFile(layers, "base config", filepath.Join(dir, "base.yaml"))

	if profile != "" {
		layers = appendFile(layers, fmt.Sprintf("profile %q", profile), filepath.Join(dir, profile+".yaml"))
	}

	layers = append(layers,
		layer{name: "APP_ environment", provider: env.Provider("APP_", ".", envKey)},
		layer{name: DatasetURLEnv, provider: env.Provider(DatasetURLEnv, ".", datasetURLKey)},
	)

	k := koanf.New(".")

	for _, l := range layers {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", l.name, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func appendFile(layers []layer, name, path string) []layer {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return layers
	}

	return append(layers, layer{name: name, provider: file.Provider(path), parser: yaml.Parser()})
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "hitokoto-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/hitokoto.log",
		"log.file.max_size":    100,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "hitokoto-service",
		"telemetry.sampling_rate": 1.0,

		// One attempt per load: the dataset provider already retries on the next request.
		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  2.0,
		"client.retry.jitter_factor":               0.25,
		"client.circuit_breaker.enabled":           true,
		"client.circuit_breaker.max_failures":      5,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   1,
		"client.transport.max_idle_conns":          10,
		"client.transport.max_idle_conns_per_host": 2,
		"client.transport.idle_conn_timeout":       "90s",

		"dataset.url":          DefaultDatasetURL,
		"dataset.local_path":   DefaultDatasetLocalPath,
		"dataset.load_timeout": "30s",

		"api.layout":          LayoutSplit,
		"api.include_version": false,

		"site.index_path":  "index.html",
		"site.favicon_url": "",
	}
}

// nestedGroups lists config groups below the top-level sections.
var nestedGroups = []string{"log.file", "client.retry", "client.circuit_breaker", "client.transport"}

// envKey maps APP_DATASET_LOCAL_PATH style names onto koanf keys. Only section
// separators become dots so multi-word fields keep their underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))

	for _, group := range nestedGroups {
		if rest, ok := strings.CutPrefix(key, strings.ReplaceAll(group, ".", "_")+"_"); ok {
			return group + "." + rest
		}
	}

	if section, field, ok := strings.Cut(key, "_"); ok {
		return section + "." + field
	}

	return key
}

// datasetURLKey accepts exactly DATAURL. Returning "" makes koanf skip the variable.
func datasetURLKey(s string) string {
	if s == DatasetURLEnv {
		return "dataset.url"
	}

	return ""
}
