package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProfiles lays out a configs directory with the given files.
func writeProfiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "hitokoto-service", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, 7860, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, int64(DefaultMaxRequestSize), cfg.Server.MaxRequestSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, DefaultDatasetURL, cfg.Dataset.URL)
	assert.Equal(t, "心跳引擎.json", cfg.Dataset.LocalPath)
	assert.Equal(t, 30*time.Second, cfg.Dataset.LoadTimeout)

	assert.Equal(t, LayoutSplit, cfg.API.Layout)
	assert.False(t, cfg.API.IncludeVersion)
	assert.Equal(t, "index.html", cfg.Site.IndexPath)
	assert.Empty(t, cfg.Site.FaviconURL)

	require.NoError(t, cfg.Validate())
}

func TestLoad_DurationsAndClient(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)

	retry := cfg.Client.Retry
	assert.Equal(t, DefaultClientRetryMaxAttempts, retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, retry.InitialInterval)
	assert.Equal(t, 5*time.Second, retry.MaxInterval)
	assert.InDelta(t, 2.0, retry.Multiplier, 0)
	assert.InDelta(t, 0.25, retry.JitterFactor, 0)

	assert.True(t, cfg.Client.CircuitBreaker.Enabled)
	assert.Equal(t, 5, cfg.Client.CircuitBreaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, 1, cfg.Client.CircuitBreaker.HalfOpenLimit)
	assert.Equal(t, 2, cfg.Client.Transport.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

func TestLoad_LogFileAndTelemetryDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/hitokoto.log", cfg.Log.File.Path)
	assert.Equal(t, 100, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.File.MaxBackups)
	assert.Equal(t, 28, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Telemetry.Endpoint)
	assert.Equal(t, "hitokoto-service", cfg.Telemetry.ServiceName)
	assert.InDelta(t, 1.0, cfg.Telemetry.SamplingRate, 0.0001)
}

func TestLoad_ProfileLayering(t *testing.T) {
	dir := writeProfiles(t, map[string]string{
		"base.yaml": "server:\n  port: 8000\nlog:\n  level: debug\napi:\n  layout: merged\n",
		"edge.yaml": "app:\n  environment: edge\nlog:\n  level: warn\ndataset:\n  local_path: \"\"\n",
	})

	cfg, err := LoadFrom(dir, "edge")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, LayoutMerged, cfg.API.Layout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "edge", cfg.App.Environment)
	assert.Empty(t, cfg.Dataset.LocalPath)

	base, err := LoadFrom(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", base.Log.Level)
}

func TestLoad_MissingProfileIsSkipped(t *testing.T) {
	cfg, err := LoadFrom(writeProfiles(t, map[string]string{"base.yaml": "app:\n  name: 一言\n"}), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "一言", cfg.App.Name)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"prod.yaml": "server: [port"})

	_, err := LoadFrom(dir, "prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `loading profile "prod"`)
}

func TestLoad_EnvOverridesProfile(t *testing.T) {
	dir := writeProfiles(t, map[string]string{"base.yaml": "server:\n  port: 8000\n"})

	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_DATASET_LOCAL_PATH", "/data/quotes.json")
	t.Setenv("APP_API_LAYOUT", LayoutMerged)
	t.Setenv("APP_API_INCLUDE_VERSION", "true")
	t.Setenv("APP_SITE_FAVICON_URL", DefaultFaviconURL)
	t.Setenv("APP_TELEMETRY_ENABLED", "true")

	cfg, err := LoadFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/data/quotes.json", cfg.Dataset.LocalPath)
	assert.Equal(t, LayoutMerged, cfg.API.Layout)
	assert.True(t, cfg.API.IncludeVersion)
	assert.Equal(t, DefaultFaviconURL, cfg.Site.FaviconURL)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_NestedEnvOverrides(t *testing.T) {
	t.Setenv("APP_CLIENT_CIRCUIT_BREAKER_MAX_FAILURES", "9")
	t.Setenv("APP_CLIENT_RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("APP_LOG_FILE_MAX_BACKUPS", "7")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Client.CircuitBreaker.MaxFailures)
	assert.Equal(t, 3, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 7, cfg.Log.File.MaxBackups)
}

func TestLoad_DataURLEnv(t *testing.T) {
	t.Run("overrides dataset url", func(t *testing.T) {
		t.Setenv(DatasetURLEnv, "https://mirror.example.com/heartbeat.json")

		cfg, err := LoadFrom(t.TempDir(), "")
		require.NoError(t, err)

		assert.Equal(t, "https://mirror.example.com/heartbeat.json", cfg.Dataset.URL)
	})

	t.Run("wins over APP_DATASET_URL", func(t *testing.T) {
		t.Setenv("APP_DATASET_URL", "https://app.example.com/a.json")
		t.Setenv(DatasetURLEnv, "https://legacy.example.com/b.json")

		cfg, err := LoadFrom(t.TempDir(), "")
		require.NoError(t, err)

		assert.Equal(t, "https://legacy.example.com/b.json", cfg.Dataset.URL)
	})
}

func TestLoad_ReadsDefaultDir(t *testing.T) {
	// The package directory has no configs/, so only defaults apply.
	cfg, err := Load("local")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.App.Environment)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		env      string
		expected string
	}{
		{"APP_SERVER_PORT", "server.port"},
		{"APP_APP_NAME", "app.name"},
		{"APP_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"APP_DATASET_LOCAL_PATH", "dataset.local_path"},
		{"APP_API_INCLUDE_VERSION", "api.include_version"},
		{"APP_LOG_FILE_MAX_SIZE", "log.file.max_size"},
		{"APP_CLIENT_RETRY_JITTER_FACTOR", "client.retry.jitter_factor"},
		{"APP_CLIENT_CIRCUIT_BREAKER_HALF_OPEN_LIMIT", "client.circuit_breaker.half_open_limit"},
		{"APP_CLIENT_TRANSPORT_IDLE_CONN_TIMEOUT", "client.transport.idle_conn_timeout"},
		{"APP_CLIENT_TIMEOUT", "client.timeout"},
		{"APP_ENVIRONMENT", "environment"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.expected, envKey(tt.env))
		})
	}
}

func TestDatasetURLKey(t *testing.T) {
	assert.Equal(t, "dataset.url", datasetURLKey("DATAURL"))
	assert.Empty(t, datasetURLKey("DATAURL_BACKUP"))
}
