// Package config loads the service settings from built-in defaults, the
// configs/ YAML profiles and the environment, then validates them.
package config

import "time"

// Values other packages depend on.
const (
	// DefaultServerPort is the port the standalone server has always listened on.
	DefaultServerPort = 7860

	DefaultMaxRequestSize = 1 << 20

	DefaultDatasetURL       = "https://oss.xt-url.com/%E4%B8%80%E8%A8%80/%E5%BF%83%E8%B7%B3%E5%BC%95%E6%93%8E.json"
	DefaultDatasetLocalPath = "心跳引擎.json"

	// DefaultFaviconURL is the icon the edge deployment redirects /favicon.ico to.
	DefaultFaviconURL = "https://oss.xt-url.com/web-logo/heartbeat-engine-api.xt-url.com.ico"

	// DatasetURLEnv overrides dataset.url. Kept for existing deployments.
	DatasetURLEnv = "DATAURL"

	// DefaultClientRetryMaxAttempts is one: a failed fetch is not retried.
	DefaultClientRetryMaxAttempts = 1
)

// API layouts.
const (
	// LayoutSplit serves the index page on /, quotes on /get and metadata on /info.
	LayoutSplit = "split"

	// LayoutMerged serves quotes on / and metadata on /all.
	LayoutMerged = "merged"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Dataset   DatasetConfig   `koanf:"dataset"   validate:"required"`
	API       APIConfig       `koanf:"api"       validate:"required"`
	Site      SiteConfig      `koanf:"site"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test edge"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`

	// TrustedProxies lists proxy CIDRs/IPs whose X-Forwarded-For is honored.
	// Empty keeps gin's default of trusting every peer.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr|ip"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for the dataset fetch.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
// Disabled, every load reaches the origin.
type CircuitBreakerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// DatasetConfig describes where the quote dataset comes from.
type DatasetConfig struct {
	// URL is fetched when no local file is found.
	URL string `koanf:"url" validate:"required,url"`

	// LocalPath is checked first. Empty disables the local source.
	LocalPath string `koanf:"local_path"`

	// LoadTimeout bounds a single load attempt.
	LoadTimeout time.Duration `koanf:"load_timeout" validate:"required,min=1s"`
}

// APIConfig selects the response shape.
type APIConfig struct {
	Layout string `koanf:"layout" validate:"required,oneof=split merged"`

	// IncludeVersion adds version and update to successful quote responses.
	IncludeVersion bool `koanf:"include_version"`
}

// SiteConfig holds the landing page settings.
type SiteConfig struct {
	// IndexPath is an HTML file served on /. The built-in page is used when it does not exist.
	IndexPath string `koanf:"index_path"`

	// FaviconURL, when set, makes /favicon.ico redirect to it.
	FaviconURL string `koanf:"favicon_url" validate:"omitempty,url"`
}
