package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds how long a quote request waits for the dataset.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger.
	Logger *slog.Logger

	// ServiceName names the otelgin tracer.
	ServiceName string

	// TracingEnabled adds the otelgin middleware.
	TracingEnabled bool

	// Collectors records Prometheus request metrics. Optional.
	Collectors *telemetry.Collectors

	// API selects the route layout.
	API config.APIConfig

	// QuoteHandler serves the quote and statistics endpoints.
	QuoteHandler *handlers.QuoteHandler

	// SiteHandler serves the landing page, favicon and fallback redirect.
	SiteHandler *handlers.SiteHandler

	// HealthHandler handles health check endpoints. Optional.
	HealthHandler *handlers.HealthHandler

	// Timeout is the deadline placed on quote requests.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. CORS - stamp Access-Control-Allow-Origin, answer preflight with 204
//  2. Recovery - catch panics
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing (when enabled) and metrics
//  6. Logging - request logging (skips health endpoints)
//
// Routes match the exact path only; everything else is redirected to /.
//   - /-/ (internal): health endpoints
//   - split layout: / landing page, /get quote, /info statistics
//   - merged layout: / quote, /all statistics
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	chain := []gin.HandlerFunc{
		middleware.CORS(),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	}

	if cfg.TracingEnabled {
		chain = append(chain, telemetry.TracingMiddleware(cfg.ServiceName))
	}

	chain = append(chain,
		telemetry.Middleware(cfg.Collectors),
		middleware.Logging("/favicon.ico"),
	)

	engine.Use(chain...)

	// Health endpoints have no request deadline.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Mount(engine)
	}

	setupAPIRoutes(engine, cfg)

	if cfg.SiteHandler != nil {
		if cfg.SiteHandler.HasFavicon() {
			engine.GET("/favicon.ico", cfg.SiteHandler.Favicon)
		}

		engine.NoRoute(cfg.SiteHandler.Fallback)
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("routes registered",
			slog.String("layout", cfg.API.Layout),
			slog.Bool("include_version", cfg.API.IncludeVersion),
		)
	}
}

// setupAPIRoutes registers the quote routes for the configured layout.
func setupAPIRoutes(engine *gin.Engine, cfg RouterConfig) {
	if cfg.QuoteHandler == nil {
		return
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group("/", middleware.Deadline(timeout))

	if cfg.API.Layout == config.LayoutMerged {
		api.GET("/", cfg.QuoteHandler.RandomQuote)
		api.GET("/all", cfg.QuoteHandler.Info)

		return
	}

	if cfg.SiteHandler != nil {
		engine.GET("/", cfg.SiteHandler.Index)
	}

	api.GET("/get", cfg.QuoteHandler.RandomQuote)
	api.GET("/info", cfg.QuoteHandler.Info)
}

// NewEngine returns a gin engine with all routes registered, for callers
// that serve it without the Server wrapper.
func NewEngine(cfg RouterConfig) *gin.Engine {
	engine := gin.New()
	SetupRouter(engine, cfg)

	return engine
}
