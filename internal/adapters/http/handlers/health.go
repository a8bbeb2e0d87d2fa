// Package handlers holds the gin handlers of the quote service.
package handlers

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

// unknownBuildValue marks ldflags that were not set at build time.
const unknownBuildValue = "unknown"

// BuildInfo is served on /-/build.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo records the ldflags-injected values. A missing commit or build
// time is taken from the VCS stamp Go embeds in the binary, when present.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	bi := BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		bi.fillFromVCS(info.Settings)
	}

	return bi
}

func (b *BuildInfo) fillFromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if isUnset(b.Commit) {
				b.Commit = s.Value
			}
		case "vcs.time":
			if isUnset(b.BuildTime) {
				b.BuildTime = s.Value
			}
		}
	}

	if b.Commit == "" {
		b.Commit = unknownBuildValue
	}

	if b.BuildTime == "" {
		b.BuildTime = unknownBuildValue
	}
}

func isUnset(v string) bool {
	return v == "" || v == unknownBuildValue
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithGatherer sets the registry exposed on /-/metrics instead of
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) HealthOption {
	return func(h *HealthHandler) {
		if g != nil {
			h.gatherer = g
		}
	}
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers 200 while the process runs. It never touches the dataset.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

// Readiness runs the registered checks and answers 503 when any fails.
// Against a lazy provider the first probe triggers the dataset load.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, result)
}

// Build serves the build metadata.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// Metrics serves the Prometheus exposition of the configured gatherer.
func (h *HealthHandler) Metrics() http.Handler {
	return telemetry.Handler(h.gatherer)
}

// Register mounts live, ready, build and metrics on rg.
func (h *HealthHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(h.Metrics()))
}

// Mount registers the operational routes under /-/ on engine.
func (h *HealthHandler) Mount(engine *gin.Engine) {
	h.Register(engine.Group("/-"))
}
