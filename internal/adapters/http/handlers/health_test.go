package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/hitokoto-service/internal/mocks"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewBuildInfo_KeepsLdflags(t *testing.T) {
	bi := NewBuildInfo("2.3.1", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, BuildInfo{
		Version:   "2.3.1",
		Commit:    "abc123",
		BuildTime: "2024-01-15T10:00:00Z",
		GoVersion: runtime.Version(),
	}, bi)
}

func TestBuildInfo_FillFromVCS(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "0f1e2d3c"},
		{Key: "vcs.time", Value: "2024-03-01T08:00:00Z"},
	}

	tests := []struct {
		name     string
		in       BuildInfo
		settings []debug.BuildSetting
		want     BuildInfo
	}{
		{
			name:     "unset values come from the stamp",
			in:       BuildInfo{Commit: "unknown"},
			settings: vcs,
			want:     BuildInfo{Commit: "0f1e2d3c", BuildTime: "2024-03-01T08:00:00Z"},
		},
		{
			name:     "ldflags win over the stamp",
			in:       BuildInfo{Commit: "abc", BuildTime: "now"},
			settings: vcs,
			want:     BuildInfo{Commit: "abc", BuildTime: "now"},
		},
		{
			name: "no stamp reports unknown",
			want: BuildInfo{Commit: "unknown", BuildTime: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bi := tt.in
			bi.fillFromVCS(tt.settings)

			assert.Equal(t, tt.want, bi)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := serve(NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}).Liveness, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		result     *ports.HealthResult
		wantStatus int
	}{
		{
			name: "dataset loaded",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{
					"dataset": {Status: ports.HealthStatusHealthy, Details: map[string]any{"sentences": 2}},
				},
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty dataset",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"dataset": {Status: ports.HealthStatusUnhealthy, Message: "dataset has no sentences"},
				},
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "nothing registered",
			result:     &ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result)

			w := serve(NewHealthHandler(registry, BuildInfo{}).Readiness, "/-/ready")

			assert.Equal(t, tt.wantStatus, w.Code)

			var got ports.HealthResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.result.Status, got.Status)
			assert.Len(t, got.Checks, len(tt.result.Checks))
		})
	}
}

func TestHealthHandler_Build(t *testing.T) {
	bi := BuildInfo{Version: "1.2.3", Commit: "def456", BuildTime: "2024-02-01T12:00:00Z", GoVersion: "go1.25.7"}

	w := serve(NewHealthHandler(mocks.NewMockHealthRegistry(t), bi).Build, "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"1.2.3","commit":"def456","buildTime":"2024-02-01T12:00:00Z","goVersion":"go1.25.7"}`, w.Body.String())
}

func TestHealthHandler_Metrics(t *testing.T) {
	reg := telemetry.NewRegistry()
	collectors := telemetry.NewCollectors(reg, func() float64 { return 3 })
	collectors.QuoteServed(telemetry.ResultOK)

	handler := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}, WithGatherer(reg)).Metrics()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "hitokoto_dataset_sentences 3")
	assert.Contains(t, w.Body.String(), `hitokoto_quotes_served_total{result="ok"} 1`)
}

func TestHealthHandler_Mount(t *testing.T) {
	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(&ports.HealthResult{
		Status: ports.HealthStatusHealthy,
		Checks: map[string]*ports.CheckResult{},
	}).Maybe()

	router := gin.New()
	NewHealthHandler(registry, BuildInfo{}).Mount(router)

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics"} {
		assert.True(t, registered[route], "missing route: %s", route)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
