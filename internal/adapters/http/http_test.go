package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/hitokoto-service/internal/app"
	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/mocks"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/telemetry"
	"github.com/jsamuelsen/hitokoto-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureDataset() *domain.Dataset {
	return &domain.Dataset{
		Metadata: domain.Metadata{
			Title:   "心跳引擎",
			Author:  "xt",
			Version: "1.0",
			Update:  "2024-01-01",
		},
		Data: []*domain.QuoteRecord{
			{Sentence: "A", Speaker: "B", ChapterTitle: "C"},
		},
	}
}

type routerOptions struct {
	layout     string
	favicon    string
	panicOnGet bool
	collectors *telemetry.Collectors
}

func newTestRouter(t *testing.T, provider ports.DatasetProvider, opts routerOptions) *gin.Engine {
	t.Helper()

	if opts.layout == "" {
		opts.layout = config.LayoutSplit
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Provider: provider,
		Logger:   discardLogger(),
	})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(healthyChecker{}))

	engine := gin.New()

	SetupRouter(engine, RouterConfig{
		Logger:        discardLogger(),
		ServiceName:   "hitokoto-test",
		Collectors:    opts.collectors,
		API:           config.APIConfig{Layout: opts.layout},
		QuoteHandler:  handlers.NewQuoteHandler(service),
		SiteHandler:   handlers.NewSiteHandler(handlers.SiteConfig{FaviconURL: opts.favicon}),
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc", "now")),
		Timeout:       time.Second,
	})

	// Registered after SetupRouter so the global middleware applies.
	if opts.panicOnGet {
		engine.GET("/boom", func(*gin.Context) { panic("kaboom") })
	}

	return engine
}

type healthyChecker struct{}

func (healthyChecker) Name() string                { return "dataset" }
func (healthyChecker) Check(context.Context) error { return nil }

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	return w
}

func TestRouter_SplitLayout(t *testing.T) {
	provider := mocks.NewMockDatasetProvider(t)
	provider.EXPECT().Dataset(mock.Anything).Return(fixtureDataset(), nil)

	engine := newTestRouter(t, provider, routerOptions{})

	t.Run("get returns the only record", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/get?ignored=1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sentence":"A","speaker":"B","chapter_title":"C"}`, w.Body.String())
	})

	t.Run("info reports metadata and count", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/info")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.InfoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "心跳引擎", resp.Title)
		assert.Equal(t, "xt", resp.Author)
		assert.Equal(t, 1, resp.TotalSentences)
		assert.Equal(t, "1.0", resp.Version)
		assert.Equal(t, "2024-01-01", resp.Update)
	})

	t.Run("root serves landing page", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("all is not a route in split layout", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/all")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestRouter_MergedLayout(t *testing.T) {
	provider := mocks.NewMockDatasetProvider(t)
	provider.EXPECT().Dataset(mock.Anything).Return(fixtureDataset(), nil)

	engine := newTestRouter(t, provider, routerOptions{layout: config.LayoutMerged})

	w := do(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sentence":"A","speaker":"B","chapter_title":"C"}`, w.Body.String())

	w = do(engine, http.MethodGet, "/all")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_sentences":1`)

	w = do(engine, http.MethodGet, "/get")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRouter_UnknownPathsRedirect(t *testing.T) {
	engine := newTestRouter(t, mocks.NewMockDatasetProvider(t), routerOptions{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/xyz123"},
		{http.MethodGet, "/get/"},
		{http.MethodGet, "/GET"},
		{http.MethodPost, "/get"},
		{http.MethodDelete, "/info"},
		{http.MethodGet, "/favicon.ico"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(engine, tt.method, tt.path)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/", w.Header().Get("Location"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRouter_Favicon(t *testing.T) {
	engine := newTestRouter(t, mocks.NewMockDatasetProvider(t), routerOptions{
		favicon: "https://cdn.example.com/icon.ico",
	})

	w := do(engine, http.MethodGet, "/favicon.ico")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://cdn.example.com/icon.ico", w.Header().Get("Location"))
}

func TestRouter_PreflightSkipsDataset(t *testing.T) {
	// No expectations: any call to the provider fails the test.
	provider := mocks.NewMockDatasetProvider(t)
	engine := newTestRouter(t, provider, routerOptions{})

	for _, path := range []string{"/", "/get", "/info", "/xyz123"} {
		w := do(engine, http.MethodOptions, path)

		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"), path)
	}
}

func TestRouter_EveryResponseAllowsAnyOrigin(t *testing.T) {
	provider := mocks.NewMockDatasetProvider(t)
	provider.EXPECT().Dataset(mock.Anything).Return(&domain.Dataset{}, nil)

	engine := newTestRouter(t, provider, routerOptions{panicOnGet: true})

	paths := []string{"/", "/get", "/info", "/nope", "/boom", "/-/live", "/-/ready", "/-/build"}
	for _, path := range paths {
		w := do(engine, http.MethodGet, path)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestRouter_ErrorBodies(t *testing.T) {
	t.Run("empty dataset", func(t *testing.T) {
		provider := mocks.NewMockDatasetProvider(t)
		provider.EXPECT().Dataset(mock.Anything).Return(&domain.Dataset{
			Metadata: domain.Metadata{Version: "1.0", Update: "2024-01-01"},
		}, nil)

		engine := newTestRouter(t, provider, routerOptions{})

		w := do(engine, http.MethodGet, "/get")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"服务器内部错误","version":"1.0","update":"2024-01-01"}`, w.Body.String())
	})

	t.Run("load failure", func(t *testing.T) {
		provider := mocks.NewMockDatasetProvider(t)
		provider.EXPECT().Dataset(mock.Anything).Return(nil, domain.NewLoadError("remote", "down", errors.New("x")))

		engine := newTestRouter(t, provider, routerOptions{})

		w := do(engine, http.MethodGet, "/get")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"服务器内部错误：无法获取数据"}`, w.Body.String())
	})

	t.Run("panic", func(t *testing.T) {
		engine := newTestRouter(t, mocks.NewMockDatasetProvider(t), routerOptions{panicOnGet: true})

		w := do(engine, http.MethodGet, "/boom")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"服务器内部错误"}`, w.Body.String())
	})
}

func TestRouter_HealthRoutes(t *testing.T) {
	engine := newTestRouter(t, mocks.NewMockDatasetProvider(t), routerOptions{})

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/-/live").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/-/ready").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/-/build").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/-/metrics").Code)
}

func TestRouter_RecordsRequestMetrics(t *testing.T) {
	provider := mocks.NewMockDatasetProvider(t)
	provider.EXPECT().Dataset(mock.Anything).Return(fixtureDataset(), nil)

	reg := telemetry.NewRegistry()
	collectors := telemetry.NewCollectors(reg, nil)

	engine := newTestRouter(t, provider, routerOptions{collectors: collectors})

	do(engine, http.MethodGet, "/get")
	do(engine, http.MethodGet, "/xyz123")

	count, err := testutil.GatherAndCount(reg, "hitokoto_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewEngine(t *testing.T) {
	provider := mocks.NewMockDatasetProvider(t)
	provider.EXPECT().Dataset(mock.Anything).Return(fixtureDataset(), nil)

	engine := NewEngine(RouterConfig{
		API: config.APIConfig{Layout: config.LayoutSplit},
		QuoteHandler: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Provider: provider,
			Logger:   discardLogger(),
		})),
		SiteHandler: handlers.NewSiteHandler(handlers.SiteConfig{}),
	})

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/get").Code)
}
