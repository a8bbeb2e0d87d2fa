package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromCtx    func(context.Context) string
	}{
		{"request id", RequestID(), HeaderRequestID, RequestIDFromContext},
		{"correlation id", CorrelationID(), HeaderCorrelationID, CorrelationIDFromContext},
	}

	for _, tt := range tests {
		t.Run(tt.name+" echoes caller value", func(t *testing.T) {
			t.Parallel()

			var seen string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/get", func(c *gin.Context) {
				seen = tt.fromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/get", nil)
			req.Header.Set(tt.header, "upstream-7")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, "upstream-7", seen)
			assert.Equal(t, "upstream-7", w.Header().Get(tt.header))
		})

		t.Run(tt.name+" minted when absent", func(t *testing.T) {
			t.Parallel()

			var seen string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/get", func(c *gin.Context) {
				seen = tt.fromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get", nil))

			parsed, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(4), parsed.Version())
			assert.Equal(t, seen, w.Header().Get(tt.header))
		})
	}
}

func TestIDsFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(nil)) //nolint:staticcheck // nil guard
}

func TestIDsTagRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	router := gin.New()
	router.Use(withLogger(&buf), RequestID(), CorrelationID())
	router.GET("/info", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("info served")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")

	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"correlation_id":"corr-1"`)
}

func TestForwardIDs(t *testing.T) {
	t.Parallel()

	t.Run("copies both ids", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		ForwardIDs(ContextWithIDs(context.Background(), "req-9", "corr-9"), h)

		assert.Equal(t, "req-9", h.Get(HeaderRequestID))
		assert.Equal(t, "corr-9", h.Get(HeaderCorrelationID))
	})

	t.Run("skips missing ids", func(t *testing.T) {
		t.Parallel()

		h := http.Header{}
		ForwardIDs(ContextWithIDs(context.Background(), "", "corr-9"), h)

		assert.Empty(t, h.Values(HeaderRequestID))
		assert.Equal(t, "corr-9", h.Get(HeaderCorrelationID))
	})
}
