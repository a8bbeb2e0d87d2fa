package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// Logging writes one access line per request through the request logger, so
// the line carries request_id, correlation_id and trace_id when present.
// Probe paths under /-/ and any quiet paths are not logged.
func Logging(quiet ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		started := time.Now()

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()

		logging.FromContext(ctx).Log(ctx, accessLevel(c.Request.Method, status), "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(started)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// accessLevel keeps CORS preflights and redirects of stray paths out of the
// info stream and raises failures.
func accessLevel(method string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case method == http.MethodOptions, status >= http.StatusMultipleChoices:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
