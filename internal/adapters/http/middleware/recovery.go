package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// Recovery turns a handler panic into the generic 500 body and logs the
// stack on the request logger. Headers already set by CORS and the ID
// middleware survive. http.ErrAbortHandler is re-raised so net/http can drop
// the connection quietly.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			ctx := c.Request.Context()
			logging.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			c.Abort()

			if !c.Writer.Written() {
				c.PureJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MessageInternal))
			}
		}()

		c.Next()
	}
}
