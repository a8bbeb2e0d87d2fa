package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline returns middleware that sets a context deadline on the request.
// Handlers and the dataset provider observe it; nothing is aborted here, so
// the handler always writes its own response.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
