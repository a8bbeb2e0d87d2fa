package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS header values. Every response allows any origin.
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, OPTIONS"
	AllowHeaders = "Content-Type"
)

// CORS returns middleware that stamps Access-Control-Allow-Origin on every
// response and answers OPTIONS preflight requests with 204 before any
// handler runs.
//
// Register it first so redirects, errors and recovered panics carry the header.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", AllowOrigin)

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", AllowMethods)
			c.Header("Access-Control-Allow-Headers", AllowHeaders)
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
