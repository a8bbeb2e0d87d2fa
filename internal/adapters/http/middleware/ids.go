// Package middleware provides the gin middleware chain of the quote service.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// Headers carrying the tracing IDs in and out of the service.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// idKind selects one of the two tracked IDs. It doubles as the context key.
type idKind uint8

const (
	requestID idKind = iota + 1
	correlationID
)

func (k idKind) header() string {
	if k == correlationID {
		return HeaderCorrelationID
	}

	return HeaderRequestID
}

func (k idKind) tagLogger(ctx context.Context, id string) context.Context {
	if k == correlationID {
		return logging.WithCorrelationID(ctx, id)
	}

	return logging.WithRequestID(ctx, id)
}

func (k idKind) from(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(k).(string)

	return id
}

// RequestID echoes X-Request-ID, minting a UUID when the caller sent none.
// The ID is stored on the request context and the request logger.
func RequestID() gin.HandlerFunc {
	return propagate(requestID)
}

// CorrelationID does the same for X-Correlation-ID, which upstream callers
// reuse across a whole transaction.
func CorrelationID() gin.HandlerFunc {
	return propagate(correlationID)
}

func propagate(kind idKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(kind.header())
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(kind.header(), id)

		ctx := context.WithValue(c.Request.Context(), kind, id)
		c.Request = c.Request.WithContext(kind.tagLogger(ctx, id))

		c.Next()
	}
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	return requestID.from(ctx)
}

// CorrelationIDFromContext returns the correlation ID, or "" outside a request.
func CorrelationIDFromContext(ctx context.Context) string {
	return correlationID.from(ctx)
}

// ContextWithIDs attaches IDs to ctx outside the middleware chain, e.g. in a
// background dataset load. Empty values are skipped.
func ContextWithIDs(ctx context.Context, reqID, corrID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, requestID, reqID)
	}

	if corrID != "" {
		ctx = context.WithValue(ctx, correlationID, corrID)
	}

	return ctx
}

// ForwardIDs copies the IDs carried by ctx onto an outbound request header.
func ForwardIDs(ctx context.Context, h http.Header) {
	for _, kind := range []idKind{requestID, correlationID} {
		if id := kind.from(ctx); id != "" {
			h.Set(kind.header(), id)
		}
	}
}
