package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/tracing"
)

const (
	DefaultTraceHeader   = "X-Arenax-Trace-Id"
	DefaultRequestHeader = "X-Arenax-Request-Id"
	DefaultSessionHeader = "X-Arenax-Session"
)

// WithLoggingTracing stores the trace, request and session ids in the request
// context, so every log entry written while serving the request carries them.
func WithLoggingTracing(config tracing.Config) gin.HandlerFunc {
	traceHeader := lo.CoalesceOrEmpty(config.TraceHeader, DefaultTraceHeader)
	requestHeader := lo.CoalesceOrEmpty(config.RequestHeader, DefaultRequestHeader)
	sessionHeader := lo.CoalesceOrEmpty(config.SessionHeader, DefaultSessionHeader)

	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = tracing.GenerateTraceID()
		}

		requestID := tracing.GenerateRequestID()
		c.Header(requestHeader, requestID)

		ctx := tracing.WithTraceID(c.Request.Context(), traceID)
		ctx = tracing.WithRequestID(ctx, requestID)
		ctx = tracing.WithOperationName(ctx, fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()))

		if sessionID := c.GetHeader(sessionHeader); sessionID != "" {
			ctx = contexts.WithSessionID(ctx, sessionID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
