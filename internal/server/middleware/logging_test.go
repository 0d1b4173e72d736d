package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/tracing"
)

type tracedRequest struct {
	traceID   string
	requestID string
	operation string
	sessionID string
}

func serveTraced(t *testing.T, cfg tracing.Config, headers map[string]string) (tracedRequest, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got tracedRequest

	engine := gin.New()
	engine.Use(WithLoggingTracing(cfg))
	engine.GET("/teams/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		got.traceID, _ = tracing.GetTraceID(ctx)
		got.requestID, _ = tracing.GetRequestID(ctx)
		got.operation, _ = tracing.GetOperationName(ctx)
		got.sessionID, _ = contexts.GetSessionID(ctx)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/42", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return got, w
}

func TestWithLoggingTracing_Generated(t *testing.T) {
	got, w := serveTraced(t, tracing.Config{}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(got.traceID, "at-"))
	assert.True(t, strings.HasPrefix(got.requestID, "ar-"))
	assert.Equal(t, got.requestID, w.Header().Get(DefaultRequestHeader))
	assert.Equal(t, "GET /teams/:id", got.operation)
	assert.Empty(t, got.sessionID)
}

func TestWithLoggingTracing_FromHeaders(t *testing.T) {
	got, _ := serveTraced(t, tracing.Config{}, map[string]string{
		DefaultTraceHeader:   "at-existing",
		DefaultSessionHeader: "s-1",
	})

	assert.Equal(t, "at-existing", got.traceID)
	assert.Equal(t, "s-1", got.sessionID)
}

func TestWithLoggingTracing_CustomHeaders(t *testing.T) {
	cfg := tracing.Config{
		TraceHeader:   "X-Trace",
		RequestHeader: "X-Request",
		SessionHeader: "X-Session",
	}

	got, w := serveTraced(t, cfg, map[string]string{
		"X-Trace":          "at-custom",
		"X-Session":        "s-9",
		DefaultTraceHeader: "at-ignored",
	})

	assert.Equal(t, "at-custom", got.traceID)
	assert.Equal(t, "s-9", got.sessionID)
	assert.Equal(t, got.requestID, w.Header().Get("X-Request"))
	assert.Empty(t, w.Header().Get(DefaultRequestHeader))
}
