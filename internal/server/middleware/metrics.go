package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arenax/arenax/internal/log"
)

const meterName = "github.com/arenax/arenax/internal/server"

// WithMetrics records request counts and latencies on the global meter provider.
func WithMetrics() gin.HandlerFunc {
	meter := otel.Meter(meterName)

	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of handled HTTP requests."),
	)
	if err != nil {
		log.Warn(context.Background(), "failed to create request counter", log.Cause(err))
	}

	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of handled HTTP requests."),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Warn(context.Background(), "failed to create duration histogram", log.Cause(err))
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		)

		ctx := c.Request.Context()

		if requests != nil {
			requests.Add(ctx, 1, attrs)
		}

		if duration != nil {
			duration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}
}
