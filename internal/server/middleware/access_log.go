package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/tracing"
)

// AccessLog logs failed requests. Successful requests are logged at debug level only.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()

		var errMsgs []string
		for _, e := range c.Errors {
			errMsgs = append(errMsgs, e.Error())
		}

		for _, e := range contexts.GetErrors(ctx) {
			errMsgs = append(errMsgs, e.Error())
		}

		status := c.Writer.Status()

		fields := []log.Field{
			log.Int("status", status),
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.Duration("latency", time.Since(start)),
			log.String("client_ip", c.ClientIP()),
		}

		if opName, ok := tracing.GetOperationName(ctx); ok {
			fields = append(fields, log.String("operation", opName))
		}

		if status < 400 && len(errMsgs) == 0 {
			if log.DebugEnabled(ctx) {
				log.Debug(ctx, "[ACCESS]", fields...)
			}

			return
		}

		if len(errMsgs) > 0 {
			fields = append(fields, log.Strings("errors", errMsgs))
		}

		if status >= 500 {
			log.Error(ctx, "[ACCESS]", fields...)
		} else {
			log.Warn(ctx, "[ACCESS]", fields...)
		}
	}
}
