package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/arenax/arenax/internal/log"
)

var errPanic = errors.New("internal server error")

// Recovery turns a handler panic into a 500 JSON response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		completed := false

		defer func() {
			if completed {
				return
			}

			// panic(nil) surfaces here as *runtime.PanicNilError.
			r := recover()

			log.Error(c.Request.Context(), "panic recovered",
				log.String("panic", fmt.Sprint(r)),
				log.String("path", c.Request.URL.Path),
				log.String("stack", string(debug.Stack())),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			AbortWithError(c, http.StatusInternalServerError, errPanic)
		}()

		c.Next()

		completed = true
	}
}
