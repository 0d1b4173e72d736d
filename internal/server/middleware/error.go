package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/arenax/arenax/internal/objects"
)

// AbortWithError stops the handler chain with the standard error body. err is
// kept on the context so the access log reports it.
func AbortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, objects.NewErrorResponse(status, err))
}
