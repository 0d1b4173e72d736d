package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arenax/arenax/internal/server/biz"
)

var errMissingToken = errors.New("missing bearer token")

// WithAdminAuth requires a bearer token issued by the organizer sign-in.
// Without configured credentials every request gets 503.
func WithAdminAuth(auth *biz.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Configured() {
			AbortWithError(c, http.StatusServiceUnavailable, biz.ErrAdminNotConfigured)
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, http.StatusUnauthorized, errMissingToken)
			return
		}

		if err := auth.AuthenticateJWTToken(c.Request.Context(), strings.TrimSpace(token)); err != nil {
			if errors.Is(err, biz.ErrAdminNotConfigured) {
				AbortWithError(c, http.StatusServiceUnavailable, err)
				return
			}

			AbortWithError(c, http.StatusUnauthorized, biz.ErrInvalidJWT)

			return
		}

		c.Next()
	}
}
