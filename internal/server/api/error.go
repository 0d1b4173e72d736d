package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/objects"
	"github.com/arenax/arenax/internal/payment"
	"github.com/arenax/arenax/internal/pkg/httpclient"
	"github.com/arenax/arenax/internal/server/biz"
)

var errInvalidRequest = errors.New("invalid request format")

// JSONError writes the standard error body without aborting, so later
// middleware still runs.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.NewErrorResponse(status, err))
}

// handleError answers with the status matching err. Unknown errors are logged
// and reported as ErrInternal.
func handleError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed", log.Cause(err))
		JSONError(c, status, biz.ErrInternal)

		return
	}

	JSONError(c, status, err)
}

func errorStatus(err error) int {
	var upstream *httpclient.Error

	switch {
	case errors.Is(err, biz.ErrInvalidInput),
		errors.Is(err, media.ErrInvalidScope),
		errors.Is(err, media.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, biz.ErrInvalidPassword),
		errors.Is(err, biz.ErrInvalidJWT):
		return http.StatusUnauthorized
	case errors.Is(err, biz.ErrTeamNotFound),
		errors.Is(err, biz.ErrMatchNotFound),
		errors.Is(err, biz.ErrPaymentNotFound),
		errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, biz.ErrTeamNameTaken),
		errors.Is(err, biz.ErrMatchAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, payment.ErrNotConfigured),
		errors.Is(err, media.ErrNotConfigured),
		errors.Is(err, biz.ErrAdminNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream),
		errors.Is(err, payment.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
