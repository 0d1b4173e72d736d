package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/build"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/server/db"
)

type SystemHandlersParams struct {
	fx.In

	Store *db.Store
}

func NewSystemHandlers(params SystemHandlersParams) *SystemHandlers {
	return &SystemHandlers{
		Store: params.Store,
	}
}

type SystemHandlers struct {
	Store *db.Store
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health reports whether the database answers.
func (h *SystemHandlers) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		log.Warn(c.Request.Context(), "health check failed", log.Cause(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Version: build.Version})

		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: build.Version})
}

func (h *SystemHandlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, build.GetBuildInfo())
}
