package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/server/biz"
)

const (
	headerFileName = "x-file-name"
	headerScope    = "x-scope"
)

type MediaHandlersParams struct {
	fx.In

	MediaService *biz.MediaService
}

func NewMediaHandlers(params MediaHandlersParams) *MediaHandlers {
	return &MediaHandlers{
		MediaService: params.MediaService,
	}
}

type MediaHandlers struct {
	MediaService *biz.MediaService
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload stores the raw request body. The file name arrives URL encoded in
// x-file-name and the scope in x-scope.
func (h *MediaHandlers) Upload(c *gin.Context) {
	name, err := media.DecodeFileName(c.GetHeader(headerFileName))
	if err != nil || name == "" {
		JSONError(c, http.StatusBadRequest, media.ErrInvalidName)
		return
	}

	url, err := h.MediaService.Upload(c.Request.Context(), c.GetHeader(headerScope), name, c.Request.Body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{URL: url})
}

func (h *MediaHandlers) Serve(c *gin.Context) {
	file, info, err := h.MediaService.Open(c.Request.Context(), c.Param("scope"), c.Param("file"))
	if err != nil {
		handleError(c, err)
		return
	}

	defer func() {
		if err := file.Close(); err != nil {
			log.Warn(c.Request.Context(), "failed to close media file", log.Cause(err))
		}
	}()

	c.Header("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}
