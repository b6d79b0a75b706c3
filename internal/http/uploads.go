package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devfolio/internal/wire"
)

func (h *Handler) uploadImage(c *gin.Context) {
	if err := h.limitBody(c); err != nil {
		h.respondError(c, err)
		return
	}

	file, closeFile, err := h.formUpload(c, "image")
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer closeFile()
	if file == nil {
		c.JSON(http.StatusBadRequest, wire.ErrorBody{Message: "No file uploaded"})
		return
	}

	stored, err := h.Uploads.Store(c.Request.Context(), *file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.Upload{
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		Path:         stored.Path,
	})
}
