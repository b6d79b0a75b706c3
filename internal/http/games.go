package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devfolio/internal/domain"
	"devfolio/internal/service"
	"devfolio/internal/wire"
)

// multipartSlack leaves room for form fields and part headers next to a
// file at the size ceiling.
const multipartSlack int64 = 1 << 20

func (h *Handler) listGames(c *gin.Context) {
	games, err := h.Games.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]wire.Game, len(games))
	for i := range games {
		resp[i] = wire.FromGame(games[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createGame(c *gin.Context) {
	if err := h.limitBody(c); err != nil {
		h.respondError(c, err)
		return
	}

	build, closeFile, err := h.formUpload(c, "buildFile")
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer closeFile()

	in := domain.GameInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}
	if thumb := strings.TrimSpace(c.PostForm("thumbnailUrl")); thumb != "" {
		in.ThumbnailURL = &thumb
	}

	game, err := h.Games.Create(c.Request.Context(), in, build)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wire.FromGame(*game))
}

func (h *Handler) deleteGame(c *gin.Context) {
	id := c.Param("id")
	warnings, err := h.Games.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(warnings) > 0 {
		h.Logger.WithField("game_id", id).Warnf("game file cleanup: %s", strings.Join(warnings, "; "))
	}
	c.JSON(http.StatusOK, wire.Message{Message: "game deleted", ID: id, Warnings: warnings})
}

// limitBody rejects a declared oversize body up front and caps what multipart
// parsing may read.
func (h *Handler) limitBody(c *gin.Context) error {
	ceiling := h.Uploads.MaxBytes()
	if c.Request.ContentLength > ceiling+multipartSlack {
		return &domain.SizeLimitError{Limit: ceiling, Size: c.Request.ContentLength}
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ceiling+multipartSlack)
	return nil
}

// formUpload opens the file part named field. A missing part yields a nil
// upload and no error.
func (h *Handler) formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		var merr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile):
			return nil, noop, nil
		case errors.As(err, &merr), strings.Contains(err.Error(), "request body too large"):
			return nil, noop, &domain.SizeLimitError{Limit: h.Uploads.MaxBytes()}
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, multipart.ErrMessageTooLarge):
			verr := &domain.ValidationError{}
			verr.Add(field, err.Error())
			return nil, noop, verr
		default:
			verr := &domain.ValidationError{}
			verr.Add(field, "malformed multipart body: "+err.Error())
			return nil, noop, verr
		}
	}
	if fh.Size > h.Uploads.MaxBytes() {
		return nil, noop, &domain.SizeLimitError{Limit: h.Uploads.MaxBytes(), Size: fh.Size}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, domain.Upstream("open uploaded file", err)
	}
	return &service.Upload{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		ContentType:  fh.Header.Get("Content-Type"),
		Body:         f,
	}, func() { f.Close() }, nil
}
