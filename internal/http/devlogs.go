package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

// postEncoder picks the wire shape of a dev log: snake_case under
// /api/dev-logs, camelCase under /api/blog-posts.
type postEncoder func(domain.DevLog) any

func encodeDevLog(d domain.DevLog) any   { return wire.FromDevLog(d) }
func encodeBlogPost(d domain.DevLog) any { return wire.FromBlogPost(d) }

func (h *Handler) listPosts(enc postEncoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseDevLogFilter(c)
		if err != nil {
			h.respondError(c, err)
			return
		}

		posts, err := h.DevLogs.List(c.Request.Context(), filter)
		if err != nil {
			h.respondError(c, err)
			return
		}

		resp := make([]any, len(posts))
		for i := range posts {
			resp[i] = enc(posts[i])
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *Handler) getPost(enc postEncoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := h.DevLogs.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, enc(*post))
	}
}

func (h *Handler) createPost(enc postEncoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.DevLogCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, bindError(err))
			return
		}

		post, err := h.DevLogs.Create(c.Request.Context(), req.Input())
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, enc(*post))
	}
}

func (h *Handler) updatePost(enc postEncoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.DevLogUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, bindError(err))
			return
		}

		post, err := h.DevLogs.Update(c.Request.Context(), c.Param("id"), req.Patch())
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, enc(*post))
	}
}

func (h *Handler) deletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.DevLogs.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.Message{Message: "dev log deleted", ID: id})
}

func (h *Handler) incrementViews(c *gin.Context) {
	views, err := h.DevLogs.IncrementViews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.Message{Message: "views incremented", Views: &views})
}

// parseDevLogFilter reads category, tags and search from the query string.
// tags is a JSON array; a plain comma separated list is accepted too.
func parseDevLogFilter(c *gin.Context) (domain.DevLogFilter, error) {
	filter := domain.DevLogFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	raw := strings.TrimSpace(c.Query("tags"))
	switch {
	case raw == "":
	case strings.HasPrefix(raw, "["):
		if err := json.Unmarshal([]byte(raw), &filter.Tags); err != nil {
			verr := &domain.ValidationError{}
			verr.Add("tags", "tags must be a JSON array of strings")
			return filter, verr
		}
	default:
		filter.Tags = strings.Split(raw, ",")
	}
	return filter, nil
}
