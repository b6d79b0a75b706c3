package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

type createProjectRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	ImageURL     *string  `json:"imageUrl"`
	Technologies []string `json:"technologies"`
	Platform     *string  `json:"platform"`
	Date         string   `json:"date" binding:"required"`
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.Projects.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]wire.Project, len(projects))
	for i := range projects {
		resp[i] = wire.FromProject(projects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	project, err := h.Projects.Create(c.Request.Context(), domain.ProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		Technologies: req.Technologies,
		Platform:     req.Platform,
		Date:         req.Date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wire.FromProject(*project))
}
