package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

type contactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProjectType string `json:"projectType"`
	Message     string `json:"message"`
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	err := h.Contact.Submit(c.Request.Context(), domain.ContactMessage{
		Name:        req.Name,
		Email:       req.Email,
		ProjectType: req.ProjectType,
		Message:     req.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wire.Message{Message: "Message sent successfully"})
}
