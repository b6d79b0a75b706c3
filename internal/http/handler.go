package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devfolio/internal/ratelimit"
	"devfolio/internal/service"
	"devfolio/internal/storage"
)

// Deps collects everything the HTTP layer talks to.
type Deps struct {
	DevLogs  service.DevLogService
	Games    service.GameService
	Projects service.ProjectService
	Uploads  service.UploadService
	Contact  service.ContactService
	// Users is nil when admin auth is disabled; mutating routes are then open.
	Users service.UserService

	Files        storage.Store
	PublicPrefix string
	Ping         func(ctx context.Context) error
	// Limiter guards the contact form and login; nil disables rate limiting.
	Limiter ratelimit.Limiter

	ServiceName string
	Version     string
	Logger      logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.PublicPrefix == "" {
		deps.PublicPrefix = "/uploads"
	}
	deps.PublicPrefix = "/" + strings.Trim(deps.PublicPrefix, "/")
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Handler{Deps: deps}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	admin := h.requireAdmin()

	api := router.Group("/api")
	{
		h.registerPostRoutes(api.Group("/dev-logs"), admin, encodeDevLog)
		h.registerPostRoutes(api.Group("/blog-posts"), admin, encodeBlogPost)

		api.GET("/games", h.listGames)
		api.POST("/games", admin, h.createGame)
		api.DELETE("/games/:id", admin, h.deleteGame)

		api.GET("/projects", h.listProjects)
		api.POST("/projects", admin, h.createProject)

		api.POST("/upload", admin, h.uploadImage)
		api.POST("/contact", h.limit("contact"), h.submitContact)

		if h.Users != nil {
			api.POST("/auth/login", h.limit("login"), h.login)
		}
	}

	health := NewHealthHandler(h.ServiceName, h.Version, h.Ping)
	health.RegisterRoutes(api)
	router.GET("/healthz", health.HealthCheck)

	h.registerFileRoutes(router)
}

func (h *Handler) registerPostRoutes(g *gin.RouterGroup, admin gin.HandlerFunc, enc postEncoder) {
	g.GET("", h.listPosts(enc))
	g.GET("/:id", h.getPost(enc))
	g.POST("", admin, h.createPost(enc))
	g.PUT("/:id", admin, h.updatePost(enc))
	g.DELETE("/:id", admin, h.deletePost)
	g.POST("/:id/views", h.incrementViews)
}

func (h *Handler) registerFileRoutes(router *gin.Engine) {
	if h.Files == nil {
		return
	}
	if presigner, ok := h.Files.(storage.Presigner); ok {
		router.GET(h.PublicPrefix+"/:name", func(c *gin.Context) {
			name := storage.ValidName(c.Param("name"))
			if name == "" {
				c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
				return
			}
			url, err := presigner.GetObjectURL(c.Request.Context(), name, 15*time.Minute)
			if err != nil {
				h.respondError(c, err)
				return
			}
			c.Redirect(http.StatusFound, url)
		})
		return
	}
	if disk, ok := h.Files.(interface{ Dir() string }); ok {
		router.Static(h.PublicPrefix, disk.Dir())
	}
}

func (h *Handler) limit(scope string) gin.HandlerFunc {
	if h.Limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return ratelimit.Middleware(h.Limiter, scope, h.Logger)
}
