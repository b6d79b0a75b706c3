package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	ping        func(ctx context.Context) error
}

func NewHealthHandler(serviceName, version string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		ping:        ping,
	}
}

// HealthCheck reports 503 while the record store does not answer a ping.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        "disabled",
	}
	if h.ping != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.ping(pingCtx); err != nil {
			resp.DB = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.DB = "up"
		}
	}

	c.JSON(status, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
