package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

// Middleware rejects requests over budget with 429. The budget is kept per
// scope and client IP. Limiter failures let the request through.
func Middleware(l Limiter, scope string, logger logrus.FieldLogger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(l.Window().Seconds())))
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			logger.WithError(err).WithField("scope", scope).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, wire.ErrorBody{Message: domain.ErrRateLimited.Error()})
			return
		}
		c.Next()
	}
}
