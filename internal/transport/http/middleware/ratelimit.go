package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/metrics"
	"github.com/invoiceb2b/financing-api/internal/ratelimit"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
)

// RateLimit bounds attempts per client IP. A limiter outage fails open:
// login availability must not depend on redis.
func RateLimit(limiter ratelimit.Limiter, rsp *respond.Responder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), "login:"+c.ClientIP())
		if err != nil {
			logger.WarnContext(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitedTotal.Inc()
			rsp.Error(c, apperror.New(apperror.KindRateLimit, "Too many attempts. Try again later."))
			return
		}
		c.Next()
	}
}
