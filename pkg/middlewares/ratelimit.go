package middleware

import (
	"net/http"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests once the limiter is exhausted. A nil limiter
// disables the gate entirely.
func RateLimit(limiter *pkg.DistributedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, pkg.ErrorResponse{
				Code:    "APP_RATE_LIMITED",
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}
