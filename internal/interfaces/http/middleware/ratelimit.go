package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/infrastructure/ratelimit"
	"github.com/pixamint/pixamint/internal/shared/constants"
	"github.com/pixamint/pixamint/internal/shared/logger"
	"github.com/pixamint/pixamint/internal/shared/utils"
)

// RateLimit enforces the limiter for the key each request resolves to. A
// nil limiter disables the middleware, and limiter errors fail open so a
// Redis outage does not take the API down with it.
func RateLimit(limiter ratelimit.Limiter, cfg ratelimit.Config, keyFn func(*gin.Context) string, log logger.Interface) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := keyFn(c)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err, "key", key)
			c.Next()
			return
		}
		if !allowed {
			log.Debugw("rate limit exceeded", "key", key, "path", c.FullPath())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClientIPKey keys the limit per caller address, for unauthenticated
// surfaces.
func ClientIPKey(scope string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
	}
}

// UserKey keys the limit per authenticated account, falling back to the
// caller address when the route runs before authentication.
func UserKey(scope string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			return fmt.Sprintf("%s:user:%v", scope, userID)
		}
		return fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
	}
}
