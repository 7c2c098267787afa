package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/ratelimit"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

// RateLimit gates a route group with the fixed-window counter for the given
// kind, keyed by client IP. The limit and remaining count are always exposed
// through the response headers, including on denial.
func RateLimit(limiter *ratelimit.Limiter, kind ratelimit.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Check(c.Request.Context(), c.ClientIP(), kind)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, err, "Rate limit check failed")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

		if !result.Allowed {
			responses.Error(c, http.StatusTooManyRequests, nil, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
