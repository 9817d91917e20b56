package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"buyonline/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a fixed-window limiter keyed by client IP and shared across
// instances through Redis. When Redis is unreachable requests pass through.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if window < time.Second {
		window = time.Second
	}
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), bucket)

		ctx := c.Request.Context()
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter: redis unavailable, allowing request")
			c.Next()
			return
		}

		count := incr.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if remaining := int64(limit) - count; remaining > 0 {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		} else {
			c.Header("X-RateLimit-Remaining", "0")
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly", c.Request.URL.Path))
			return
		}
		c.Next()
	}
}
