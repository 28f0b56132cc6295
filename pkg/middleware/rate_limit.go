package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware allows limit requests per client IP and route within
// window. When Redis is unreachable requests are let through.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("rate_limit:%s:%s", route, c.ClientIP())

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("Rate limit check failed for %s: %v", key, err)
			c.Next()
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				log.Warn("Failed to set rate limit window for %s: %v", key, err)
			}
		}

		if count > int64(limit) {
			if ttl, err := redisClient.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
