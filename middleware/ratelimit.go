package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/citasmedicas/medico-api/config"
	"github.com/citasmedicas/medico-api/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimit  = 30              // 30 requests
	defaultRateWindow = 1 * time.Minute // per minute
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter creates a rate limiting middleware
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path

		key := fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)

		allowed, err := checkRateLimit(key, cfg.Limit, cfg.Window)
		if err != nil {
			// If rate limiting fails, allow the request to prevent denial
			// of service due to Redis unavailability.
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventRateLimited,
				IP:        clientIP,
				Message:   fmt.Sprintf("Rate limit check failed: %v", err),
			})
			c.Next()
			return
		}

		if !allowed {
			util.LogRateLimitExceeded(clientIP, endpoint)

			util.CallUserError(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit checks if a request is within rate limits
// Returns true if allowed, false if rate limit exceeded
func checkRateLimit(key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		// Without Redis, allow the request.
		return true, nil
	}

	ctx := context.Background()

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}

// ResetRateLimit resets the rate limit for a given key (useful for testing or admin operations)
func ResetRateLimit(clientIP, endpoint string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return fmt.Errorf("redis not available")
	}

	key := fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
	ctx := context.Background()

	return rdb.Del(ctx, key).Err()
}
