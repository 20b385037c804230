package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// If addr is empty or the ping fails, redisClient stays nil and RateLimit falls
// back to the in-process limiter.
func InitRedisRateLimiter(addr, password string, db int) bool {
	redisClient = nil
	if addr == "" {
		return false
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", "addr", addr, "error", err)
		_ = client.Close()
		return false
	}
	redisClient = client
	return true
}

// RateLimit picks the Redis limiter when Redis is configured and the in-memory
// one otherwise. name separates the counters of different route groups.
func RateLimit(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient != nil {
		return RedisRateLimit(name, maxRequests, window)
	}
	return SimpleRateLimit(name, maxRequests, window)
}

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<name>:<window_seconds>:<identifier>
func RedisRateLimit(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + name + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + clientKey(c)
		ctx := c.Request.Context()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		setLimitHeaders(c, maxRequests, int64(maxRequests)-val)
		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(name).Inc()
			tooManyRequests(c, window)
			return
		}

		RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}

// clientKey prefers the authenticated user and falls back to the client IP.
func clientKey(c *gin.Context) string {
	if uid := c.GetString(ContextUserID); uid != "" {
		return "u:" + uid
	}
	return "ip:" + c.ClientIP()
}

func setLimitHeaders(c *gin.Context, limit int, remaining int64) {
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
}

func tooManyRequests(c *gin.Context, window time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"message": "too many requests, please try again later",
	})
}

// RedisPing returns a ping for the shared limiter client, or nil when the
// in-memory limiter is in use.
func RedisPing() func(ctx context.Context) error {
	client := redisClient
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
