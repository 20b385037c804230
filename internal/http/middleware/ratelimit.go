package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit is the in-process fixed-window limiter used when Redis is
// not configured. Counters are per limiter, so route groups do not share them.
func SimpleRateLimit(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)

	return func(c *gin.Context) {
		key := clientKey(c)
		now := time.Now()

		mu.Lock()
		ci, ok := clients[key]
		if !ok || now.Sub(ci.start) > window {
			ci = &clientInfo{start: now}
			clients[key] = ci
		}
		ci.count++
		count := ci.count
		if len(clients) > 10000 {
			for k, v := range clients {
				if now.Sub(v.start) > window {
					delete(clients, k)
				}
			}
		}
		mu.Unlock()

		setLimitHeaders(c, maxRequests, int64(maxRequests-count))
		if count > maxRequests {
			RLBlocked.WithLabelValues(name).Inc()
			tooManyRequests(c, window)
			return
		}

		RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}
