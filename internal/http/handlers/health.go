package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	ping     func(ctx context.Context) error
	required bool
}

// HealthHandler serves the liveness and readiness probes. The database is
// always a required dependency; others are added with WithCheck.
type HealthHandler struct {
	deps      []dependency
	startTime time.Time
	version   string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		deps:      []dependency{{name: "database", ping: db.Ping, required: true}},
		startTime: time.Now(),
		version:   version,
	}
}

// WithCheck adds a dependency to the readiness report. A failing optional
// dependency degrades the status but keeps the probe at 200.
func (h *HealthHandler) WithCheck(name string, ping func(ctx context.Context) error, required bool) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, ping: ping, required: required})
	return h
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness answers as long as the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings every dependency and reports runtime stats.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, status := h.probe(ctx)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024)
	checks["goroutines"] = fmt.Sprint(runtime.NumGoroutine())

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is the short form of Readiness without runtime stats.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	_, status := h.probe(ctx)
	if status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": status, "version": h.version})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "version": h.version})
}

func (h *HealthHandler) probe(ctx context.Context) (map[string]string, string) {
	checks := make(map[string]string, len(h.deps)+2)
	status := "ok"
	for _, d := range h.deps {
		if err := d.ping(ctx); err != nil {
			checks[d.name] = "unhealthy: " + err.Error()
			if d.required {
				status = "unhealthy"
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		checks[d.name] = "healthy"
	}
	return checks, status
}
