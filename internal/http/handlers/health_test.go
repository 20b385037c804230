package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func readiness(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var body HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, body
}

func TestReadinessOptionalDependencyDegrades(t *testing.T) {
	h := NewHealthHandler(stubPinger{}, "v1").
		WithCheck("redis", func(context.Context) error { return errors.New("refused") }, false)

	code, body := readiness(t, h)
	if code != http.StatusOK || body.Status != "degraded" {
		t.Fatalf("got %d %q", code, body.Status)
	}
	if body.Checks["database"] != "healthy" || body.Checks["redis"] != "unhealthy: refused" {
		t.Fatalf("unexpected checks: %v", body.Checks)
	}
}

func TestReadinessRequiredDependencyFails(t *testing.T) {
	code, body := readiness(t, NewHealthHandler(stubPinger{err: errors.New("down")}, "v1"))
	if code != http.StatusServiceUnavailable || body.Status != "unhealthy" {
		t.Fatalf("got %d %q", code, body.Status)
	}
	if body.Version != "v1" {
		t.Fatalf("version: %q", body.Version)
	}
}
