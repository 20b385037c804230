package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

func TestRequestLoggerSetsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())

	var scoped bool
	r.GET("/x", func(c *gin.Context) {
		scoped = logger.WithContext(c.Request.Context()) != logger.Get()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected generated request id")
	}
	if !scoped {
		t.Fatal("expected request-scoped logger in context")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected propagated id, got %q", got)
	}
}
