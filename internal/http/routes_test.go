package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type api struct {
	t      *testing.T
	router *gin.Engine
	mem    *testutil.Memory
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("routes-secret", time.Hour)

	mem := testutil.NewMemory()
	h := handlers.NewHandlerWithStores(
		mem.Users(), mem.Projects(), mem.Tasks(), mem.Comments(),
		service.NewAuditService(mem.Audit()), nil,
	)
	cfg := &config.Config{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	}

	r := gin.New()
	RegisterRoutes(r, h, handlers.NewHealthHandler(pinger{}, "test"), ws.NewHub(), cfg)
	return &api{t: t, router: r, mem: mem}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func (a *api) register(name, email string) (id, token string) {
	a.t.Helper()
	code, env := a.do("POST", "/api/auth/register", "", gin.H{"name": name, "email": email, "password": "secret1"})
	if code != nethttp.StatusCreated || !env.Success {
		a.t.Fatalf("register %s: %d %s", email, code, env.Message)
	}
	var data struct {
		ID    string `json:"_id"`
		Token string `json:"token"`
	}
	decode(a.t, env.Data, &data)
	return data.ID, data.Token
}

func decode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
}

func TestAuthEndpoints(t *testing.T) {
	a := newAPI(t)
	_, token := a.register("Ada", "ada@example.com")

	code, env := a.do("POST", "/api/auth/register", "", gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret1"})
	if code != nethttp.StatusConflict || env.Success || env.Message == "" {
		t.Fatalf("expected 409 envelope, got %d %+v", code, env)
	}

	code, _ = a.do("POST", "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "nope123"})
	if code != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	code, _ = a.do("POST", "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret1"})
	if code != nethttp.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, env = a.do("GET", "/api/auth/me", token, nil)
	if code != nethttp.StatusOK {
		t.Fatalf("me: %d", code)
	}
	var me map[string]any
	decode(t, env.Data, &me)
	if me["email"] != "ada@example.com" {
		t.Fatalf("unexpected me payload %v", me)
	}
	if _, leaked := me["passwordHash"]; leaked {
		t.Fatalf("password hash leaked")
	}

	code, _ = a.do("GET", "/api/projects", "", nil)
	if code != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	code, _ = a.do("POST", "/api/auth/register", "", "{not json")
	if code != nethttp.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}
}

func TestProjectTaskCommentFlow(t *testing.T) {
	a := newAPI(t)
	_, owner := a.register("Olivia", "olivia@example.com")
	memberID, member := a.register("Mark", "mark@example.com")
	_, stranger := a.register("Sam", "sam@example.com")

	code, env := a.do("POST", "/api/projects", owner, gin.H{
		"name":        "Site Redesign",
		"description": "...",
		"members":     []string{memberID},
	})
	if code != nethttp.StatusCreated {
		t.Fatalf("create project: %d %s", code, env.Message)
	}
	var project struct {
		ID      string `json:"_id"`
		Owner   struct{ Name string }
		Members []struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		}
	}
	decode(t, env.Data, &project)
	if project.Owner.Name != "Olivia" || len(project.Members) != 1 || project.Members[0].Name != "Mark" {
		t.Fatalf("references not populated: %+v", project)
	}

	code, env = a.do("GET", "/api/projects", member, nil)
	if code != nethttp.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("member list: %d %+v", code, env)
	}

	code, _ = a.do("PUT", "/api/projects/"+project.ID, member, gin.H{"name": "Hijack"})
	if code != nethttp.StatusForbidden {
		t.Fatalf("member update: expected 403, got %d", code)
	}
	code, _ = a.do("GET", "/api/projects/nope", stranger, nil)
	if code != nethttp.StatusNotFound {
		t.Fatalf("missing project: expected 404, got %d", code)
	}
	code, _ = a.do("GET", "/api/projects/"+project.ID, stranger, nil)
	if code != nethttp.StatusForbidden {
		t.Fatalf("stranger get: expected 403, got %d", code)
	}

	tasksPath := "/api/tasks/projects/" + project.ID + "/tasks"
	code, env = a.do("POST", tasksPath, owner, gin.H{"title": "Design mockup", "dueDate": "2025-06-01"})
	if code != nethttp.StatusCreated {
		t.Fatalf("create task: %d %s", code, env.Message)
	}
	var task struct {
		ID         string  `json:"_id"`
		Status     string  `json:"status"`
		Priority   string  `json:"priority"`
		AssignedTo *string `json:"assignedTo"`
	}
	decode(t, env.Data, &task)
	if task.Status != "Todo" || task.Priority != "Medium" || task.AssignedTo != nil {
		t.Fatalf("unexpected task defaults: %+v", task)
	}

	code, env = a.do("POST", tasksPath, owner, gin.H{"title": "x", "dueDate": "2025-06-01", "assignedTo": "someone-else"})
	if code != nethttp.StatusBadRequest {
		t.Fatalf("foreign assignee: expected 400, got %d %s", code, env.Message)
	}

	code, _ = a.do("PATCH", "/api/tasks/"+task.ID+"/status", stranger, gin.H{"status": "Archived"})
	if code != nethttp.StatusBadRequest {
		t.Fatalf("invalid status: expected 400, got %d", code)
	}

	code, env = a.do("PATCH", "/api/tasks/"+task.ID+"/assign", owner, gin.H{"userId": memberID})
	if code != nethttp.StatusOK {
		t.Fatalf("assign: %d %s", code, env.Message)
	}
	var assigned struct {
		AssignedTo struct {
			ID    string `json:"_id"`
			Email string `json:"email"`
		} `json:"assignedTo"`
	}
	decode(t, env.Data, &assigned)
	if assigned.AssignedTo.ID != memberID || assigned.AssignedTo.Email != "mark@example.com" {
		t.Fatalf("unexpected assignee: %+v", assigned)
	}

	code, env = a.do("PATCH", "/api/tasks/"+task.ID+"/assign", owner, gin.H{"userId": nil})
	if code != nethttp.StatusOK || bytes.Contains(env.Data, []byte(memberID)) {
		t.Fatalf("unassign: %d %s", code, env.Data)
	}

	code, env = a.do("PATCH", "/api/tasks/"+task.ID+"/status", member, gin.H{"status": "Done"})
	if code != nethttp.StatusOK {
		t.Fatalf("status: %d %s", code, env.Message)
	}

	code, env = a.do("GET", "/api/projects/"+project.ID+"/analytics", owner, nil)
	if code != nethttp.StatusOK {
		t.Fatalf("analytics: %d", code)
	}
	var analytics struct {
		TotalTasks     int    `json:"totalTasks"`
		CompletedTasks int    `json:"completedTasks"`
		CompletionRate string `json:"completionRate"`
		TasksByStatus  []struct {
			ID    string `json:"_id"`
			Count int    `json:"count"`
		} `json:"tasksByStatus"`
	}
	decode(t, env.Data, &analytics)
	if analytics.TotalTasks != 1 || analytics.CompletedTasks != 1 || analytics.CompletionRate != "100.00%" {
		t.Fatalf("unexpected analytics %+v", analytics)
	}
	if len(analytics.TasksByStatus) != 1 || analytics.TasksByStatus[0].ID != "Done" {
		t.Fatalf("unexpected status groups %+v", analytics.TasksByStatus)
	}

	commentsPath := "/api/comments/tasks/" + task.ID + "/comments"
	code, env = a.do("POST", commentsPath, member, gin.H{"message": "on it"})
	if code != nethttp.StatusCreated {
		t.Fatalf("comment: %d %s", code, env.Message)
	}
	var comment struct {
		ID   string `json:"_id"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	decode(t, env.Data, &comment)
	if comment.User.Name != "Mark" {
		t.Fatalf("comment author not populated: %+v", comment)
	}

	code, _ = a.do("PUT", "/api/comments/"+comment.ID, owner, gin.H{"message": "owner edit"})
	if code != nethttp.StatusForbidden {
		t.Fatalf("owner editing member comment: expected 403, got %d", code)
	}
	code, _ = a.do("DELETE", "/api/comments/"+comment.ID, owner, nil)
	if code != nethttp.StatusForbidden {
		t.Fatalf("owner deleting member comment: expected 403, got %d", code)
	}

	code, env = a.do("GET", commentsPath, owner, nil)
	if code != nethttp.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list comments: %d %+v", code, env)
	}

	code, env = a.do("GET", "/api/projects/"+project.ID+"/activity", member, nil)
	if code != nethttp.StatusOK || env.Count == nil || *env.Count == 0 {
		t.Fatalf("activity: %d %+v", code, env)
	}

	code, _ = a.do("DELETE", "/api/projects/"+project.ID, member, nil)
	if code != nethttp.StatusForbidden {
		t.Fatalf("member delete: expected 403, got %d", code)
	}
	code, _ = a.do("DELETE", "/api/projects/"+project.ID, owner, nil)
	if code != nethttp.StatusOK {
		t.Fatalf("owner delete: %d", code)
	}
	if a.mem.TaskCount(project.ID) != 0 || a.mem.CommentCount(task.ID) != 0 {
		t.Fatalf("cascade left rows behind")
	}
	code, _ = a.do("GET", "/api/tasks/"+task.ID, owner, nil)
	if code != nethttp.StatusNotFound {
		t.Fatalf("deleted task: expected 404, got %d", code)
	}

}

func TestHealthEndpoints(t *testing.T) {
	a := newAPI(t)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	r := gin.New()
	RegisterRoutes(r, a.handler(), handlers.NewHealthHandler(pinger{err: errors.New("down")}, "test"), nil, &config.Config{
		APIRateLimit: 10, APIRateWindow: time.Minute, AuthRateLimit: 10, AuthRateWindow: time.Minute,
	})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != nethttp.StatusServiceUnavailable {
		t.Fatalf("readyz with db down: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/nowhere", nil))
	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
}

func (a *api) handler() *handlers.Handler {
	return handlers.NewHandlerWithStores(
		a.mem.Users(), a.mem.Projects(), a.mem.Tasks(), a.mem.Comments(),
		service.NewAuditService(a.mem.Audit()), nil,
	)
}
