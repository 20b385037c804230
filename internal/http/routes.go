package http

import (
	nethttp "net/http"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts health probes, the REST API and, when hub is non-nil,
// the live board socket.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg *config.Config) {
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// Health checks (no rate limiting)
	if health != nil {
		r.GET("/health", health.Health)
		r.GET("/healthz", health.Liveness)
		r.GET("/readyz", health.Readiness)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))

	authRL := middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.GET("/me", middleware.JWT(), h.Me)
	}

	projects := api.Group("/projects", middleware.JWT())
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.GET("/:id/analytics", h.ProjectAnalytics)
		projects.GET("/:id/activity", h.ProjectActivity)
	}

	tasks := api.Group("/tasks", middleware.JWT())
	{
		tasks.GET("/projects/:projectId/tasks", h.ListTasks)
		tasks.POST("/projects/:projectId/tasks", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.PATCH("/:id/status", h.UpdateTaskStatus)
		tasks.PATCH("/:id/assign", h.AssignTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	comments := api.Group("/comments", middleware.JWT())
	{
		comments.GET("/tasks/:taskId/comments", h.ListComments)
		comments.POST("/tasks/:taskId/comments", h.CreateComment)
		comments.PUT("/:id", h.UpdateComment)
		comments.DELETE("/:id", h.DeleteComment)
	}

	if hub != nil {
		r.GET("/ws/projects/:id", ws.HandleWS(hub, h.Projects, cfg.AllowedOrigins))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(nethttp.StatusNotFound, gin.H{"success": false, "message": "route not found"})
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
