package handlers

import (
	"taskboard/internal/http/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Auth     *service.AuthService
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Comments *service.CommentService
}

// NewHandler wires the pgx repositories into the services. Board events go to pub.
func NewHandler(db *pgxpool.Pool, pub service.Publisher) *Handler {
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	comments := repository.NewCommentRepository(db)
	audit := service.NewAuditService(repository.NewAuditRepository(db))

	return NewHandlerWithStores(users, projects, tasks, comments, audit, pub)
}

// NewHandlerWithStores builds the handler over arbitrary store implementations.
func NewHandlerWithStores(
	users service.UserStore,
	projects service.ProjectStore,
	tasks service.TaskStore,
	comments service.CommentStore,
	audit *service.AuditService,
	pub service.Publisher,
) *Handler {
	return &Handler{
		Auth:     service.NewAuthService(users, audit),
		Projects: service.NewProjectService(projects, tasks, audit, pub),
		Tasks:    service.NewTaskService(projects, tasks, audit, pub),
		Comments: service.NewCommentService(projects, tasks, comments, audit, pub),
	}
}

// getUserID returns the id stored by the JWT middleware, or "".
func getUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
