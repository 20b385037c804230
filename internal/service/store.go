package service

import (
	"context"

	"taskboard/internal/domain"
)

// The stores below are implemented by the pgx repositories and, in tests, by
// the in-memory stores in internal/testutil.

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	DeleteCascade(ctx context.Context, id string) error
}

type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	DeleteCascade(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, projectID string) ([]domain.GroupCount, error)
	CountByPriority(ctx context.Context, projectID string) ([]domain.GroupCount, error)
}

type CommentStore interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByProject(ctx context.Context, projectID string, limit int) ([]*domain.AuditLog, error)
}

// Publisher fans board events out to live subscribers. Publish must not block.
type Publisher interface {
	Publish(ev domain.Event)
}

func publish(pub Publisher, typ, projectID string, data any) {
	if pub == nil {
		return
	}
	pub.Publish(domain.Event{Type: typ, ProjectID: projectID, Data: data})
}
