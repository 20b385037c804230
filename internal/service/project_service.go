package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
)

type ProjectService struct {
	projects ProjectStore
	tasks    TaskStore
	audit    *AuditService
	pub      Publisher
}

func NewProjectService(projects ProjectStore, tasks TaskStore, audit *AuditService, pub Publisher) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, audit: audit, pub: pub}
}

// Create makes actor the owner. Members may include the owner; only blank and
// repeated ids are dropped.
func (s *ProjectService) Create(ctx context.Context, actorID string, in ProjectInput) (*domain.Project, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	name, err := domain.ValidateProjectName(in.Name)
	if err != nil {
		return nil, err
	}
	desc, err := domain.ValidateProjectDescription(in.Description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: desc,
		Owner:       domain.UserRef{ID: actorID},
		Members:     domain.MemberRefs(in.Members),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("project created", "project_id", p.ID, "user_id", actorID, "members", len(p.Members))
	s.audit.LogProject(ctx, actorID, domain.AuditActionProjectCreate, p)

	return s.projects.GetByID(ctx, p.ID)
}

func (s *ProjectService) Get(ctx context.Context, actorID, projectID string) (*domain.Project, error) {
	return accessibleProject(ctx, s.projects, actorID, projectID)
}

// List returns projects the actor owns or belongs to, newest first.
func (s *ProjectService) List(ctx context.Context, actorID string) ([]*domain.Project, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	projects, err := s.projects.ListForUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	return projects, nil
}

// Update is owner-only. Members holding access are still rejected.
func (s *ProjectService) Update(ctx context.Context, actorID, projectID string, patch ProjectPatch) (*domain.Project, error) {
	var name, desc string
	var err error
	if patch.Name != nil {
		if name, err = domain.ValidateProjectName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if desc, err = domain.ValidateProjectDescription(*patch.Description); err != nil {
			return nil, err
		}
	}

	p, err := s.ownedProject(ctx, actorID, projectID, "update")
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = desc
	}
	if patch.Members != nil {
		p.Members = domain.MemberRefs(*patch.Members)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	updated, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("project updated", "project_id", p.ID, "user_id", actorID)
	s.audit.LogProject(ctx, actorID, domain.AuditActionProjectUpdate, updated)
	publish(s.pub, domain.EventProjectUpdated, p.ID, updated)
	return updated, nil
}

// Delete is owner-only and removes the project's comments and tasks before the
// project itself.
func (s *ProjectService) Delete(ctx context.Context, actorID, projectID string) error {
	p, err := s.ownedProject(ctx, actorID, projectID, "delete")
	if err != nil {
		return err
	}

	if err := s.projects.DeleteCascade(ctx, p.ID); err != nil {
		logger.WithContext(ctx).Error("project cascade delete failed", "project_id", p.ID, "error", err)
		return err
	}

	logger.WithContext(ctx).Info("project deleted", "project_id", p.ID, "user_id", actorID)
	s.audit.LogProject(ctx, actorID, domain.AuditActionProjectDelete, p)
	publish(s.pub, domain.EventProjectDeleted, p.ID, nil)
	return nil
}

func (s *ProjectService) Analytics(ctx context.Context, actorID, projectID string) (domain.Analytics, error) {
	p, err := accessibleProject(ctx, s.projects, actorID, projectID)
	if err != nil {
		return domain.Analytics{}, err
	}

	byStatus, err := s.tasks.CountByStatus(ctx, p.ID)
	if err != nil {
		return domain.Analytics{}, err
	}
	byPriority, err := s.tasks.CountByPriority(ctx, p.ID)
	if err != nil {
		return domain.Analytics{}, err
	}
	return domain.NewAnalytics(byStatus, byPriority), nil
}

// Activity returns the project's most recent audit entries.
func (s *ProjectService) Activity(ctx context.Context, actorID, projectID string, limit int) ([]*domain.AuditLog, error) {
	p, err := accessibleProject(ctx, s.projects, actorID, projectID)
	if err != nil {
		return nil, err
	}
	return s.audit.GetProjectLogs(ctx, p.ID, limit)
}

func (s *ProjectService) ownedProject(ctx context.Context, actorID, projectID, verb string) (*domain.Project, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwner(actorID) {
		return nil, domain.Forbidden("only the project owner can %s this project", verb)
	}
	return p, nil
}
