package service

import (
	"context"

	"taskboard/internal/domain"
)

func requireActor(actorID string) error {
	if actorID == "" {
		return domain.Unauthenticated("not authorized to access this route")
	}
	return nil
}

// accessibleProject loads the project and applies domain.CanAccess. A missing
// project is reported as not found before any access decision is made.
func accessibleProject(ctx context.Context, projects ProjectStore, actorID, projectID string) (*domain.Project, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	p, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actorID, p) {
		return nil, domain.Forbidden("not authorized to access this project")
	}
	return p, nil
}

// accessibleTask resolves the task and its owning project, then applies the
// same project-level check.
func accessibleTask(ctx context.Context, projects ProjectStore, tasks TaskStore, actorID, taskID string) (*domain.Task, *domain.Project, error) {
	if err := requireActor(actorID); err != nil {
		return nil, nil, err
	}
	t, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	p, err := projects.GetByID(ctx, t.Project)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanAccess(actorID, p) {
		return nil, nil, domain.Forbidden("not authorized to access this task")
	}
	return t, p, nil
}
