package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
)

type TaskService struct {
	projects ProjectStore
	tasks    TaskStore
	audit    *AuditService
	pub      Publisher
}

func NewTaskService(projects ProjectStore, tasks TaskStore, audit *AuditService, pub Publisher) *TaskService {
	return &TaskService{projects: projects, tasks: tasks, audit: audit, pub: pub}
}

type taskFields struct {
	title, description string
	status             domain.Status
	priority           domain.Priority
	dueDate            time.Time
}

// Create validates the input before any lookup, then requires project access.
// An assignee must be the project owner or a member.
func (s *TaskService) Create(ctx context.Context, actorID, projectID string, in TaskInput) (*domain.Task, error) {
	f := taskFields{status: domain.StatusTodo, priority: domain.PriorityMedium}
	var err error
	if f.title, err = domain.ValidateTaskTitle(in.Title); err != nil {
		return nil, err
	}
	if f.description, err = domain.ValidateTaskDescription(in.Description); err != nil {
		return nil, err
	}
	if in.Status != "" {
		if f.status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.Priority != "" {
		if f.priority, err = domain.ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	if f.dueDate, err = domain.ParseDueDate(in.DueDate); err != nil {
		return nil, err
	}

	p, err := accessibleProject(ctx, s.projects, actorID, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       f.title,
		Description: f.description,
		Status:      f.status,
		Priority:    f.priority,
		DueDate:     f.dueDate,
		Project:     p.ID,
		CreatedBy:   domain.UserRef{ID: actorID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if id := in.AssignedTo.ID(); id != nil {
		if err := checkAssignee(*id, p); err != nil {
			return nil, err
		}
		t.AssignedTo = &domain.UserRef{ID: *id}
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	created, err := s.tasks.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("task created", "task_id", t.ID, "project_id", p.ID, "user_id", actorID)
	s.audit.LogTask(ctx, actorID, domain.AuditActionTaskCreate, created, nil)
	publish(s.pub, domain.EventTaskCreated, p.ID, created)
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	return t, err
}

// List returns the project's tasks newest first.
func (s *TaskService) List(ctx context.Context, actorID, projectID string) ([]*domain.Task, error) {
	p, err := accessibleProject(ctx, s.projects, actorID, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Update applies any subset of fields. The assignee check only runs when
// assignedTo is part of the patch, so a stale assignment survives other edits.
func (s *TaskService) Update(ctx context.Context, actorID, taskID string, patch TaskPatch) (*domain.Task, error) {
	var f taskFields
	var err error
	if patch.Title != nil {
		if f.title, err = domain.ValidateTaskTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if f.description, err = domain.ValidateTaskDescription(*patch.Description); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if f.status, err = domain.ParseStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.Priority != nil {
		if f.priority, err = domain.ParsePriority(*patch.Priority); err != nil {
			return nil, err
		}
	}
	if patch.DueDate != nil {
		if f.dueDate, err = domain.ParseDueDate(*patch.DueDate); err != nil {
			return nil, err
		}
	}

	t, p, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.AssignedTo.Set {
		if id := patch.AssignedTo.ID(); id != nil {
			if err := checkAssignee(*id, p); err != nil {
				return nil, err
			}
			t.AssignedTo = &domain.UserRef{ID: *id}
		} else {
			t.AssignedTo = nil
		}
	}
	if patch.Title != nil {
		t.Title = f.title
	}
	if patch.Description != nil {
		t.Description = f.description
	}
	if patch.Status != nil {
		t.Status = f.status
	}
	if patch.Priority != nil {
		t.Priority = f.priority
	}
	if patch.DueDate != nil {
		t.DueDate = f.dueDate
	}

	return s.save(ctx, actorID, t, domain.AuditActionTaskUpdate, nil)
}

// UpdateStatus rejects an unknown status before the task is even looked up.
func (s *TaskService) UpdateStatus(ctx context.Context, actorID, taskID, status string) (*domain.Task, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return nil, err
	}

	from := t.Status
	t.Status = st
	return s.save(ctx, actorID, t, domain.AuditActionTaskStatus, map[string]interface{}{
		"from": string(from),
		"to":   string(st),
	})
}

// Assign sets the assignee, or clears it when userID is nil or empty.
func (s *TaskService) Assign(ctx context.Context, actorID, taskID string, userID *string) (*domain.Task, error) {
	t, p, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if userID == nil || *userID == "" {
		t.AssignedTo = nil
	} else {
		if err := checkAssignee(*userID, p); err != nil {
			return nil, err
		}
		t.AssignedTo = &domain.UserRef{ID: *userID}
	}

	return s.save(ctx, actorID, t, domain.AuditActionTaskAssign, map[string]interface{}{
		"assigned_to": t.AssigneeID(),
	})
}

// Delete removes the task together with its comments.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID string) error {
	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteCascade(ctx, t.ID); err != nil {
		logger.WithContext(ctx).Error("task cascade delete failed", "task_id", t.ID, "error", err)
		return err
	}

	logger.WithContext(ctx).Info("task deleted", "task_id", t.ID, "project_id", t.Project, "user_id", actorID)
	s.audit.LogTask(ctx, actorID, domain.AuditActionTaskDelete, t, nil)
	publish(s.pub, domain.EventTaskDeleted, t.Project, map[string]string{"_id": t.ID})
	return nil
}

func (s *TaskService) save(ctx context.Context, actorID string, t *domain.Task, action string, details map[string]interface{}) (*domain.Task, error) {
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	updated, err := s.tasks.GetByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Debug("task updated", "task_id", t.ID, "action", action, "user_id", actorID)
	s.audit.LogTask(ctx, actorID, action, updated, details)
	publish(s.pub, domain.EventTaskUpdated, updated.Project, updated)
	return updated, nil
}

func checkAssignee(userID string, p *domain.Project) error {
	if !domain.CanAccess(userID, p) {
		return domain.Invalid("assigned user must be the project owner or a member")
	}
	return nil
}
