package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
)

type CommentService struct {
	projects ProjectStore
	tasks    TaskStore
	comments CommentStore
	audit    *AuditService
	pub      Publisher
}

func NewCommentService(projects ProjectStore, tasks TaskStore, comments CommentStore, audit *AuditService, pub Publisher) *CommentService {
	return &CommentService{projects: projects, tasks: tasks, comments: comments, audit: audit, pub: pub}
}

func (s *CommentService) Create(ctx context.Context, actorID, taskID, message string) (*domain.Comment, error) {
	msg, err := domain.ValidateCommentMessage(message)
	if err != nil {
		return nil, err
	}

	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Comment{
		ID:        uuid.NewString(),
		Task:      t.ID,
		User:      domain.UserRef{ID: actorID},
		Message:   msg,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	created, err := s.comments.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("comment created", "comment_id", c.ID, "task_id", t.ID, "user_id", actorID)
	s.audit.LogComment(ctx, actorID, domain.AuditActionCommentCreate, t.Project, created)
	publish(s.pub, domain.EventCommentCreated, t.Project, created)
	return created, nil
}

// List returns the task's comments newest first with author name and email.
func (s *CommentService) List(ctx context.Context, actorID, taskID string) ([]*domain.Comment, error) {
	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, taskID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTask(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}

// Update is author-only. The project owner cannot edit a member's comment.
func (s *CommentService) Update(ctx context.Context, actorID, commentID, message string) (*domain.Comment, error) {
	msg, err := domain.ValidateCommentMessage(message)
	if err != nil {
		return nil, err
	}

	c, projectID, err := s.authoredComment(ctx, actorID, commentID, "update")
	if err != nil {
		return nil, err
	}

	c.Message = msg
	c.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	updated, err := s.comments.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	s.audit.LogComment(ctx, actorID, domain.AuditActionCommentUpdate, projectID, updated)
	publish(s.pub, domain.EventCommentUpdated, projectID, updated)
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	c, projectID, err := s.authoredComment(ctx, actorID, commentID, "delete")
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("comment deleted", "comment_id", c.ID, "task_id", c.Task, "user_id", actorID)
	s.audit.LogComment(ctx, actorID, domain.AuditActionCommentDelete, projectID, c)
	publish(s.pub, domain.EventCommentDeleted, projectID, map[string]string{"_id": c.ID, "task": c.Task})
	return nil
}

// authoredComment requires project access through the comment's task and then
// authorship. It returns the owning project id for events and audit.
func (s *CommentService) authoredComment(ctx context.Context, actorID, commentID, verb string) (*domain.Comment, string, error) {
	if err := requireActor(actorID); err != nil {
		return nil, "", err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, "", err
	}
	t, _, err := accessibleTask(ctx, s.projects, s.tasks, actorID, c.Task)
	if err != nil {
		return nil, "", err
	}
	if !c.IsAuthor(actorID) {
		return nil, "", domain.Forbidden("not authorized to %s this comment", verb)
	}
	return c, t.Project, nil
}
