package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

const defaultActivityLimit = 50

// AuditService handles activity logging
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Failures are logged and never returned,
// so an unavailable audit table cannot fail the mutation that triggered it.
func (s *AuditService) Log(ctx context.Context, userID, projectID, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	log := &domain.AuditLog{
		UserID:    userID,
		ProjectID: projectID,
		Action:    action,
		Category:  category,
		Details:   details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogProject logs a project lifecycle action
func (s *AuditService) LogProject(ctx context.Context, userID, action string, p *domain.Project) {
	s.Log(ctx, userID, p.ID, action, domain.AuditCategoryProject, map[string]interface{}{
		"name": p.Name,
	})
}

// LogTask logs a task lifecycle action
func (s *AuditService) LogTask(ctx context.Context, userID, action string, t *domain.Task, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["task_id"] = t.ID
	details["title"] = t.Title

	s.Log(ctx, userID, t.Project, action, domain.AuditCategoryTask, details)
}

// LogComment logs a comment lifecycle action
func (s *AuditService) LogComment(ctx context.Context, userID, action, projectID string, c *domain.Comment) {
	s.Log(ctx, userID, projectID, action, domain.AuditCategoryComment, map[string]interface{}{
		"comment_id": c.ID,
		"task_id":    c.Task,
	})
}

// LogAuth logs a registration or login
func (s *AuditService) LogAuth(ctx context.Context, userID, action string) {
	s.Log(ctx, userID, "", action, domain.AuditCategoryAuth, nil)
}

// GetProjectLogs returns the most recent entries for a project
func (s *AuditService) GetProjectLogs(ctx context.Context, projectID string, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []*domain.AuditLog{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = defaultActivityLimit
	}
	return s.repo.GetByProject(ctx, projectID, limit)
}
