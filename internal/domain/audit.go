package domain

import "time"

// AuditLog represents an activity entry for a lifecycle mutation
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    string                 `db:"user_id" json:"userId"`
	ProjectID string                 `db:"project_id" json:"projectId"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"createdAt"`
}

// Audit categories
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryProject = "project"
	AuditCategoryTask    = "task"
	AuditCategoryComment = "comment"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"

	AuditActionProjectCreate = "project_create"
	AuditActionProjectUpdate = "project_update"
	AuditActionProjectDelete = "project_delete"

	AuditActionTaskCreate = "task_create"
	AuditActionTaskUpdate = "task_update"
	AuditActionTaskStatus = "task_status"
	AuditActionTaskAssign = "task_assign"
	AuditActionTaskDelete = "task_delete"

	AuditActionCommentCreate = "comment_create"
	AuditActionCommentUpdate = "comment_update"
	AuditActionCommentDelete = "comment_delete"
)
