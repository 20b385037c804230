package domain

// Board event types pushed to live subscribers of a project.
const (
	EventProjectUpdated = "project.updated"
	EventProjectDeleted = "project.deleted"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
)

type Event struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
	Data      any    `json:"data,omitempty"`
}
