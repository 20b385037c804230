package domain

import (
	"strings"
	"time"
)

const (
	MaxTaskTitleLen       = 100
	MaxTaskDescriptionLen = 1000
)

// Status is the Kanban column of a task.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus accepts the wire values plus "InProgress" without the space.
func ParseStatus(s string) (Status, error) {
	switch strings.TrimSpace(s) {
	case "Todo":
		return StatusTodo, nil
	case "In Progress", "InProgress":
		return StatusInProgress, nil
	case "Done":
		return StatusDone, nil
	}
	return "", Invalid("please provide a valid status (Todo, In Progress, Done)")
}

func (s Status) Pending() bool {
	return s == StatusTodo || s == StatusInProgress
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", Invalid("please provide a valid priority (Low, Medium, High, Critical)")
}

// Task belongs to exactly one project for its whole life. AssignedTo is
// validated against the project's access set only when it is written; a member
// removed later may remain assigned.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	AssignedTo  *UserRef  `json:"assignedTo"`
	Project     string    `json:"project"`
	CreatedBy   UserRef   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) AssigneeID() string {
	if t.AssignedTo == nil {
		return ""
	}
	return t.AssignedTo.ID
}

var dueDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", time.DateOnly}

// ParseDueDate accepts a calendar date ("2025-06-01") or an RFC 3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Invalid("please provide a due date")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Invalid("due date %q is not a valid date", s)
}

func ValidateTaskTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", Invalid("please provide a task title")
	}
	if len([]rune(title)) > MaxTaskTitleLen {
		return "", Invalid("task title cannot be more than %d characters", MaxTaskTitleLen)
	}
	return title, nil
}

func ValidateTaskDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if len([]rune(desc)) > MaxTaskDescriptionLen {
		return "", Invalid("description cannot be more than %d characters", MaxTaskDescriptionLen)
	}
	return desc, nil
}
