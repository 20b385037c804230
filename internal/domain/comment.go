package domain

import (
	"strings"
	"time"
)

const MaxCommentLen = 500

// Comment is owned by one task and authored by one user. Only the author may
// change or remove it.
type Comment struct {
	ID        string    `json:"_id"`
	Task      string    `json:"task"`
	User      UserRef   `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) IsAuthor(userID string) bool {
	return c != nil && userID != "" && c.User.ID == userID
}

func ValidateCommentMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", Invalid("please provide a comment message")
	}
	if len([]rune(msg)) > MaxCommentLen {
		return "", Invalid("comment cannot be more than %d characters", MaxCommentLen)
	}
	return msg, nil
}
