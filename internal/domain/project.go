package domain

import (
	"strings"
	"time"
)

const (
	MaxProjectNameLen        = 100
	MaxProjectDescriptionLen = 500
)

// Project owns its membership list. The owner is never reassigned and its
// access is derived from Owner, not from Members. An owner that also appears in
// Members is tolerated.
type Project struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       UserRef   `json:"owner"`
	Members     []UserRef `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CanAccess reports whether userID is the owner of p or one of its members.
// Every project, task and comment operation other than project creation is
// gated by this predicate.
func CanAccess(userID string, p *Project) bool {
	if p == nil || userID == "" {
		return false
	}
	if p.Owner.ID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func (p *Project) IsOwner(userID string) bool {
	return p != nil && userID != "" && p.Owner.ID == userID
}

func (p *Project) MemberIDs() []string {
	ids := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// MemberRefs builds unpopulated member references from ids, dropping blanks
// and repeated ids while keeping the first-seen order.
func MemberRefs(ids []string) []UserRef {
	refs := make([]UserRef, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		refs = append(refs, UserRef{ID: id})
	}
	return refs
}

func ValidateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("please provide a project name")
	}
	if len([]rune(name)) > MaxProjectNameLen {
		return "", Invalid("project name cannot be more than %d characters", MaxProjectNameLen)
	}
	return name, nil
}

func ValidateProjectDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if len([]rune(desc)) > MaxProjectDescriptionLen {
		return "", Invalid("description cannot be more than %d characters", MaxProjectDescriptionLen)
	}
	return desc, nil
}
