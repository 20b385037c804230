package ws

import (
	"encoding/json"
	"sync"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// Hub tracks live board subscribers per project and fans events out to them.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[c.ProjectID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subs[c.ProjectID] = set
	}
	set[c] = struct{}{}
	logger.Debug("board subscriber joined", "project_id", c.ProjectID, "user_id", c.UserID, "subscribers", len(set))
}

// Unsubscribe removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.subs[c.ProjectID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.subs, c.ProjectID)
	}
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
// A project.deleted event also disconnects everyone watching that project, and
// a project.updated event disconnects subscribers who lost access.
func (h *Hub) Publish(ev domain.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode board event", "type", ev.Type, "error", err)
		return
	}

	if ev.Type == domain.EventProjectUpdated {
		if p, ok := ev.Data.(*domain.Project); ok {
			h.Revoke(ev.ProjectID, func(userID string) bool { return domain.CanAccess(userID, p) })
		}
	}

	if ev.Type == domain.EventProjectDeleted {
		h.mu.Lock()
		defer h.mu.Unlock()
		for c := range h.subs[ev.ProjectID] {
			c.enqueue(msg)
			h.removeLocked(c)
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subs[ev.ProjectID] {
		c.enqueue(msg)
	}
}

// Revoke disconnects every subscriber of projectID for which keep reports false.
// Revoked clients receive nothing further.
func (h *Hub) Revoke(projectID string, keep func(userID string) bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for c := range h.subs[projectID] {
		if keep(c.UserID) {
			continue
		}
		h.removeLocked(c)
		n++
		logger.Info("board subscriber revoked", "project_id", projectID, "user_id", c.UserID)
	}
	return n
}

// Subscribers returns how many clients watch projectID.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[projectID])
}
