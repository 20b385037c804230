// Package testutil provides in-memory stores with the same contracts as the
// pgx repositories, for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard/internal/domain"
)

// Memory holds every entity behind one mutex. Reads return copies with user
// references populated from the users table, the way the SQL joins do.
type Memory struct {
	mu       sync.Mutex
	users    []*domain.User
	projects []*domain.Project
	tasks    []*domain.Task
	comments []*domain.Comment
	audit    []*domain.AuditLog
	auditSeq int64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Users() *UserStore       { return &UserStore{m} }
func (m *Memory) Projects() *ProjectStore { return &ProjectStore{m} }
func (m *Memory) Tasks() *TaskStore       { return &TaskStore{m} }
func (m *Memory) Comments() *CommentStore { return &CommentStore{m} }
func (m *Memory) Audit() *AuditStore      { return &AuditStore{m} }

// TaskCount returns how many tasks reference projectID.
func (m *Memory) TaskCount(projectID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.Project == projectID {
			n++
		}
	}
	return n
}

// CommentCount returns how many comments reference taskID.
func (m *Memory) CommentCount(taskID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.comments {
		if c.Task == taskID {
			n++
		}
	}
	return n
}

// AddUser stores u directly, bypassing registration.
func (m *Memory) AddUser(id, name, email string) *domain.User {
	u := &domain.User{ID: id, Name: name, Email: email, Role: domain.DefaultRole, CreatedAt: time.Now().UTC()}
	m.mu.Lock()
	m.users = append(m.users, u)
	m.mu.Unlock()
	return u
}

func (m *Memory) ref(id string) domain.UserRef {
	for _, u := range m.users {
		if u.ID == id {
			return u.Ref()
		}
	}
	return domain.UserRef{ID: id}
}

func (m *Memory) populateProject(p *domain.Project) *domain.Project {
	cp := *p
	cp.Owner = m.ref(p.Owner.ID)
	cp.Members = make([]domain.UserRef, 0, len(p.Members))
	for _, mem := range p.Members {
		cp.Members = append(cp.Members, m.ref(mem.ID))
	}
	return &cp
}

func (m *Memory) populateTask(t *domain.Task) *domain.Task {
	cp := *t
	cp.CreatedBy = m.ref(t.CreatedBy.ID)
	if t.AssignedTo != nil {
		a := m.ref(t.AssignedTo.ID)
		cp.AssignedTo = &a
	}
	return &cp
}

func (m *Memory) populateComment(c *domain.Comment) *domain.Comment {
	cp := *c
	cp.User = m.ref(c.User.ID)
	return &cp
}

// newestFirst orders by creation time descending; ties go to the later insert.
func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return createdAt(out[i]).After(createdAt(out[j])) })
	return out
}

type UserStore struct{ m *Memory }

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return domain.Conflict("user already exists")
		}
	}
	cp := *u
	s.m.users = append(s.m.users, &cp)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("user not found")
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("user not found")
}

type ProjectStore struct{ m *Memory }

func (s *ProjectStore) Create(_ context.Context, p *domain.Project) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *p
	cp.Members = append([]domain.UserRef(nil), p.Members...)
	s.m.projects = append(s.m.projects, &cp)
	return nil
}

func (s *ProjectStore) GetByID(_ context.Context, id string) (*domain.Project, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, p := range s.m.projects {
		if p.ID == id {
			return s.m.populateProject(p), nil
		}
	}
	return nil, domain.NotFound("project not found")
}

func (s *ProjectStore) ListForUser(_ context.Context, userID string) ([]*domain.Project, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var res []*domain.Project
	for _, p := range newestFirst(s.m.projects, func(p *domain.Project) time.Time { return p.CreatedAt }) {
		if domain.CanAccess(userID, p) {
			res = append(res, s.m.populateProject(p))
		}
	}
	return res, nil
}

func (s *ProjectStore) Update(_ context.Context, p *domain.Project) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.projects {
		if existing.ID == p.ID {
			existing.Name = p.Name
			existing.Description = p.Description
			existing.Members = append([]domain.UserRef(nil), p.Members...)
			existing.UpdatedAt = p.UpdatedAt
			return nil
		}
	}
	return domain.NotFound("project not found")
}

func (s *ProjectStore) DeleteCascade(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	idx := -1
	for i, p := range s.m.projects {
		if p.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return domain.NotFound("project not found")
	}

	doomed := make(map[string]struct{})
	tasks := s.m.tasks[:0]
	for _, t := range s.m.tasks {
		if t.Project == id {
			doomed[t.ID] = struct{}{}
			continue
		}
		tasks = append(tasks, t)
	}
	comments := s.m.comments[:0]
	for _, c := range s.m.comments {
		if _, ok := doomed[c.Task]; !ok {
			comments = append(comments, c)
		}
	}
	s.m.comments = comments
	s.m.tasks = tasks
	s.m.projects = append(s.m.projects[:idx], s.m.projects[idx+1:]...)
	return nil
}

type TaskStore struct{ m *Memory }

func (s *TaskStore) Create(_ context.Context, t *domain.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *t
	s.m.tasks = append(s.m.tasks, &cp)
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id string) (*domain.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tasks {
		if t.ID == id {
			return s.m.populateTask(t), nil
		}
	}
	return nil, domain.NotFound("task not found")
}

func (s *TaskStore) Update(_ context.Context, t *domain.Task) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, existing := range s.m.tasks {
		if existing.ID == t.ID {
			cp := *t
			cp.Project = existing.Project
			cp.CreatedBy = existing.CreatedBy
			cp.CreatedAt = existing.CreatedAt
			s.m.tasks[i] = &cp
			return nil
		}
	}
	return domain.NotFound("task not found")
}

func (s *TaskStore) ListByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	res := []*domain.Task{}
	for _, t := range newestFirst(s.m.tasks, func(t *domain.Task) time.Time { return t.CreatedAt }) {
		if t.Project == projectID {
			res = append(res, s.m.populateTask(t))
		}
	}
	return res, nil
}

func (s *TaskStore) DeleteCascade(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	idx := -1
	for i, t := range s.m.tasks {
		if t.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return domain.NotFound("task not found")
	}
	comments := s.m.comments[:0]
	for _, c := range s.m.comments {
		if c.Task != id {
			comments = append(comments, c)
		}
	}
	s.m.comments = comments
	s.m.tasks = append(s.m.tasks[:idx], s.m.tasks[idx+1:]...)
	return nil
}

func (s *TaskStore) CountByStatus(ctx context.Context, projectID string) ([]domain.GroupCount, error) {
	byStatus, _ := s.group(projectID)
	return byStatus, nil
}

func (s *TaskStore) CountByPriority(ctx context.Context, projectID string) ([]domain.GroupCount, error) {
	_, byPriority := s.group(projectID)
	return byPriority, nil
}

func (s *TaskStore) group(projectID string) (byStatus, byPriority []domain.GroupCount) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var tasks []*domain.Task
	for _, t := range s.m.tasks {
		if t.Project == projectID {
			tasks = append(tasks, t)
		}
	}
	return domain.GroupTasks(tasks)
}

type CommentStore struct{ m *Memory }

func (s *CommentStore) Create(_ context.Context, c *domain.Comment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *c
	s.m.comments = append(s.m.comments, &cp)
	return nil
}

func (s *CommentStore) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, c := range s.m.comments {
		if c.ID == id {
			return s.m.populateComment(c), nil
		}
	}
	return nil, domain.NotFound("comment not found")
}

func (s *CommentStore) Update(_ context.Context, c *domain.Comment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.comments {
		if existing.ID == c.ID {
			existing.Message = c.Message
			existing.UpdatedAt = c.UpdatedAt
			return nil
		}
	}
	return domain.NotFound("comment not found")
}

func (s *CommentStore) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, c := range s.m.comments {
		if c.ID == id {
			s.m.comments = append(s.m.comments[:i], s.m.comments[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("comment not found")
}

func (s *CommentStore) ListByTask(_ context.Context, taskID string) ([]*domain.Comment, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	res := []*domain.Comment{}
	for _, c := range newestFirst(s.m.comments, func(c *domain.Comment) time.Time { return c.CreatedAt }) {
		if c.Task == taskID {
			res = append(res, s.m.populateComment(c))
		}
	}
	return res, nil
}

type AuditStore struct{ m *Memory }

func (s *AuditStore) Create(_ context.Context, log *domain.AuditLog) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.auditSeq++
	log.ID = s.m.auditSeq
	log.CreatedAt = time.Now().UTC()
	cp := *log
	s.m.audit = append(s.m.audit, &cp)
	return nil
}

func (s *AuditStore) GetByProject(_ context.Context, projectID string, limit int) ([]*domain.AuditLog, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	res := []*domain.AuditLog{}
	for i := len(s.m.audit) - 1; i >= 0 && (limit <= 0 || len(res) < limit); i-- {
		if s.m.audit[i].ProjectID == projectID {
			cp := *s.m.audit[i]
			res = append(res, &cp)
		}
	}
	return res, nil
}
