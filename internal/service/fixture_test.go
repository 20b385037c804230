package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/testutil"
)

const (
	owner    = "u-owner"
	member   = "u-member"
	stranger = "u-stranger"
)

type fixture struct {
	mem      *testutil.Memory
	events   *testutil.Recorder
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	InitJWT("test-secret", time.Hour)

	mem := testutil.NewMemory()
	mem.AddUser(owner, "Olivia Owner", "olivia@example.com")
	mem.AddUser(member, "Mark Member", "mark@example.com")
	mem.AddUser(stranger, "Sam Stranger", "sam@example.com")

	rec := &testutil.Recorder{}
	audit := NewAuditService(mem.Audit())
	return &fixture{
		mem:      mem,
		events:   rec,
		auth:     NewAuthService(mem.Users(), audit),
		projects: NewProjectService(mem.Projects(), mem.Tasks(), audit, rec),
		tasks:    NewTaskService(mem.Projects(), mem.Tasks(), audit, rec),
		comments: NewCommentService(mem.Projects(), mem.Tasks(), mem.Comments(), audit, rec),
	}
}

// project creates a project owned by owner with member on its member list.
func (f *fixture) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner, ProjectInput{
		Name:    name,
		Members: []string{member},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func (f *fixture) task(t *testing.T, projectID, title string) *domain.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), owner, projectID, TaskInput{
		Title:   title,
		DueDate: "2025-06-01",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func expectKind(t *testing.T, err error, want *domain.Error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %s error, got %v", want.Kind, err)
	}
}
