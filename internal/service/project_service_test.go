package service

import (
	"context"
	"fmt"
	"testing"

	"taskboard/internal/domain"
)

func TestCreateProjectPopulatesOwnerAndMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, owner, ProjectInput{
		Name:        "  Site Redesign ",
		Description: "new landing pages",
		Members:     []string{member, owner, member, ""},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Site Redesign" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Owner.Name != "Olivia Owner" {
		t.Fatalf("owner not populated: %+v", p.Owner)
	}
	// the owner listed as a member is tolerated; repeats and blanks are not kept
	if len(p.Members) != 2 || p.Members[0].ID != member || p.Members[1].ID != owner {
		t.Fatalf("unexpected members: %+v", p.Members)
	}
	if p.Members[0].Email != "mark@example.com" {
		t.Fatalf("member not populated: %+v", p.Members[0])
	}
}

func TestCreateProjectValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	long := make([]byte, domain.MaxProjectNameLen+1)
	for i := range long {
		long[i] = 'a'
	}

	cases := []ProjectInput{
		{Name: ""},
		{Name: "   "},
		{Name: string(long)},
	}
	for _, in := range cases {
		_, err := f.projects.Create(ctx, owner, in)
		expectKind(t, err, domain.ErrValidation)
	}

	_, err := f.projects.Create(ctx, "", ProjectInput{Name: "x"})
	expectKind(t, err, domain.ErrUnauthenticated)
}

func TestListProjectsOwnerOrMemberNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.project(t, "First")
	second := f.project(t, "Second")
	if _, err := f.projects.Create(ctx, stranger, ProjectInput{Name: "Private"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, actor := range []string{owner, member} {
		list, err := f.projects.List(ctx, actor)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("%s: expected 2 projects, got %d", actor, len(list))
		}
		if list[0].ID != second.ID || list[1].ID != first.ID {
			t.Fatalf("%s: expected newest first", actor)
		}
	}

	list, err := f.projects.List(ctx, stranger)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Private" {
		t.Fatalf("stranger sees unexpected projects: %+v", list)
	}
}

func TestGetProjectNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Board")

	_, err := f.projects.Get(ctx, stranger, "missing")
	expectKind(t, err, domain.ErrNotFound)

	_, err = f.projects.Get(ctx, stranger, p.ID)
	expectKind(t, err, domain.ErrForbidden)

	if _, err := f.projects.Get(ctx, member, p.ID); err != nil {
		t.Fatalf("member get: %v", err)
	}
}

func TestUpdateProjectOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Board")
	name := "Renamed"

	_, err := f.projects.Update(ctx, member, p.ID, ProjectPatch{Name: &name})
	expectKind(t, err, domain.ErrForbidden)

	_, err = f.projects.Update(ctx, stranger, p.ID, ProjectPatch{Name: &name})
	expectKind(t, err, domain.ErrForbidden)

	_, err = f.projects.Update(ctx, owner, "missing", ProjectPatch{Name: &name})
	expectKind(t, err, domain.ErrNotFound)

	members := []string{stranger}
	updated, err := f.projects.Update(ctx, owner, p.ID, ProjectPatch{Name: &name, Members: &members})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != name || updated.Owner.ID != owner {
		t.Fatalf("unexpected project after update: %+v", updated)
	}
	if len(updated.Members) != 1 || updated.Members[0].ID != stranger {
		t.Fatalf("members not replaced: %+v", updated.Members)
	}

	// the removed member lost access
	_, err = f.projects.Get(ctx, member, p.ID)
	expectKind(t, err, domain.ErrForbidden)
}

func TestDeleteProjectCascades(t *testing.T) {
	for _, tc := range []struct{ tasks, comments int }{{0, 0}, {1, 0}, {3, 2}, {5, 4}} {
		t.Run(fmt.Sprintf("%dx%d", tc.tasks, tc.comments), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			p := f.project(t, "Doomed")
			keep := f.project(t, "Survivor")
			kept := f.task(t, keep.ID, "keep me")

			var taskIDs []string
			for i := 0; i < tc.tasks; i++ {
				task := f.task(t, p.ID, fmt.Sprintf("task %d", i))
				taskIDs = append(taskIDs, task.ID)
				for j := 0; j < tc.comments; j++ {
					if _, err := f.comments.Create(ctx, member, task.ID, fmt.Sprintf("note %d", j)); err != nil {
						t.Fatalf("comment: %v", err)
					}
				}
			}
			if _, err := f.comments.Create(ctx, owner, kept.ID, "stays"); err != nil {
				t.Fatalf("comment: %v", err)
			}

			if err := f.projects.Delete(ctx, member, p.ID); err == nil {
				t.Fatalf("member must not delete the project")
			}
			if got := f.mem.TaskCount(p.ID); got != tc.tasks {
				t.Fatalf("rejected delete removed tasks: %d left", got)
			}

			if err := f.projects.Delete(ctx, owner, p.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if got := f.mem.TaskCount(p.ID); got != 0 {
				t.Fatalf("expected 0 tasks, got %d", got)
			}
			for _, id := range taskIDs {
				if got := f.mem.CommentCount(id); got != 0 {
					t.Fatalf("expected 0 comments on %s, got %d", id, got)
				}
			}
			if f.mem.TaskCount(keep.ID) != 1 || f.mem.CommentCount(kept.ID) != 1 {
				t.Fatalf("cascade touched another project")
			}

			_, err := f.projects.Get(ctx, owner, p.ID)
			expectKind(t, err, domain.ErrNotFound)
		})
	}
}

func TestSiteRedesignAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, owner, ProjectInput{Name: "Site Redesign", Description: "..."})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	a, err := f.projects.Analytics(ctx, owner, p.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.TotalTasks != 0 || a.CompletionRate != "0%" {
		t.Fatalf("unexpected empty analytics: %+v", a)
	}

	task, err := f.tasks.Create(ctx, owner, p.ID, TaskInput{Title: "Design mockup", DueDate: "2025-06-01"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := f.tasks.UpdateStatus(ctx, owner, task.ID, "Done"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	a, err = f.projects.Analytics(ctx, owner, p.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.TotalTasks != 1 || a.CompletedTasks != 1 || a.PendingTasks != 0 || a.CompletionRate != "100.00%" {
		t.Fatalf("unexpected analytics: %+v", a)
	}
	if len(a.TasksByStatus) != 1 || a.TasksByStatus[0] != (domain.GroupCount{Key: "Done", Count: 1}) {
		t.Fatalf("unexpected status groups: %+v", a.TasksByStatus)
	}
	if len(a.TasksByPriority) != 1 || a.TasksByPriority[0].Key != "Medium" {
		t.Fatalf("unexpected priority groups: %+v", a.TasksByPriority)
	}

	_, err = f.projects.Analytics(ctx, stranger, p.ID)
	expectKind(t, err, domain.ErrForbidden)
}

func TestAnalyticsHalfDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Half")

	for i := 0; i < 4; i++ {
		task := f.task(t, p.ID, fmt.Sprintf("t%d", i))
		if i < 2 {
			if _, err := f.tasks.UpdateStatus(ctx, member, task.ID, "Done"); err != nil {
				t.Fatalf("status: %v", err)
			}
		}
	}

	a, err := f.projects.Analytics(ctx, member, p.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.CompletionRate != "50.00%" || a.PendingTasks != 2 {
		t.Fatalf("unexpected analytics: %+v", a)
	}
}

func TestProjectActivityAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Tracked")
	f.task(t, p.ID, "first")

	logs, err := f.projects.Activity(ctx, member, p.ID, 0)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	if logs[0].Action != domain.AuditActionTaskCreate || logs[1].Action != domain.AuditActionProjectCreate {
		t.Fatalf("unexpected order: %s, %s", logs[0].Action, logs[1].Action)
	}

	_, err = f.projects.Activity(ctx, stranger, p.ID, 0)
	expectKind(t, err, domain.ErrForbidden)

	types := f.events.Types()
	if len(types) != 1 || types[0] != domain.EventTaskCreated {
		t.Fatalf("unexpected events: %v", types)
	}
}
