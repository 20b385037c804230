package domain

import (
	"reflect"
	"testing"
)

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, total int
		want             string
	}{
		{0, 0, "0%"},
		{2, 4, "50.00%"},
		{1, 1, "100.00%"},
		{1, 3, "33.33%"},
		{2, 3, "66.67%"},
		{0, 5, "0.00%"},
	}

	for _, tc := range cases {
		if got := CompletionRate(tc.completed, tc.total); got != tc.want {
			t.Fatalf("CompletionRate(%d, %d) = %s; want %s", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics(
		[]GroupCount{{"Done", 2}, {"Todo", 1}, {"In Progress", 1}},
		[]GroupCount{{"High", 3}, {"Low", 1}},
	)

	if a.TotalTasks != 4 || a.CompletedTasks != 2 || a.PendingTasks != 2 {
		t.Fatalf("unexpected totals: %+v", a)
	}
	if a.CompletionRate != "50.00%" {
		t.Fatalf("unexpected completion rate %s", a.CompletionRate)
	}

	wantStatus := []GroupCount{{"Todo", 1}, {"In Progress", 1}, {"Done", 2}}
	if !reflect.DeepEqual(a.TasksByStatus, wantStatus) {
		t.Fatalf("unexpected status groups: %#v", a.TasksByStatus)
	}
	wantPriority := []GroupCount{{"Low", 1}, {"High", 3}}
	if !reflect.DeepEqual(a.TasksByPriority, wantPriority) {
		t.Fatalf("unexpected priority groups: %#v", a.TasksByPriority)
	}
}

func TestNewAnalyticsEmptyProject(t *testing.T) {
	a := NewAnalytics(nil, nil)
	if a.TotalTasks != 0 || a.CompletionRate != "0%" {
		t.Fatalf("unexpected analytics for empty project: %+v", a)
	}
	if len(a.TasksByStatus) != 0 || len(a.TasksByPriority) != 0 {
		t.Fatalf("expected no zero-filled groups")
	}
}

func TestGroupTasksOnlyOccurringKeys(t *testing.T) {
	tasks := []*Task{
		{Status: StatusDone, Priority: PriorityHigh},
		{Status: StatusDone, Priority: PriorityMedium},
	}
	a := NewAnalytics(GroupTasks(tasks))

	if len(a.TasksByStatus) != 1 || a.TasksByStatus[0] != (GroupCount{"Done", 2}) {
		t.Fatalf("unexpected status groups: %#v", a.TasksByStatus)
	}
	if len(a.TasksByPriority) != 2 {
		t.Fatalf("unexpected priority groups: %#v", a.TasksByPriority)
	}
	if a.CompletionRate != "100.00%" {
		t.Fatalf("unexpected completion rate %s", a.CompletionRate)
	}
}
