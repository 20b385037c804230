package domain

import (
	"fmt"
	"sort"
)

// GroupCount is one bucket of a group-by over a project's tasks. The key is
// serialized as "_id" to match the aggregation shape clients already consume.
type GroupCount struct {
	Key   string `json:"_id"`
	Count int    `json:"count"`
}

type Analytics struct {
	TotalTasks      int          `json:"totalTasks"`
	CompletedTasks  int          `json:"completedTasks"`
	PendingTasks    int          `json:"pendingTasks"`
	CompletionRate  string       `json:"completionRate"`
	TasksByStatus   []GroupCount `json:"tasksByStatus"`
	TasksByPriority []GroupCount `json:"tasksByPriority"`
}

// NewAnalytics derives the project summary from the status and priority
// groupings. Only keys that actually occur are kept; zero buckets are dropped.
func NewAnalytics(byStatus, byPriority []GroupCount) Analytics {
	a := Analytics{
		TasksByStatus:   orderGroups(byStatus, statusKeys()),
		TasksByPriority: orderGroups(byPriority, priorityKeys()),
	}
	for _, g := range a.TasksByStatus {
		a.TotalTasks += g.Count
		switch st := Status(g.Key); {
		case st == StatusDone:
			a.CompletedTasks += g.Count
		case st.Pending():
			a.PendingTasks += g.Count
		}
	}
	a.CompletionRate = CompletionRate(a.CompletedTasks, a.TotalTasks)
	return a
}

// CompletionRate renders completed/total as a percentage with two decimals,
// or "0%" when there are no tasks.
func CompletionRate(completed, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(completed)/float64(total)*100)
}

// GroupTasks computes the status and priority groupings in memory. Stores
// without a native group-by use it.
func GroupTasks(tasks []*Task) (byStatus, byPriority []GroupCount) {
	statusCounts := make(map[string]int)
	priorityCounts := make(map[string]int)
	for _, t := range tasks {
		statusCounts[string(t.Status)]++
		priorityCounts[string(t.Priority)]++
	}
	for k, n := range statusCounts {
		byStatus = append(byStatus, GroupCount{Key: k, Count: n})
	}
	for k, n := range priorityCounts {
		byPriority = append(byPriority, GroupCount{Key: k, Count: n})
	}
	return byStatus, byPriority
}

// orderGroups sorts buckets by the declared enum order, dropping empty ones.
// Unknown keys go last in their original order.
func orderGroups(groups []GroupCount, order []string) []GroupCount {
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	out := make([]GroupCount, 0, len(groups))
	var unknown []GroupCount
	for _, g := range groups {
		if g.Count <= 0 {
			continue
		}
		if _, ok := rank[g.Key]; ok {
			out = append(out, g)
		} else {
			unknown = append(unknown, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i].Key] < rank[out[j].Key] })
	return append(out, unknown...)
}

func statusKeys() []string {
	keys := make([]string, len(Statuses))
	for i, s := range Statuses {
		keys[i] = string(s)
	}
	return keys
}

func priorityKeys() []string {
	keys := make([]string, len(Priorities))
	for i, p := range Priorities {
		keys[i] = string(p)
	}
	return keys
}
