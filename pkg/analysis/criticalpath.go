// Package analysis computes schedule insights over the task graph. The graph
// is built from scheduling dependencies (finish-start, start-start); the
// parent-child hierarchy is a grouping concern and never constrains order.
package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// Analyzer holds the dependency graph for one task set.
type Analyzer struct {
	tasks map[string]*model.Task
	g     *simple.DirectedGraph
	ids   map[string]int64 // task ID -> graph node ID
	rev   map[int64]string // graph node ID -> task ID
}

// NewAnalyzer builds the dependency graph. Node IDs are assigned in sorted
// task-ID order so results are deterministic across runs. Dependencies that
// point at unknown tasks are dropped.
func NewAnalyzer(tasks []model.Task) *Analyzer {
	a := &Analyzer{
		tasks: make(map[string]*model.Task, len(tasks)),
		g:     simple.NewDirectedGraph(),
		ids:   make(map[string]int64, len(tasks)),
		rev:   make(map[int64]string, len(tasks)),
	}

	sorted := make([]string, 0, len(tasks))
	for i := range tasks {
		a.tasks[tasks[i].ID] = &tasks[i]
		sorted = append(sorted, tasks[i].ID)
	}
	sort.Strings(sorted)

	for i, id := range sorted {
		nid := int64(i)
		a.ids[id] = nid
		a.rev[nid] = id
		a.g.AddNode(simple.Node(nid))
	}

	for _, id := range sorted {
		task := a.tasks[id]
		for _, dep := range task.Dependencies {
			if dep == nil || !dep.Type.IsScheduling() {
				continue
			}
			from, ok := a.ids[dep.DependsOnID]
			if !ok {
				continue
			}
			to := a.ids[task.ID]
			if from == to {
				continue
			}
			a.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return a
}

// PathEntry is one task on the critical path.
type PathEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Days     float64 `json:"days"`
	SlackDay float64 `json:"slack_days"` // 0 on the critical path by definition
}

// CriticalPathResult is the longest-duration dependency chain through the
// schedule.
type CriticalPathResult struct {
	Path      []PathEntry `json:"path"`
	TotalDays float64     `json:"total_days"`
	TaskCount int         `json:"task_count"`
}

// CycleError reports a dependency cycle; no critical path exists.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving %v", e.Members)
}

// CriticalPath computes the longest chain of scheduling dependencies,
// weighted by task duration in days. Tasks without dates contribute zero
// weight but still participate in the chain.
func (a *Analyzer) CriticalPath() (*CriticalPathResult, error) {
	order, err := topo.Sort(a.g)
	if err != nil {
		if unorder, ok := err.(topo.Unorderable); ok {
			cycle := &CycleError{}
			for _, scc := range unorder {
				for _, n := range scc {
					cycle.Members = append(cycle.Members, a.rev[n.ID()])
				}
			}
			sort.Strings(cycle.Members)
			return nil, cycle
		}
		return nil, fmt.Errorf("ordering dependency graph: %w", err)
	}
	if len(order) == 0 {
		return &CriticalPathResult{}, nil
	}

	// Longest-path DP over the topological order. finish[v] is the best
	// cumulative duration of any chain ending at v, inclusive.
	finish := make(map[int64]float64, len(order))
	pred := make(map[int64]int64, len(order))
	for _, n := range order {
		nid := n.ID()
		finish[nid] = a.days(nid)
		pred[nid] = -1

		from := a.g.To(nid)
		for from.Next() {
			p := from.Node().ID()
			if candidate := finish[p] + a.days(nid); candidate > finish[nid] {
				finish[nid] = candidate
				pred[nid] = p
			}
		}
	}

	var bestNode int64 = -1
	bestTotal := -1.0
	for _, n := range order {
		nid := n.ID()
		// Ties break on task ID so the result is stable.
		if finish[nid] > bestTotal || (finish[nid] == bestTotal && a.rev[nid] < a.rev[bestNode]) {
			bestTotal = finish[nid]
			bestNode = nid
		}
	}

	result := &CriticalPathResult{TotalDays: bestTotal}
	for nid := bestNode; nid != -1; nid = pred[nid] {
		task := a.tasks[a.rev[nid]]
		result.Path = append(result.Path, PathEntry{
			ID:    task.ID,
			Title: task.Title,
			Days:  a.days(nid),
		})
	}
	reverse(result.Path)
	result.TaskCount = len(result.Path)
	return result, nil
}

// Blockers returns the IDs of tasks that directly depend on the given task,
// sorted. Used by the UI to show downstream impact of a selected row.
func (a *Analyzer) Blockers(taskID string) []string {
	nid, ok := a.ids[taskID]
	if !ok {
		return nil
	}
	var out []string
	to := a.g.From(nid)
	for to.Next() {
		out = append(out, a.rev[to.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// days returns the task's scheduled duration in fractional days.
func (a *Analyzer) days(nid int64) float64 {
	task := a.tasks[a.rev[nid]]
	if task == nil {
		return 0
	}
	return task.Duration().Hours() / 24
}

func reverse(entries []PathEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
