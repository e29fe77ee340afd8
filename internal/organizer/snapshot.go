package organizer

import (
	"slices"
	"strings"

	"github.com/baiirun/taskorg/internal/model"
)

// SortedSnapshot merges the stack, queue and departmental list and orders the
// result by urgency, then department. The containers are not touched.
func (o *Organizer) SortedSnapshot() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := o.classified()
	slices.SortStableFunc(out, model.CompareUrgencyDepartment)
	return out
}

// TotalEstimatedHours sums estimated hours over the stack, queue and
// departmental list. Tasks only present in the priority heap are not counted.
func (o *Organizer) TotalEstimatedHours() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return sumHours(o.classified(), 0)
}

func sumHours(tasks []model.Task, i int) int {
	if i >= len(tasks) {
		return 0
	}
	return tasks[i].EstimatedHours + sumHours(tasks, i+1)
}

// TasksByDepartment returns the known tasks whose department matches name,
// ignoring case.
func (o *Organizer) TasksByDepartment(name string) []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []model.Task
	for _, t := range o.distinct() {
		if strings.EqualFold(t.Department, name) {
			out = append(out, t)
		}
	}
	return out
}

// DepartmentStat aggregates the tasks of one department.
type DepartmentStat struct {
	Department string `json:"department"`
	Tasks      int    `json:"tasks"`
	Hours      int    `json:"hours"`
}

// DepartmentStats returns per-department task counts and hours, sorted by
// department name.
func (o *Organizer) DepartmentStats() []DepartmentStat {
	o.mu.RLock()
	defer o.mu.RUnlock()

	idx := make(map[string]int)
	var out []DepartmentStat
	for _, t := range o.distinct() {
		i, ok := idx[t.Department]
		if !ok {
			i = len(out)
			idx[t.Department] = i
			out = append(out, DepartmentStat{Department: t.Department})
		}
		out[i].Tasks++
		out[i].Hours += t.EstimatedHours
	}
	slices.SortFunc(out, func(a, b DepartmentStat) int {
		return strings.Compare(a.Department, b.Department)
	})
	return out
}

// DistributeByMidpoint reorders tasks by visiting the midpoint of each range
// before its left and right halves.
func DistributeByMidpoint(tasks []model.Task) []model.Task {
	if len(tasks) <= 1 {
		return tasks
	}
	out := make([]model.Task, 0, len(tasks))
	midpoints(0, len(tasks)-1, 0, func(i, _ int) {
		out = append(out, tasks[i])
	})
	return out
}

// DistributeToTeams spreads tasks over teams with the midpoint traversal. A
// task visited at recursion depth d goes to teams[d % len(teams)]. Every team
// gets an entry, possibly empty.
func DistributeToTeams(tasks []model.Task, teams []string) map[string][]model.Task {
	out := make(map[string][]model.Task, len(teams))
	for _, team := range teams {
		out[team] = nil
	}
	if len(teams) == 0 || len(tasks) == 0 {
		return out
	}
	midpoints(0, len(tasks)-1, 0, func(i, depth int) {
		team := teams[depth%len(teams)]
		out[team] = append(out[team], tasks[i])
	})
	return out
}

func midpoints(lo, hi, depth int, visit func(i, depth int)) {
	if lo > hi {
		return
	}
	mid := (lo + hi) / 2
	visit(mid, depth)
	midpoints(lo, mid-1, depth+1, visit)
	midpoints(mid+1, hi, depth+1, visit)
}

// SortByDepartment returns a copy of tasks ordered by department name. Equal
// departments keep their relative order.
func SortByDepartment(tasks []model.Task) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return strings.Compare(a.Department, b.Department)
	})
	return out
}

// SortByPriority returns a copy of tasks ordered by rank, then due date.
// Tasks without a priority go last.
func SortByPriority(tasks []model.Task) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, model.ComparePriority)
	return out
}

// AverageHours returns the mean estimated hours, or 0 for no tasks.
func AverageHours(tasks []model.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return float64(sumHours(tasks, 0)) / float64(len(tasks))
}

// Longest returns the task with the most estimated hours. The first one wins
// on ties.
func Longest(tasks []model.Task) (model.Task, bool) {
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	best := tasks[0]
	for _, t := range tasks[1:] {
		if t.EstimatedHours > best.EstimatedHours {
			best = t
		}
	}
	return best, true
}
