// Package depgraph tracks "must complete before" relationships between tasks.
//
// An edge A -> B means A depends on B: B has to finish before A can start.
// Cycles are rejected when an edge is added, so the graph stays a DAG.
package depgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/baiirun/taskorg/internal/model"
)

// Graph is a directed graph over task IDs. Node order follows registration
// so every traversal is deterministic.
type Graph struct {
	tasks map[string]model.Task
	deps  map[string][]string // task -> tasks it depends on
	order []string            // registration order
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		tasks: make(map[string]model.Task),
		deps:  make(map[string][]string),
	}
}

// AddTask registers a node. Registering an ID again refreshes its stored task
// but keeps its edges and position.
func (g *Graph) AddTask(t model.Task) {
	if _, ok := g.tasks[t.ID]; !ok {
		g.order = append(g.order, t.ID)
		g.deps[t.ID] = nil
	}
	g.tasks[t.ID] = t
}

// Has reports whether id is registered.
func (g *Graph) Has(id string) bool {
	_, ok := g.tasks[id]
	return ok
}

// TaskCount returns the number of registered tasks.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, d := range g.deps {
		total += len(d)
	}
	return total
}

// AddDependency records that from depends on to.
func (g *Graph) AddDependency(from, to string) error {
	if !g.Has(from) {
		return fmt.Errorf("%w: %s", model.ErrUnknownTask, from)
	}
	if !g.Has(to) {
		return fmt.Errorf("%w: %s", model.ErrUnknownTask, to)
	}
	if slices.Contains(g.deps[from], to) {
		return nil
	}
	if g.reaches(to, from) {
		return fmt.Errorf("%w: %s depending on %s", model.ErrCycleDetected, from, to)
	}
	g.deps[from] = append(g.deps[from], to)
	return nil
}

// reaches does a breadth-first walk from start along dependency edges and
// reports whether target is reachable. start reaches itself.
func (g *Graph) reaches(start, target string) bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		for _, next := range g.deps[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// RemoveDependency deletes the edge from -> to and reports whether it existed.
func (g *Graph) RemoveDependency(from, to string) bool {
	d := g.deps[from]
	i := slices.Index(d, to)
	if i < 0 {
		return false
	}
	g.deps[from] = slices.Delete(d, i, i+1)
	return true
}

// RemoveTask drops the node and strips it from every other task's dependencies.
func (g *Graph) RemoveTask(id string) {
	if !g.Has(id) {
		return
	}
	delete(g.tasks, id)
	delete(g.deps, id)
	if i := slices.Index(g.order, id); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	for other, d := range g.deps {
		g.deps[other] = slices.DeleteFunc(d, func(dep string) bool { return dep == id })
	}
}

// DependenciesOf returns the IDs id depends on, in insertion order.
func (g *Graph) DependenciesOf(id string) []string {
	return slices.Clone(g.deps[id])
}

// DependentsOf returns every task whose dependency list contains id.
func (g *Graph) DependentsOf(id string) []string {
	var out []string
	for _, other := range g.order {
		if slices.Contains(g.deps[other], id) {
			out = append(out, other)
		}
	}
	return out
}

// Tasks returns the registered IDs in registration order.
func (g *Graph) Tasks() []string {
	return slices.Clone(g.order)
}

// TopologicalOrder runs Kahn's algorithm. A node's in-degree is the number of
// tasks it depends on; nodes with none go first and finishing a node releases
// its dependents. Dependencies therefore precede dependents. The result is
// shorter than TaskCount only if the graph has a cycle.
func (g *Graph) TopologicalOrder() []string {
	inDegree := make(map[string]int, len(g.tasks))
	var queue []string
	for _, id := range g.order {
		inDegree[id] = len(g.deps[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dependent := range g.DependentsOf(node) {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	return order
}

// HasCycle reports whether a topological order misses any node.
func (g *Graph) HasCycle() bool {
	return len(g.TopologicalOrder()) != len(g.tasks)
}

// CriticalPath returns the chain of dependent tasks with the largest total
// estimated hours, listed dependency first, along with that total.
func (g *Graph) CriticalPath() ([]string, int) {
	order := g.TopologicalOrder()
	if len(order) == 0 {
		return nil, 0
	}

	finish := make(map[string]int, len(order))
	pred := make(map[string]string, len(order))
	for _, id := range order {
		best := 0
		for _, dep := range g.deps[id] {
			if f := finish[dep]; f > best {
				best = f
				pred[id] = dep
			}
		}
		finish[id] = best + g.tasks[id].Hours()
	}

	end := order[0]
	for _, id := range order[1:] {
		if finish[id] > finish[end] {
			end = id
		}
	}

	var path []string
	for cur, ok := end, true; ok; cur, ok = pred[cur] {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path, finish[end]
}

// CanRun reports whether every dependency of id is in completed.
func (g *Graph) CanRun(id string, completed map[string]bool) bool {
	for _, dep := range g.deps[id] {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// ReadyTasks returns tasks not yet completed whose dependencies are all completed.
func (g *Graph) ReadyTasks(completed map[string]bool) []string {
	var ready []string
	for _, id := range g.order {
		if !completed[id] && g.CanRun(id, completed) {
			ready = append(ready, id)
		}
	}
	return ready
}

// Waves groups tasks that can run in parallel. Wave 0 holds tasks with no
// dependencies; every other task sits one wave after its deepest dependency.
func (g *Graph) Waves() [][]string {
	depth := make(map[string]int, len(g.tasks))
	var waves [][]string
	for _, id := range g.TopologicalOrder() {
		d := 0
		for _, dep := range g.deps[id] {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[id] = d
		for len(waves) <= d {
			waves = append(waves, nil)
		}
		waves[d] = append(waves[d], id)
	}
	return waves
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		tasks: make(map[string]model.Task, len(g.tasks)),
		deps:  make(map[string][]string, len(g.deps)),
		order: slices.Clone(g.order),
	}
	for id, t := range g.tasks {
		c.tasks[id] = t
	}
	for id, d := range g.deps {
		c.deps[id] = slices.Clone(d)
	}
	return c
}

// Stats summarizes the graph.
type Stats struct {
	Tasks        int
	Dependencies int
	HasCycle     bool
	CriticalPath []string
	PathHours    int
}

// Stats computes counts, cycle state and the critical path.
func (g *Graph) Stats() Stats {
	path, hours := g.CriticalPath()
	return Stats{
		Tasks:        len(g.tasks),
		Dependencies: g.EdgeCount(),
		HasCycle:     g.HasCycle(),
		CriticalPath: path,
		PathHours:    hours,
	}
}

// String lists every task with its dependencies.
func (g *Graph) String() string {
	var sb strings.Builder
	for _, id := range g.order {
		fmt.Fprintf(&sb, "%s (%s)", id, g.tasks[id].Description)
		d := g.deps[id]
		if len(d) == 0 {
			sb.WriteString(" -> no dependencies\n")
			continue
		}
		parts := make([]string, len(d))
		for i, dep := range d {
			parts[i] = fmt.Sprintf("%s (%s)", dep, g.tasks[dep].Description)
		}
		sb.WriteString(" -> depends on: " + strings.Join(parts, ", ") + "\n")
	}
	return sb.String()
}
