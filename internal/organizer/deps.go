package organizer

import (
	"context"
	"fmt"

	"github.com/baiirun/taskorg/internal/depgraph"
	"github.com/baiirun/taskorg/internal/model"
)

// AddDependency records that from depends on to. Unknown tasks and edges that
// would close a cycle are rejected before anything changes.
func (o *Organizer) AddDependency(ctx context.Context, from, to string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	prev := o.save()
	if err := o.graph.AddDependency(from, to); err != nil {
		return err
	}
	return o.syncDeps(ctx, from, prev)
}

// RemoveDependency drops the edge from -> to. It returns model.ErrNotFound if
// the edge does not exist.
func (o *Organizer) RemoveDependency(ctx context.Context, from, to string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	prev := o.save()
	if !o.graph.RemoveDependency(from, to) {
		return fmt.Errorf("%w: dependency %s -> %s", model.ErrNotFound, from, to)
	}
	return o.syncDeps(ctx, from, prev)
}

// syncDeps copies the graph's edge list for id onto every copy of the task and
// persists it.
func (o *Organizer) syncDeps(ctx context.Context, id string, prev state) error {
	deps := o.graph.DependenciesOf(id)
	o.rewrite(id, func(t *model.Task) {
		t.Dependencies = append([]string(nil), deps...)
	})
	if err := o.gw.UpdateTask(ctx, id, o.lookup[id]); err != nil {
		o.restore(prev)
		o.logger.Error("update failed, dependency change rolled back", "id", id, "error", err)
		return persistErr("update", id, err)
	}
	o.logger.Info("dependencies changed", "id", id, "depends_on", deps)
	return nil
}

// DependenciesOf returns the IDs id depends on.
func (o *Organizer) DependenciesOf(id string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.DependenciesOf(id)
}

// DependentsOf returns the IDs that depend on id.
func (o *Organizer) DependentsOf(id string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.DependentsOf(id)
}

// TopologicalOrder lists task IDs with dependencies before dependents.
func (o *Organizer) TopologicalOrder() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.TopologicalOrder()
}

// HasCycle reports whether the dependency graph contains a cycle.
func (o *Organizer) HasCycle() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.HasCycle()
}

// CriticalPath returns the longest chain of dependencies by estimated hours.
func (o *Organizer) CriticalPath() ([]string, int) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.CriticalPath()
}

// ReadyTasks returns tasks not in completed whose dependencies all are.
func (o *Organizer) ReadyTasks(completed map[string]bool) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.ReadyTasks(completed)
}

// Waves groups tasks into rounds that can run in parallel.
func (o *Organizer) Waves() [][]string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.Waves()
}

// GraphStats summarizes the dependency graph.
func (o *Organizer) GraphStats() depgraph.Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.Stats()
}

// DescribeGraph renders one line per task with its dependencies.
func (o *Organizer) DescribeGraph() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.graph.String()
}
