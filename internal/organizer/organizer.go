// Package organizer owns the in-memory task containers: the urgent stack, the
// scheduled queue, the departmental list, the priority heap, the ID lookup and
// the dependency graph.
//
// Every mutation is applied in memory first and then mirrored to the Gateway.
// When the gateway fails the mutation is rolled back and the error wraps
// model.ErrPersistence. Removing a task always removes every copy of its ID
// from every container.
package organizer

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/baiirun/taskorg/internal/depgraph"
	"github.com/baiirun/taskorg/internal/model"
)

// Organizer is safe for concurrent use. Mutations are serialized.
type Organizer struct {
	mu     sync.RWMutex
	gw     Gateway
	logger *slog.Logger

	urgent       []model.Task // top is the last element
	scheduled    []model.Task // front is the first element
	departmental []model.Task
	prio         priorityQueue
	lookup       map[string]model.Task
	graph        *depgraph.Graph
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger sets the logger used for mutation events.
func WithLogger(l *slog.Logger) Option {
	return func(o *Organizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New returns an empty organizer backed by gw.
func New(gw Gateway, opts ...Option) *Organizer {
	o := &Organizer{
		gw:     gw,
		logger: slog.Default(),
		lookup: make(map[string]model.Task),
		graph:  depgraph.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// state is a copy of every container, used to undo a mutation.
type state struct {
	urgent, scheduled, departmental []model.Task
	prio                            priorityQueue
	lookup                          map[string]model.Task
	graph                           *depgraph.Graph
}

func (o *Organizer) save() state {
	return state{
		urgent:       slices.Clone(o.urgent),
		scheduled:    slices.Clone(o.scheduled),
		departmental: slices.Clone(o.departmental),
		prio:         slices.Clone(o.prio),
		lookup:       maps.Clone(o.lookup),
		graph:        o.graph.Clone(),
	}
}

func (o *Organizer) restore(s state) {
	o.urgent = s.urgent
	o.scheduled = s.scheduled
	o.departmental = s.departmental
	o.prio = s.prio
	o.lookup = s.lookup
	o.graph = s.graph
}

func persistErr(op, id string, err error) error {
	return fmt.Errorf("%w: failed to %s task %s: %w", model.ErrPersistence, op, id, err)
}

// Load replaces the in-memory state with every task the gateway returns.
// Tasks are routed by kind, and every record carrying a priority is one entry
// of the priority heap. Persisted dependencies that name unknown tasks or would close
// a cycle are skipped with a warning.
func (o *Organizer) Load(ctx context.Context) error {
	tasks, err := o.gw.LoadAllTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.urgent, o.scheduled, o.departmental, o.prio = nil, nil, nil, nil
	o.lookup = make(map[string]model.Task, len(tasks))
	o.graph = depgraph.New()

	for _, t := range tasks {
		t = t.Clone()
		switch t.Kind {
		case model.KindUrgent:
			o.urgent = append(o.urgent, t)
		case model.KindScheduled:
			o.scheduled = append(o.scheduled, t)
		case model.KindDepartmental:
			o.departmental = append(o.departmental, t)
		case model.KindPriority:
		default:
			o.logger.Warn("task has unknown kind", "id", t.ID, "kind", t.Kind)
		}
		if t.Priority != nil {
			heap.Push(&o.prio, t)
		}
		o.lookup[t.ID] = t
		o.graph.AddTask(t)
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if err := o.graph.AddDependency(t.ID, dep); err != nil {
				o.logger.Warn("skipping persisted dependency", "task", t.ID, "depends_on", dep, "error", err)
			}
		}
	}
	for id := range o.lookup {
		deps := o.graph.DependenciesOf(id)
		o.rewrite(id, func(t *model.Task) { t.Dependencies = slices.Clone(deps) })
	}

	o.logger.Info("tasks loaded",
		"total", len(o.lookup),
		"urgent", len(o.urgent),
		"scheduled", len(o.scheduled),
		"departmental", len(o.departmental),
		"priority", o.prio.Len(),
	)
	return nil
}

func (o *Organizer) container(kind model.Kind) *[]model.Task {
	switch kind {
	case model.KindUrgent:
		return &o.urgent
	case model.KindScheduled:
		return &o.scheduled
	case model.KindDepartmental:
		return &o.departmental
	}
	return nil
}

func containsID(tasks []model.Task, id string) bool {
	return slices.ContainsFunc(tasks, func(t model.Task) bool { return t.ID == id })
}

// Classify places task in the urgent stack, scheduled queue or departmental
// list. The ID must not already be in the target container; other containers
// are not checked. A task the organizer already knows is filed with its known
// fields, so every stored record of an ID agrees. Dependencies on the task are
// ignored, use AddDependency.
func (o *Organizer) Classify(ctx context.Context, task model.Task, kind model.Kind) error {
	if kind == model.KindPriority || !kind.IsValid() {
		return fmt.Errorf("%w: cannot classify into %q", model.ErrValidation, kind)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	existing, known := o.lookup[task.ID]
	if known {
		task = existing
	}
	task = task.Clone()
	task.Kind = kind
	task.Priority = nil
	if err := task.Validate(); err != nil {
		return err
	}

	c := o.container(kind)
	if containsID(*c, task.ID) {
		return fmt.Errorf("%w: task %s already in %s", model.ErrDuplicateID, task.ID, kind)
	}
	task.Dependencies = o.graph.DependenciesOf(task.ID)

	prev := o.save()
	*c = append(*c, task)
	if !known {
		o.lookup[task.ID] = task
		o.graph.AddTask(task)
	}

	if err := o.gw.SaveTask(ctx, task, kind); err != nil {
		o.restore(prev)
		o.logger.Error("save failed, classification rolled back", "id", task.ID, "kind", kind, "error", err)
		return persistErr("save", task.ID, err)
	}
	o.logger.Info("task classified", "id", task.ID, "kind", kind)
	return nil
}

// Promote puts task in the priority heap with the given rank and due date.
// The task may also sit in a classification container. An ID already in the
// heap is re-ranked in place rather than added twice, and its stored priority
// record is updated; otherwise a record of kind prioridad is saved.
func (o *Organizer) Promote(ctx context.Context, task model.Task, rank int, dueDate string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	existing, known := o.lookup[task.ID]
	if known {
		task = existing
	}
	p := task.WithPriority(rank, dueDate)
	p.Kind = model.KindPriority
	p.Dependencies = o.graph.DependenciesOf(p.ID)
	if err := p.Validate(); err != nil {
		return err
	}

	inHeap := slices.ContainsFunc(o.prio, func(t model.Task) bool { return t.ID == p.ID })

	prev := o.save()
	if inHeap {
		for i := range o.prio {
			if o.prio[i].ID == p.ID {
				o.prio[i].Priority = &model.Priority{Rank: rank, DueDate: dueDate}
			}
		}
		heap.Init(&o.prio)
	} else {
		heap.Push(&o.prio, p)
	}
	if known {
		o.lookup[p.ID] = existing.WithPriority(rank, dueDate)
	} else {
		o.lookup[p.ID] = p
		o.graph.AddTask(p)
	}

	var err error
	if inHeap {
		err = o.gw.UpdateTask(ctx, p.ID, o.lookup[p.ID])
	} else {
		err = o.gw.SaveTask(ctx, p, model.KindPriority)
	}
	if err != nil {
		o.restore(prev)
		o.logger.Error("persist failed, promotion rolled back", "id", p.ID, "error", err)
		return persistErr("save", p.ID, err)
	}
	o.logger.Info("task promoted", "id", p.ID, "rank", rank, "due", dueDate)
	return nil
}

// purge drops every copy of id from every container, the lookup and the graph.
func (o *Organizer) purge(id string) {
	match := func(t model.Task) bool { return t.ID == id }
	o.urgent = slices.DeleteFunc(o.urgent, match)
	o.scheduled = slices.DeleteFunc(o.scheduled, match)
	o.departmental = slices.DeleteFunc(o.departmental, match)
	o.prio = o.prio.without(id)
	delete(o.lookup, id)
	o.graph.RemoveTask(id)
}

// remove purges id and deletes it from the store, restoring prev on failure.
func (o *Organizer) remove(ctx context.Context, id string, prev state) error {
	o.purge(id)
	if err := o.gw.DeleteTask(ctx, id); err != nil {
		o.restore(prev)
		o.logger.Error("delete failed, removal rolled back", "id", id, "error", err)
		return persistErr("delete", id, err)
	}
	o.logger.Info("task removed", "id", id)
	return nil
}

func emptyErr(name string) error {
	return fmt.Errorf("%w: %s", model.ErrEmptyContainer, name)
}

// PeekUrgent returns the top of the urgent stack.
func (o *Organizer) PeekUrgent() (model.Task, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.urgent) == 0 {
		return model.Task{}, emptyErr("urgent stack")
	}
	return o.urgent[len(o.urgent)-1].Clone(), nil
}

// PopUrgent removes and returns the top of the urgent stack.
func (o *Organizer) PopUrgent(ctx context.Context) (model.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.urgent) == 0 {
		return model.Task{}, emptyErr("urgent stack")
	}
	top := o.urgent[len(o.urgent)-1]
	if err := o.remove(ctx, top.ID, o.save()); err != nil {
		return model.Task{}, err
	}
	return top, nil
}

// PeekScheduled returns the front of the scheduled queue.
func (o *Organizer) PeekScheduled() (model.Task, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.scheduled) == 0 {
		return model.Task{}, emptyErr("scheduled queue")
	}
	return o.scheduled[0].Clone(), nil
}

// PopScheduled removes and returns the front of the scheduled queue.
func (o *Organizer) PopScheduled(ctx context.Context) (model.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.scheduled) == 0 {
		return model.Task{}, emptyErr("scheduled queue")
	}
	front := o.scheduled[0]
	if err := o.remove(ctx, front.ID, o.save()); err != nil {
		return model.Task{}, err
	}
	return front, nil
}

// DepartmentalAt returns the i-th task of the departmental list.
func (o *Organizer) DepartmentalAt(i int) (model.Task, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(o.departmental) {
		return model.Task{}, fmt.Errorf("%w: index %d, size %d", model.ErrIndexOutOfRange, i, len(o.departmental))
	}
	return o.departmental[i].Clone(), nil
}

// PeekHighestPriority returns the minimum of the priority heap.
func (o *Organizer) PeekHighestPriority() (model.Task, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.prio.Len() == 0 {
		return model.Task{}, emptyErr("priority queue")
	}
	return o.prio[0].Clone(), nil
}

// PopHighestPriority removes the minimum of the priority heap along with every
// other copy of its ID.
func (o *Organizer) PopHighestPriority(ctx context.Context) (model.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.prio.Len() == 0 {
		return model.Task{}, emptyErr("priority queue")
	}
	top := o.prio[0]
	if err := o.remove(ctx, top.ID, o.save()); err != nil {
		return model.Task{}, err
	}
	return top, nil
}

// FindByID returns the task stored under id.
func (o *Organizer) FindByID(id string) (model.Task, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	t, ok := o.lookup[id]
	if !ok {
		return model.Task{}, false
	}
	return t.Clone(), true
}

// Delete removes every copy of id and deletes it from the store.
func (o *Organizer) Delete(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.lookup[id]; !ok {
		return fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	return o.remove(ctx, id, o.save())
}

// Edit lists the fields Update changes. Nil fields are left alone.
type Edit struct {
	Description    *string
	Department     *string
	Urgency        *model.Urgency
	EstimatedHours *int
	AssignedTo     *string
	Unassign       bool
}

func (e Edit) apply(t *model.Task) {
	if e.Description != nil {
		t.Description = *e.Description
	}
	if e.Department != nil {
		t.Department = *e.Department
	}
	if e.Urgency != nil {
		t.Urgency = *e.Urgency
	}
	if e.EstimatedHours != nil {
		t.EstimatedHours = *e.EstimatedHours
	}
	if e.AssignedTo != nil {
		a := *e.AssignedTo
		t.AssignedTo = &a
	}
	if e.Unassign {
		t.AssignedTo = nil
	}
}

// rewrite applies fn to every copy of id. Each copy keeps its own kind and
// priority.
func (o *Organizer) rewrite(id string, fn func(*model.Task)) {
	for _, c := range []*[]model.Task{&o.urgent, &o.scheduled, &o.departmental} {
		for i := range *c {
			if (*c)[i].ID == id {
				fn(&(*c)[i])
			}
		}
	}
	for i := range o.prio {
		if o.prio[i].ID == id {
			fn(&o.prio[i])
		}
	}
	if t, ok := o.lookup[id]; ok {
		fn(&t)
		o.lookup[id] = t
		o.graph.AddTask(t)
	}
}

// Update changes the fields named by e on every copy of id and persists the
// result.
func (o *Organizer) Update(ctx context.Context, id string, e Edit) (model.Task, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur, ok := o.lookup[id]
	if !ok {
		return model.Task{}, fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	next := cur.Clone()
	e.apply(&next)
	if err := next.Validate(); err != nil {
		return model.Task{}, err
	}

	prev := o.save()
	o.rewrite(id, e.apply)
	updated := o.lookup[id]
	if err := o.gw.UpdateTask(ctx, id, updated); err != nil {
		o.restore(prev)
		o.logger.Error("update failed, edit rolled back", "id", id, "error", err)
		return model.Task{}, persistErr("update", id, err)
	}
	o.logger.Info("task updated", "id", id)
	return updated.Clone(), nil
}

// Assign records employeeID as the task's assignee.
func (o *Organizer) Assign(ctx context.Context, taskID, employeeID string) (model.Task, error) {
	if !model.ValidEmployeeID(employeeID) {
		return model.Task{}, fmt.Errorf("%w: invalid employee id %q", model.ErrValidation, employeeID)
	}
	return o.Update(ctx, taskID, Edit{AssignedTo: &employeeID})
}

// Counts holds the size of each container.
type Counts struct {
	Urgent       int `json:"urgent"`
	Scheduled    int `json:"scheduled"`
	Departmental int `json:"departmental"`
	Priority     int `json:"priority"`
	Distinct     int `json:"distinct"`
}

// Counts returns the current container sizes.
func (o *Organizer) Counts() Counts {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Counts{
		Urgent:       len(o.urgent),
		Scheduled:    len(o.scheduled),
		Departmental: len(o.departmental),
		Priority:     o.prio.Len(),
		Distinct:     len(o.lookup),
	}
}

func cloneAll(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Urgent returns the urgent stack, top first.
func (o *Organizer) Urgent() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := cloneAll(o.urgent)
	slices.Reverse(out)
	return out
}

// Scheduled returns the scheduled queue, front first.
func (o *Organizer) Scheduled() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneAll(o.scheduled)
}

// Departmental returns the departmental list in index order.
func (o *Organizer) Departmental() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneAll(o.departmental)
}

// Prioritized returns the priority heap in pop order.
func (o *Organizer) Prioritized() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneAll(o.prio.drain())
}

// classified returns the stack (top first), the queue and the list
// concatenated. Callers hold the lock.
func (o *Organizer) classified() []model.Task {
	out := make([]model.Task, 0, len(o.urgent)+len(o.scheduled)+len(o.departmental))
	for i := len(o.urgent) - 1; i >= 0; i-- {
		out = append(out, o.urgent[i].Clone())
	}
	out = append(out, cloneAll(o.scheduled)...)
	out = append(out, cloneAll(o.departmental)...)
	return out
}

// distinct returns one copy of every known task: classified tasks first, then
// tasks only present in the priority heap. Callers hold the lock.
func (o *Organizer) distinct() []model.Task {
	seen := make(map[string]bool, len(o.lookup))
	var out []model.Task
	for _, t := range append(o.classified(), o.prio.drain()...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, o.lookup[t.ID].Clone())
	}
	return out
}

// All returns one copy of every known task.
func (o *Organizer) All() []model.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.distinct()
}
