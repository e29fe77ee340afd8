// Package memstore is an in-process task and employee store. It backs the
// "memory" storage driver and lets tests inject gateway failures.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/baiirun/taskorg/internal/model"
)

// Op names a store operation for failure injection.
type Op string

const (
	OpLoadTasks     Op = "load_tasks"
	OpSaveTask      Op = "save_task"
	OpUpdateTask    Op = "update_task"
	OpDeleteTask    Op = "delete_task"
	OpLoadEmployees Op = "load_employees"
	OpSaveEmployee  Op = "save_employee"
)

// Store keeps task records keyed by (id, kind) in insertion order.
type Store struct {
	mu        sync.Mutex
	tasks     []model.Task
	employees []model.Employee
	fail      map[Op]error
	calls     map[Op]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		fail:  make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// Calls returns how many times op has been invoked.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records a call and returns the injected failure, if any. Callers hold
// the lock.
func (s *Store) enter(op Op) error {
	s.calls[op]++
	return s.fail[op]
}

func (s *Store) LoadAllTasks(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpLoadTasks); err != nil {
		return nil, err
	}
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *Store) LoadTasksByKind(ctx context.Context, kind model.Kind) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpLoadTasks); err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range s.tasks {
		if t.Kind == kind {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (s *Store) SaveTask(ctx context.Context, task model.Task, kind model.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveTask); err != nil {
		return err
	}
	if slices.ContainsFunc(s.tasks, func(t model.Task) bool { return t.ID == task.ID && t.Kind == kind }) {
		return fmt.Errorf("%w: task %s (%s)", model.ErrDuplicateID, task.ID, kind)
	}
	task = task.Clone()
	task.Kind = kind
	s.tasks = append(s.tasks, task)
	return nil
}

// UpdateTask overwrites the shared fields of every record with the given ID.
// Each record keeps its kind, and a priority is only rewritten on records that
// already carry one.
func (s *Store) UpdateTask(ctx context.Context, id string, task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdateTask); err != nil {
		return err
	}
	found := false
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		kind, prio := s.tasks[i].Kind, s.tasks[i].Priority
		s.tasks[i] = task.Clone()
		s.tasks[i].ID = id
		s.tasks[i].Kind = kind
		if prio != nil && task.Priority != nil {
			p := *task.Priority
			prio = &p
		}
		s.tasks[i].Priority = prio
		found = true
	}
	if !found {
		return fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	return nil
}

// DeleteTask removes every record with the given ID and strips it from other
// tasks' dependencies.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpDeleteTask); err != nil {
		return err
	}
	n := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
	if len(s.tasks) == n {
		return fmt.Errorf("%w: task %s", model.ErrNotFound, id)
	}
	for i := range s.tasks {
		s.tasks[i].Dependencies = slices.DeleteFunc(s.tasks[i].Dependencies, func(d string) bool { return d == id })
	}
	return nil
}

func (s *Store) LoadAllEmployees(ctx context.Context) ([]model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpLoadEmployees); err != nil {
		return nil, err
	}
	return slices.Clone(s.employees), nil
}

func (s *Store) SaveEmployee(ctx context.Context, e model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveEmployee); err != nil {
		return err
	}
	if slices.ContainsFunc(s.employees, e.Same) {
		return fmt.Errorf("%w: employee %s", model.ErrDuplicateID, e.ID)
	}
	s.employees = append(s.employees, e)
	return nil
}

func (s *Store) NextTaskID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return model.NextTaskID(ids), nil
}

func (s *Store) NextEmployeeID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.employees))
	for i, e := range s.employees {
		ids[i] = e.ID
	}
	return model.NextEmployeeID(ids), nil
}

// Stats counts records per kind.
func (s *Store) Stats(ctx context.Context) (model.StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := model.StoreStats{Tasks: make(map[model.Kind]int), Employees: len(s.employees)}
	for _, t := range s.tasks {
		st.Tasks[t.Kind]++
	}
	return st, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
