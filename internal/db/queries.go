package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baiirun/taskorg/internal/model"
)

// TaskFilter narrows ListTasks. Zero fields match everything.
type TaskFilter struct {
	Kind       model.Kind
	Department string
}

// ListTasks returns task records matching the filter in insertion order, each
// with its dependency list attached.
func (db *DB) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	query := `SELECT id, kind, description, department, urgency, estimated_hours, assigned_to, priority, due_date FROM tasks WHERE 1=1`
	args := []any{}

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	if f.Department != "" {
		query += ` AND department = ? COLLATE NOCASE`
		args = append(args, f.Department)
	}
	query += ` ORDER BY rowid ASC`

	tasks, err := db.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	deps, err := db.allDeps(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Dependencies = deps[tasks[i].ID]
	}
	return tasks, nil
}

// Stats counts task records per kind and the stored employees.
func (db *DB) Stats(ctx context.Context) (model.StoreStats, error) {
	stats := model.StoreStats{Tasks: make(map[model.Kind]int)}

	rows, err := db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM tasks GROUP BY kind`)
	if err != nil {
		return stats, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return stats, fmt.Errorf("failed to scan task count: %w", err)
		}
		stats.Tasks[model.Kind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate task counts: %w", err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&stats.Employees); err != nil {
		return stats, fmt.Errorf("failed to count employees: %w", err)
	}
	return stats, nil
}

// queryTasks is a helper to scan task rows.
func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		var assigned, due sql.NullString
		var rank sql.NullInt64
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Description, &t.Department, &t.Urgency,
			&t.EstimatedHours, &assigned, &rank, &due,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if assigned.Valid {
			t.AssignedTo = &assigned.String
		}
		if rank.Valid {
			t.Priority = &model.Priority{Rank: int(rank.Int64), DueDate: due.String}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
