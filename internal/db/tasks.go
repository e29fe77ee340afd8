package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baiirun/taskorg/internal/model"
)

// SaveTask inserts a task record under the given kind, along with its
// dependencies.
func (db *DB) SaveTask(ctx context.Context, task model.Task, kind model.Kind) error {
	if !kind.IsValid() {
		return fmt.Errorf("invalid task kind: %s", kind)
	}

	var rank sql.NullInt64
	var due sql.NullString
	if task.Priority != nil {
		rank = sql.NullInt64{Int64: int64(task.Priority.Rank), Valid: true}
		due = sql.NullString{String: task.Priority.DueDate, Valid: true}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, kind, description, department, urgency, estimated_hours, assigned_to, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, kind, task.Description, task.Department, task.Urgency, task.EstimatedHours,
		task.AssignedTo, rank, due, now, now,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: task %s already stored as %s", model.ErrDuplicateID, task.ID, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	for _, dep := range task.Dependencies {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_deps (task_id, depends_on) VALUES (?, ?)`,
			task.ID, dep); err != nil {
			return fmt.Errorf("failed to add dependency: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}
	return nil
}

// UpdateTask rewrites the shared fields of every record with the given ID
// (one per kind) and replaces its dependency list. A priority is only written
// to records that already carry one; classification records never gain or
// lose a priority here.
func (db *DB) UpdateTask(ctx context.Context, id string, task model.Task) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET description = ?, department = ?, urgency = ?, estimated_hours = ?,
		    assigned_to = ?, updated_at = ?
		WHERE id = ?`,
		task.Description, task.Department, task.Urgency, task.EstimatedHours,
		task.AssignedTo, now, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: task %s (use 'taskorg list' to see available tasks)", model.ErrNotFound, id)
	}

	if task.Priority != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET priority = ?, due_date = ?
			WHERE id = ? AND priority IS NOT NULL`,
			task.Priority.Rank, task.Priority.DueDate, id); err != nil {
			return fmt.Errorf("failed to update priority: %w", err)
		}
	}

	if err := setDeps(ctx, tx, id, task.Dependencies); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}
	return nil
}

// DeleteTask removes every record with the given ID and its dependencies in
// both directions.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: task %s (use 'taskorg list' to see available tasks)", model.ErrNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_deps WHERE task_id = ? OR depends_on = ?`, id, id); err != nil {
		return fmt.Errorf("failed to delete dependencies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// LoadAllTasks returns every task record in insertion order.
func (db *DB) LoadAllTasks(ctx context.Context) ([]model.Task, error) {
	return db.ListTasks(ctx, TaskFilter{})
}

// LoadTasksByKind returns the records stored under kind in insertion order.
func (db *DB) LoadTasksByKind(ctx context.Context, kind model.Kind) ([]model.Task, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid task kind: %s", kind)
	}
	return db.ListTasks(ctx, TaskFilter{Kind: kind})
}

// NextTaskID returns T<n+1> for the highest stored T<n>.
func (db *DB) NextTaskID(ctx context.Context) (string, error) {
	ids, err := db.column(ctx, `SELECT DISTINCT id FROM tasks`)
	if err != nil {
		return "", fmt.Errorf("failed to list task ids: %w", err)
	}
	return model.NextTaskID(ids), nil
}

// column runs a single-column string query.
func (db *DB) column(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
