package db

import (
	"context"
	"database/sql"
	"fmt"
)

// setDeps replaces the dependency list of taskID inside tx.
func setDeps(ctx context.Context, tx *sql.Tx, taskID string, deps []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_deps WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear dependencies: %w", err)
	}
	for _, dep := range deps {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_deps (task_id, depends_on) VALUES (?, ?)`,
			taskID, dep); err != nil {
			return fmt.Errorf("failed to add dependency: %w", err)
		}
	}
	return nil
}

// GetDeps returns the IDs of tasks that the given task depends on.
func (db *DB) GetDeps(ctx context.Context, taskID string) ([]string, error) {
	deps, err := db.column(ctx, `SELECT depends_on FROM task_deps WHERE task_id = ? ORDER BY rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies: %w", err)
	}
	return deps, nil
}

// allDeps returns every dependency list keyed by task ID.
func (db *DB) allDeps(ctx context.Context) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT task_id, depends_on FROM task_deps ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deps := make(map[string][]string)
	for rows.Next() {
		var taskID, dependsOn string
		if err := rows.Scan(&taskID, &dependsOn); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps[taskID] = append(deps[taskID], dependsOn)
	}
	return deps, rows.Err()
}

// DepEdge is one dependency with the descriptions of both ends.
type DepEdge struct {
	TaskID               string
	TaskDescription      string
	DependsOnID          string
	DependsOnDescription string
}

// GetAllDeps returns every stored dependency edge, optionally filtered by the
// dependent task's department.
func (db *DB) GetAllDeps(ctx context.Context, department string) ([]DepEdge, error) {
	// every row of a task shares its description
	query := `
		SELECT d.task_id,
		       (SELECT description FROM tasks WHERE id = d.task_id LIMIT 1),
		       d.depends_on,
		       COALESCE((SELECT description FROM tasks WHERE id = d.depends_on LIMIT 1), '')
		FROM task_deps d
		WHERE EXISTS (SELECT 1 FROM tasks t WHERE t.id = d.task_id`
	args := []any{}
	if department != "" {
		query += ` AND t.department = ?`
		args = append(args, department)
	}
	query += `)
		ORDER BY d.task_id, d.rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []DepEdge
	for rows.Next() {
		var e DepEdge
		if err := rows.Scan(&e.TaskID, &e.TaskDescription, &e.DependsOnID, &e.DependsOnDescription); err != nil {
			return nil, fmt.Errorf("failed to scan dep edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
