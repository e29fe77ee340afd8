package db

import (
	"context"
	"fmt"
	"time"

	"github.com/baiirun/taskorg/internal/model"
)

// SaveEmployee inserts a new employee.
func (db *DB) SaveEmployee(ctx context.Context, e model.Employee) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO employees (id, name, department, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Name, e.Department, time.Now().UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: employee %s", model.ErrDuplicateID, e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// LoadAllEmployees returns every employee in insertion order.
func (db *DB) LoadAllEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, department FROM employees ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var emps []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Department); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		emps = append(emps, e)
	}
	return emps, rows.Err()
}

// NextEmployeeID returns the next E<n> identifier.
func (db *DB) NextEmployeeID(ctx context.Context) (string, error) {
	ids, err := db.column(ctx, `SELECT id FROM employees`)
	if err != nil {
		return "", fmt.Errorf("failed to list employee ids: %w", err)
	}
	return model.NextEmployeeID(ids), nil
}
