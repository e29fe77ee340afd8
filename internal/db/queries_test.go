package db

import (
	"context"
	"testing"

	"github.com/baiirun/taskorg/internal/model"
)

func TestListTasks_Filters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	save := func(id, dept string, kind model.Kind) {
		t.Helper()
		task := model.Task{ID: id, Description: "d", Department: dept, Urgency: model.UrgencyMedium, EstimatedHours: 1}
		if err := db.SaveTask(ctx, task, kind); err != nil {
			t.Fatalf("failed to save %s: %v", id, err)
		}
	}
	save("T1", "Soporte", model.KindUrgent)
	save("T2", "Ventas", model.KindUrgent)
	save("T3", "soporte", model.KindDepartmental)

	tests := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{"all", TaskFilter{}, 3},
		{"kind", TaskFilter{Kind: model.KindUrgent}, 2},
		{"department ignores case", TaskFilter{Department: "SOPORTE"}, 2},
		{"both", TaskFilter{Kind: model.KindUrgent, Department: "soporte"}, 1},
		{"none", TaskFilter{Department: "Legal"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := db.ListTasks(ctx, tt.filter)
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("got %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestTask(t, db, "T1", model.KindUrgent)
	createTestTask(t, db, "T2", model.KindUrgent)
	createTestTask(t, db, "T3", model.KindScheduled)
	if err := db.SaveEmployee(ctx, model.Employee{ID: "E1", Name: "Ana", Department: "Soporte"}); err != nil {
		t.Fatalf("failed to save employee: %v", err)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Tasks[model.KindUrgent] != 2 {
		t.Errorf("urgent = %d, want 2", stats.Tasks[model.KindUrgent])
	}
	if stats.Tasks[model.KindScheduled] != 1 {
		t.Errorf("scheduled = %d, want 1", stats.Tasks[model.KindScheduled])
	}
	if stats.Tasks[model.KindDepartmental] != 0 {
		t.Errorf("departmental = %d, want 0", stats.Tasks[model.KindDepartmental])
	}
	if stats.TotalTasks() != 3 || stats.Employees != 1 {
		t.Errorf("totals = %d tasks, %d employees", stats.TotalTasks(), stats.Employees)
	}
}
