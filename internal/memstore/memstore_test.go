package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/taskorg/internal/model"
)

func task(id string) model.Task {
	return model.Task{ID: id, Description: "desc " + id, Department: "Soporte", Urgency: model.UrgencyHigh, EstimatedHours: 2}
}

func TestSaveTask_KeyedByIDAndKind(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindUrgent))
	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindScheduled))
	assert.ErrorIs(t, s.SaveTask(ctx, task("T1"), model.KindUrgent), model.ErrDuplicateID)

	urgent, err := s.LoadTasksByKind(ctx, model.KindUrgent)
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, model.KindUrgent, urgent[0].Kind)

	all, err := s.LoadAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateTask_KeepsKind(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindUrgent))
	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindDepartmental))

	upd := task("T1")
	upd.Description = "nueva"
	upd.Kind = model.KindPriority
	require.NoError(t, s.UpdateTask(ctx, "T1", upd))

	all, _ := s.LoadAllTasks(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "nueva", all[0].Description)
	assert.Equal(t, model.KindUrgent, all[0].Kind)
	assert.Equal(t, model.KindDepartmental, all[1].Kind)

	assert.ErrorIs(t, s.UpdateTask(ctx, "T9", upd), model.ErrNotFound)
}

func TestUpdateTask_PriorityStaysOnPriorityRecords(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindUrgent))
	require.NoError(t, s.SaveTask(ctx, task("T1").WithPriority(3, "2025-01-01"), model.KindPriority))

	require.NoError(t, s.UpdateTask(ctx, "T1", task("T1")))
	all, _ := s.LoadAllTasks(ctx)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].Priority)
	require.NotNil(t, all[1].Priority, "update without priority keeps the heap record")
	assert.Equal(t, 3, all[1].Priority.Rank)

	require.NoError(t, s.UpdateTask(ctx, "T1", task("T1").WithPriority(1, "2025-02-01")))
	all, _ = s.LoadAllTasks(ctx)
	assert.Nil(t, all[0].Priority, "classification record never gains a priority")
	require.NotNil(t, all[1].Priority)
	assert.Equal(t, 1, all[1].Priority.Rank)
}

func TestDeleteTask_StripsDependencies(t *testing.T) {
	ctx := context.Background()
	s := New()
	dependent := task("T2")
	dependent.Dependencies = []string{"T1"}
	require.NoError(t, s.SaveTask(ctx, task("T1"), model.KindUrgent))
	require.NoError(t, s.SaveTask(ctx, dependent, model.KindUrgent))

	require.NoError(t, s.DeleteTask(ctx, "T1"))
	all, _ := s.LoadAllTasks(ctx)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Dependencies)

	assert.ErrorIs(t, s.DeleteTask(ctx, "T1"), model.ErrNotFound)
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	s.FailOn(OpSaveTask, boom)
	assert.ErrorIs(t, s.SaveTask(ctx, task("T1"), model.KindUrgent), boom)
	assert.Equal(t, 1, s.Calls(OpSaveTask))

	s.FailOn(OpSaveTask, nil)
	assert.NoError(t, s.SaveTask(ctx, task("T1"), model.KindUrgent))
}

func TestNextIDsAndStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.SaveTask(ctx, task("T4"), model.KindUrgent))
	require.NoError(t, s.SaveTask(ctx, task("T2"), model.KindScheduled))
	require.NoError(t, s.SaveEmployee(ctx, model.Employee{ID: "EMP7", Name: "Ana", Department: "Soporte"}))
	assert.ErrorIs(t, s.SaveEmployee(ctx, model.Employee{ID: "EMP7", Name: "Otra", Department: "Ventas"}), model.ErrDuplicateID)

	id, err := s.NextTaskID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T5", id)

	id, err = s.NextEmployeeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "E8", id)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Tasks[model.KindUrgent])
	assert.Equal(t, 1, st.Tasks[model.KindScheduled])
	assert.Equal(t, 2, st.TotalTasks())
	assert.Equal(t, 1, st.Employees)
}
