package organizer

import (
	"context"

	"github.com/baiirun/taskorg/internal/model"
)

// Gateway is the persistence collaborator the organizer mirrors every change
// to. Implementations report a missing target with an error wrapping
// model.ErrNotFound.
type Gateway interface {
	LoadAllTasks(ctx context.Context) ([]model.Task, error)
	LoadTasksByKind(ctx context.Context, kind model.Kind) ([]model.Task, error)
	SaveTask(ctx context.Context, task model.Task, kind model.Kind) error
	UpdateTask(ctx context.Context, id string, task model.Task) error
	DeleteTask(ctx context.Context, id string) error
	LoadAllEmployees(ctx context.Context) ([]model.Employee, error)
	SaveEmployee(ctx context.Context, e model.Employee) error
	NextTaskID(ctx context.Context) (string, error)
	NextEmployeeID(ctx context.Context) (string, error)
}
