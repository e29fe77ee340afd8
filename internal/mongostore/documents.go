package mongostore

import (
	"github.com/baiirun/taskorg/internal/model"
)

// taskDoc is the stored shape of a task in the tareas collection. The same id
// appears once per tipo.
type taskDoc struct {
	ID               string   `bson:"id"`
	Descripcion      string   `bson:"descripcion"`
	Departamento     string   `bson:"departamento"`
	Urgencia         string   `bson:"urgencia"`
	HorasEstimadas   int      `bson:"horasEstimadas"`
	EmpleadoAsignado *string  `bson:"empleadoAsignado,omitempty"`
	Tipo             string   `bson:"tipo"`
	Prioridad        *int     `bson:"prioridad,omitempty"`
	FechaEntrega     *string  `bson:"fechaEntrega,omitempty"`
	Dependencias     []string `bson:"dependencias,omitempty"`
}

// employeeDoc is the stored shape of an employee in the empleados collection.
type employeeDoc struct {
	ID           string `bson:"id"`
	Nombre       string `bson:"nombre"`
	Departamento string `bson:"departamento"`
}

func toTaskDoc(t model.Task, kind model.Kind) taskDoc {
	d := taskDoc{
		ID:               t.ID,
		Descripcion:      t.Description,
		Departamento:     t.Department,
		Urgencia:         string(t.Urgency),
		HorasEstimadas:   t.EstimatedHours,
		EmpleadoAsignado: t.AssignedTo,
		Tipo:             string(kind),
		Dependencias:     t.Dependencies,
	}
	if t.Priority != nil {
		rank, due := t.Priority.Rank, t.Priority.DueDate
		d.Prioridad = &rank
		d.FechaEntrega = &due
	}
	return d
}

func (d taskDoc) task() model.Task {
	t := model.Task{
		ID:             d.ID,
		Description:    d.Descripcion,
		Department:     d.Departamento,
		Urgency:        model.Urgency(d.Urgencia),
		EstimatedHours: d.HorasEstimadas,
		AssignedTo:     d.EmpleadoAsignado,
		Kind:           model.Kind(d.Tipo),
		Dependencies:   d.Dependencias,
	}
	if d.Prioridad != nil {
		p := model.Priority{Rank: *d.Prioridad}
		if d.FechaEntrega != nil {
			p.DueDate = *d.FechaEntrega
		}
		t.Priority = &p
	}
	return t
}

func toEmployeeDoc(e model.Employee) employeeDoc {
	return employeeDoc{ID: e.ID, Nombre: e.Name, Departamento: e.Department}
}

func (d employeeDoc) employee() model.Employee {
	return model.Employee{ID: d.ID, Name: d.Nombre, Department: d.Departamento}
}
