// Package model defines the task and employee records shared by the organizer,
// the dependency graph, the employee directory and the persistence stores.
package model

import "strings"

// Kind is the classification a task was filed under. The values are the
// persisted "tipo" strings.
type Kind string

const (
	KindUrgent       Kind = "urgente"
	KindScheduled    Kind = "programada"
	KindDepartmental Kind = "departamento"
	// KindPriority marks a task that only lives in the priority index.
	KindPriority Kind = "prioridad"
)

// IsValid returns true if the kind is a recognized classification.
func (k Kind) IsValid() bool {
	switch k {
	case KindUrgent, KindScheduled, KindDepartmental, KindPriority:
		return true
	}
	return false
}

// ParseKind accepts the persisted value or the English name.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urgente", "urgent":
		return KindUrgent, true
	case "programada", "scheduled":
		return KindScheduled, true
	case "departamento", "departmental":
		return KindDepartmental, true
	case "prioridad", "priority":
		return KindPriority, true
	}
	return "", false
}

// Urgency is the textual urgency level of a task.
type Urgency string

const (
	UrgencyCritical Urgency = "Crítica"
	UrgencyHigh     Urgency = "Alta"
	UrgencyMedium   Urgency = "Media"
	UrgencyLow      Urgency = "Baja"
)

// Rank orders urgencies: Critical < High < Medium < Low < anything else.
func (u Urgency) Rank() int {
	switch strings.ToLower(string(u)) {
	case "crítica", "critica":
		return 0
	case "alta":
		return 1
	case "media":
		return 2
	case "baja":
		return 3
	}
	return 4
}

// IsValid returns true for the four known urgency levels.
func (u Urgency) IsValid() bool {
	return u.Rank() < 4
}

// ParseUrgency accepts Spanish or English names in any case.
func ParseUrgency(s string) (Urgency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crítica", "critica", "critical":
		return UrgencyCritical, true
	case "alta", "high":
		return UrgencyHigh, true
	case "media", "medium":
		return UrgencyMedium, true
	case "baja", "low":
		return UrgencyLow, true
	}
	return "", false
}

// Priority is the extension carried by tasks in the priority index.
type Priority struct {
	Rank    int    `validate:"gte=1"`
	DueDate string `validate:"isodate"`
}

// Name maps the numeric rank to its display name.
func (p Priority) Name() string {
	switch p.Rank {
	case 1:
		return "Crítica"
	case 2:
		return "Alta"
	case 3:
		return "Media"
	case 4:
		return "Baja"
	default:
		return "No definida"
	}
}

// Task is one unit of work. Kind records the container it was filed under.
// Priority, when set, is the task's place in the priority heap.
type Task struct {
	ID             string  `validate:"required,taskid"`
	Description    string  `validate:"required,notblank"`
	Department     string  `validate:"required"`
	Urgency        Urgency `validate:"required"`
	EstimatedHours int     `validate:"gt=0,lte=999"`
	AssignedTo     *string
	Kind           Kind
	Priority       *Priority `validate:"omitempty"`
	Dependencies   []string
}

// Same reports whether both tasks have the same identity.
func (t Task) Same(o Task) bool {
	return t.ID != "" && t.ID == o.ID
}

// Clone returns a copy that shares no pointers or slices with t.
func (t Task) Clone() Task {
	c := t
	if t.AssignedTo != nil {
		a := *t.AssignedTo
		c.AssignedTo = &a
	}
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	return c
}

// WithPriority returns a copy of t carrying the given rank and due date.
func (t Task) WithPriority(rank int, dueDate string) Task {
	c := t.Clone()
	c.Priority = &Priority{Rank: rank, DueDate: dueDate}
	return c
}

// Hours returns the estimated hours, treating non-positive values as one hour.
func (t Task) Hours() int {
	if t.EstimatedHours <= 0 {
		return 1
	}
	return t.EstimatedHours
}

// ComparePriority orders tasks by priority rank ascending, then by due date
// ascending. ISO dates compare chronologically as plain strings. Tasks without
// a priority sort after tasks with one.
func ComparePriority(a, b Task) int {
	switch {
	case a.Priority == nil && b.Priority == nil:
		return 0
	case a.Priority == nil:
		return 1
	case b.Priority == nil:
		return -1
	}
	if a.Priority.Rank != b.Priority.Rank {
		if a.Priority.Rank < b.Priority.Rank {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Priority.DueDate, b.Priority.DueDate)
}

// CompareUrgencyDepartment orders by urgency rank, then department name.
func CompareUrgencyDepartment(a, b Task) int {
	if ra, rb := a.Urgency.Rank(), b.Urgency.Rank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Department, b.Department)
}
