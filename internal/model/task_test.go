package model

import (
	"errors"
	"testing"
)

func TestNextTaskID(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty", nil, "T1"},
		{"sequential", []string{"T1", "T2", "T3"}, "T4"},
		{"gaps", []string{"T2", "T10", "T7"}, "T11"},
		{"ignores other shapes", []string{"T3", "TX", "E9", "t12", "T4a"}, "T4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextTaskID(tt.ids); got != tt.want {
				t.Errorf("NextTaskID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextEmployeeID_CountsLegacyPrefix(t *testing.T) {
	got := NextEmployeeID([]string{"E2", "EMP7", "E5"})
	if got != "E8" {
		t.Errorf("NextEmployeeID() = %q, want %q", got, "E8")
	}
}

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind  Kind
		valid bool
	}{
		{KindUrgent, true},
		{KindScheduled, true},
		{KindDepartmental, true},
		{KindPriority, true},
		{Kind(""), false},
		{Kind("urgent"), false}, // persisted values only
		{Kind("Urgente"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"urgent":       KindUrgent,
		"Programada":   KindScheduled,
		"departmental": KindDepartmental,
		" priority ":   KindPriority,
	} {
		got, ok := ParseKind(in)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseKind("later"); ok {
		t.Error("expected unknown kind to be rejected")
	}
}

func TestUrgency_Rank(t *testing.T) {
	ordered := []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow, Urgency("Someday")}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("%q should rank before %q", ordered[i-1], ordered[i])
		}
	}
	if Urgency("ALTA").Rank() != UrgencyHigh.Rank() {
		t.Error("rank should be case insensitive")
	}
}

func TestParseUrgency(t *testing.T) {
	tests := []struct {
		in   string
		want Urgency
		ok   bool
	}{
		{"critical", UrgencyCritical, true},
		{"Crítica", UrgencyCritical, true},
		{"HIGH", UrgencyHigh, true},
		{"media", UrgencyMedium, true},
		{"Low", UrgencyLow, true},
		{"urgent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseUrgency(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseUrgency(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestComparePriority(t *testing.T) {
	base := Task{ID: "T1"}
	tests := []struct {
		name string
		a, b Task
		want int
	}{
		{"lower rank first", base.WithPriority(1, "2025-12-31"), base.WithPriority(2, "2025-01-01"), -1},
		{"higher rank last", base.WithPriority(3, "2025-01-01"), base.WithPriority(2, "2025-01-01"), 1},
		{"earlier due date breaks tie", base.WithPriority(2, "2025-09-18"), base.WithPriority(2, "2025-09-20"), -1},
		{"equal", base.WithPriority(2, "2025-09-18"), base.WithPriority(2, "2025-09-18"), 0},
		{"no priority sorts last", base, base.WithPriority(4, "2030-01-01"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePriority(tt.a, tt.b); got != tt.want {
				t.Errorf("ComparePriority() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriority_Name(t *testing.T) {
	if got := (Priority{Rank: 1}).Name(); got != "Crítica" {
		t.Errorf("Name() = %q, want Crítica", got)
	}
	if got := (Priority{Rank: 9}).Name(); got != "No definida" {
		t.Errorf("Name() = %q, want No definida", got)
	}
}

func TestTask_Validate(t *testing.T) {
	valid := Task{
		ID:             "T1",
		Description:    "Revisar código",
		Department:     "Desarrollo",
		Urgency:        UrgencyHigh,
		EstimatedHours: 4,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid task, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Task)
	}{
		{"bad id", func(t *Task) { t.ID = "X1" }},
		{"blank description", func(t *Task) { t.Description = "   " }},
		{"zero hours", func(t *Task) { t.EstimatedHours = 0 }},
		{"too many hours", func(t *Task) { t.EstimatedHours = 1000 }},
		{"bad due date", func(t *Task) { t.Priority = &Priority{Rank: 1, DueDate: "2025-13-40"} }},
		{"bad rank", func(t *Task) { t.Priority = &Priority{Rank: 0, DueDate: "2025-01-01"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid.Clone()
			tt.mutate(&task)
			err := task.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTask_CloneIsIndependent(t *testing.T) {
	who := "E1"
	orig := Task{ID: "T1", AssignedTo: &who, Dependencies: []string{"T2"}}.WithPriority(1, "2025-01-01")

	c := orig.Clone()
	*c.AssignedTo = "E2"
	c.Priority.Rank = 3
	c.Dependencies[0] = "T9"

	if *orig.AssignedTo != "E1" || orig.Priority.Rank != 1 || orig.Dependencies[0] != "T2" {
		t.Errorf("clone shares state with original: %+v", orig)
	}
	if !orig.Same(c) {
		t.Error("clone should keep identity")
	}
}

func TestEmployee_Validate(t *testing.T) {
	if err := (Employee{ID: "EMP3", Name: "Ana", Department: "Soporte"}).Validate(); err != nil {
		t.Errorf("legacy id should validate: %v", err)
	}
	if err := (Employee{ID: "3", Name: "Ana", Department: "Soporte"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
