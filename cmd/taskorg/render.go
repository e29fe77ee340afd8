package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/baiirun/taskorg/internal/model"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgYellow)
	mediumColor   = color.New(color.FgCyan)
	lowColor      = color.New(color.FgGreen)
	headerColor   = color.New(color.Bold)
	dimColor      = color.New(color.Faint)
)

func urgencyLabel(u model.Urgency) string {
	label := string(u)
	switch u.Rank() {
	case 0:
		return criticalColor.Sprint(label)
	case 1:
		return highColor.Sprint(label)
	case 2:
		return mediumColor.Sprint(label)
	case 3:
		return lowColor.Sprint(label)
	}
	return dimColor.Sprint(label)
}

// taskLine renders one task on a single line.
func taskLine(t model.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-5s [%s] %s (%s, %dh)", t.ID, urgencyLabel(t.Urgency), t.Description, t.Department, t.EstimatedHours)
	if t.Priority != nil {
		fmt.Fprintf(&sb, " p%d %s", t.Priority.Rank, t.Priority.DueDate)
	}
	if t.AssignedTo != nil {
		fmt.Fprintf(&sb, " @%s", *t.AssignedTo)
	}
	return sb.String()
}

func printSection(w io.Writer, title string, tasks []model.Task) {
	fmt.Fprintf(w, "%s (%d)\n", headerColor.Sprint(title), len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("  (empty)"))
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s\n", taskLine(t))
	}
}

func printTask(w io.Writer, t model.Task, dependents []string) {
	fmt.Fprintf(w, "%s %s\n", headerColor.Sprint(t.ID), t.Description)
	fmt.Fprintf(w, "  Department: %s\n", t.Department)
	fmt.Fprintf(w, "  Urgency:    %s\n", urgencyLabel(t.Urgency))
	fmt.Fprintf(w, "  Hours:      %d\n", t.EstimatedHours)
	fmt.Fprintf(w, "  Kind:       %s\n", t.Kind)
	if t.AssignedTo != nil {
		fmt.Fprintf(w, "  Assigned:   %s\n", *t.AssignedTo)
	}
	if t.Priority != nil {
		fmt.Fprintf(w, "  Priority:   %d (%s), due %s\n", t.Priority.Rank, t.Priority.Name(), t.Priority.DueDate)
	}
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(w, "  Depends on: %s\n", strings.Join(t.Dependencies, ", "))
	}
	if len(dependents) > 0 {
		fmt.Fprintf(w, "  Blocks:     %s\n", strings.Join(dependents, ", "))
	}
}

// TaskJSON is the JSON shape of a task.
type TaskJSON struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Department   string   `json:"department"`
	Urgency      string   `json:"urgency"`
	Hours        int      `json:"estimated_hours"`
	AssignedTo   *string  `json:"assigned_to,omitempty"`
	Kind         string   `json:"kind"`
	Priority     *int     `json:"priority,omitempty"`
	DueDate      *string  `json:"due_date,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func toTaskJSON(t model.Task) TaskJSON {
	j := TaskJSON{
		ID:           t.ID,
		Description:  t.Description,
		Department:   t.Department,
		Urgency:      string(t.Urgency),
		Hours:        t.EstimatedHours,
		AssignedTo:   t.AssignedTo,
		Kind:         string(t.Kind),
		Dependencies: t.Dependencies,
	}
	if t.Priority != nil {
		rank, due := t.Priority.Rank, t.Priority.DueDate
		j.Priority = &rank
		j.DueDate = &due
	}
	return j
}

func tasksJSON(tasks []model.Task) []TaskJSON {
	out := make([]TaskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
