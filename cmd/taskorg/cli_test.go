package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baiirun/taskorg/internal/config"
	"github.com/baiirun/taskorg/internal/model"
)

// setupCLI writes a config pointing at a fresh sqlite file and returns a
// runner that executes one command line against it.
func setupCLI(t *testing.T) func(args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()

	for _, key := range []string{config.EnvDriver, config.EnvSQLitePath, config.EnvMongoURI, config.EnvMongoDatabase, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(key, "")
	}

	cfg := config.DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(dir, "test.db")
	cfg.Log.Level = "error"
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := cfg.SaveToFile(cfgPath); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return func(args ...string) (string, error) {
		var out, errOut bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
		err := cmd.Execute()
		return out.String(), err
	}
}

func mustRun(t *testing.T, run func(...string) (string, error), args ...string) string {
	t.Helper()
	out, err := run(args...)
	if err != nil {
		t.Fatalf("taskorg %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestInit(t *testing.T) {
	run := setupCLI(t)
	out := mustRun(t, run, "init")
	if !strings.Contains(out, "0 tasks, 0 employees") {
		t.Errorf("unexpected init output: %q", out)
	}
}

func TestMemoryDriverRejected(t *testing.T) {
	run := setupCLI(t)
	_, err := run("--driver", "memory", "list")
	if err == nil || !strings.Contains(err.Error(), "keeps nothing between commands") {
		t.Errorf("expected memory driver to be rejected, got %v", err)
	}
}

func TestPriority_SurvivesReclassifyAndUpdate(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "report", "-d", "Finance")
	mustRun(t, run, "promote", "T1", "--rank", "2", "--due", "2024-03-01")
	mustRun(t, run, "add", "report", "--id", "T1", "-k", "urgent", "-d", "Finance")
	mustRun(t, run, "update", "T1", "--description", "quarterly report")
	mustRun(t, run, "promote", "T1", "--rank", "1", "--due", "2024-02-01")

	out := mustRun(t, run, "list", "--json")
	var result map[string][]TaskJSON
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	prio := result["priority"]
	if len(prio) != 1 {
		t.Fatalf("expected one priority entry, got %+v", prio)
	}
	if prio[0].Priority == nil || *prio[0].Priority != 1 || prio[0].Description != "quarterly report" {
		t.Errorf("unexpected priority entry: %+v", prio[0])
	}
	if len(result["urgent"]) != 1 || result["urgent"][0].Priority != nil {
		t.Errorf("urgent copy should carry no priority: %+v", result["urgent"])
	}
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	run := setupCLI(t)

	out := mustRun(t, run, "add", "Fix", "login", "--kind", "urgent", "-d", "IT", "-u", "alta", "--hours", "3")
	if !strings.Contains(out, "Created T1 (urgente)") {
		t.Errorf("unexpected output: %q", out)
	}
	out = mustRun(t, run, "add", "Payroll", "-d", "HR")
	if !strings.Contains(out, "Created T2 (departamento)") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestAdd_Rejects(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "A", "--id", "T1", "-k", "urgent", "-d", "IT")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"duplicate in same container", []string{"add", "B", "--id", "T1", "-k", "urgent", "-d", "IT"}, model.ErrDuplicateID},
		{"priority kind", []string{"add", "B", "-k", "priority", "-d", "IT"}, model.ErrValidation},
		{"bad urgency", []string{"add", "B", "-u", "whenever", "-d", "IT"}, model.ErrValidation},
		{"bad hours", []string{"add", "B", "--hours", "0", "-d", "IT"}, model.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	// Same ID in another container is allowed.
	mustRun(t, run, "add", "A again", "--id", "T1", "-k", "scheduled", "-d", "IT")
}

func TestList_JSON(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "first", "-k", "urgent", "-d", "IT")
	mustRun(t, run, "add", "second", "-k", "urgent", "-d", "IT")
	mustRun(t, run, "add", "queued", "-k", "scheduled", "-d", "Ops")
	mustRun(t, run, "add", "listed", "-d", "HR")

	out := mustRun(t, run, "list", "--json")

	var result map[string][]TaskJSON
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	urgent := result["urgent"]
	if len(urgent) != 2 || urgent[0].ID != "T2" || urgent[1].ID != "T1" {
		t.Errorf("expected urgent top first [T2 T1], got %+v", urgent)
	}
	if len(result["scheduled"]) != 1 || result["scheduled"][0].Kind != "programada" {
		t.Errorf("unexpected scheduled: %+v", result["scheduled"])
	}
	if len(result["departmental"]) != 1 || result["departmental"][0].Department != "HR" {
		t.Errorf("unexpected departmental: %+v", result["departmental"])
	}
	if len(result["priority"]) != 0 {
		t.Errorf("expected empty priority, got %+v", result["priority"])
	}
}

func TestUrgentPop_PersistsAcrossRuns(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "older", "-k", "urgent", "-d", "IT")
	mustRun(t, run, "add", "newer", "-k", "urgent", "-d", "IT")

	out := mustRun(t, run, "urgent", "pop")
	if !strings.Contains(out, "T2") {
		t.Errorf("expected T2 popped, got %q", out)
	}
	out = mustRun(t, run, "urgent", "peek")
	if !strings.Contains(out, "T1") {
		t.Errorf("expected T1 on top, got %q", out)
	}

	mustRun(t, run, "urgent", "pop")
	_, err := run("urgent", "pop")
	if !errors.Is(err, model.ErrEmptyContainer) {
		t.Errorf("expected ErrEmptyContainer, got %v", err)
	}
}

func TestScheduled_FIFO(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "first", "-k", "scheduled", "-d", "Ops")
	mustRun(t, run, "add", "second", "-k", "scheduled", "-d", "Ops")

	out := mustRun(t, run, "scheduled", "pop")
	if !strings.Contains(out, "T1") {
		t.Errorf("expected T1 dequeued first, got %q", out)
	}
}

func TestPriority_PromoteAndPop(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "report", "-d", "Finance", "--hours", "4")
	mustRun(t, run, "add", "outage", "-k", "urgent", "-d", "IT", "-u", "critica")

	mustRun(t, run, "promote", "T1", "--rank", "2", "--due", "2024-03-01")
	mustRun(t, run, "promote", "T2", "--rank", "1", "--due", "2024-05-01")

	out := mustRun(t, run, "priority", "pop")
	if !strings.Contains(out, "T2") {
		t.Errorf("expected T2 (rank 1) first, got %q", out)
	}
	out = mustRun(t, run, "priority", "peek")
	if !strings.Contains(out, "T1") {
		t.Errorf("expected T1 next, got %q", out)
	}

	// The popped task is gone from every container.
	if _, err := run("show", "T2"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for popped task, got %v", err)
	}
}

func TestPromote_Rejects(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "report", "-d", "Finance")

	if _, err := run("promote", "T9", "--due", "2024-01-01"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := run("promote", "T1", "--rank", "0", "--due", "2024-01-01"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for rank 0, got %v", err)
	}
	if _, err := run("promote", "T1", "--due", "someday"); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected ErrValidation for bad date, got %v", err)
	}
}

func TestDeps(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "design", "-d", "IT", "--hours", "2")
	mustRun(t, run, "add", "build", "-d", "IT", "--hours", "5")
	mustRun(t, run, "add", "ship", "-d", "IT", "--hours", "1")

	mustRun(t, run, "dep", "add", "T2", "T1")
	mustRun(t, run, "dep", "add", "T3", "T2")

	if _, err := run("dep", "add", "T1", "T3"); !errors.Is(err, model.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
	if _, err := run("dep", "add", "T1", "T9"); !errors.Is(err, model.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}

	out := mustRun(t, run, "dep", "order")
	if strings.TrimSpace(out) != "T1, T2, T3" {
		t.Errorf("expected dependencies first, got %q", out)
	}

	out = mustRun(t, run, "dep", "critical")
	if strings.TrimSpace(out) != "T1 -> T2 -> T3 (8h)" {
		t.Errorf("unexpected critical path: %q", out)
	}

	out = mustRun(t, run, "dep", "ready", "--done", "T1")
	if strings.TrimSpace(out) != "T2" {
		t.Errorf("expected only T2 ready, got %q", out)
	}

	mustRun(t, run, "dep", "rm", "T3", "T2")
	if _, err := run("dep", "rm", "T3", "T2"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound removing a missing edge, got %v", err)
	}

	out = mustRun(t, run, "show", "T2", "--json")
	var task TaskJSON
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(task.Dependencies) != 1 || task.Dependencies[0] != "T1" {
		t.Errorf("expected T2 to depend on T1, got %v", task.Dependencies)
	}
}

func TestEmployeesAndAssign(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "emp", "add", "Ana", "Ruiz", "-d", "Marketing")
	mustRun(t, run, "emp", "add", "Luis", "-d", "IT")
	mustRun(t, run, "add", "campaign", "-d", "Marketing")

	out := mustRun(t, run, "emp", "list", "-d", "marketing")
	if !strings.Contains(out, "E1") || strings.Contains(out, "E2") {
		t.Errorf("expected only E1 in Marketing, got %q", out)
	}

	if _, err := run("assign", "T1", "E9"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown employee, got %v", err)
	}
	out = mustRun(t, run, "assign", "T1", "E1")
	if !strings.Contains(out, "Assigned T1 to Ana Ruiz (E1)") {
		t.Errorf("unexpected output: %q", out)
	}

	out = mustRun(t, run, "emp", "find", "E1")
	if !strings.Contains(out, "T1") {
		t.Errorf("expected T1 under E1, got %q", out)
	}

	out = mustRun(t, run, "emp", "tree")
	if !strings.Contains(out, "2 employees, height 2") {
		t.Errorf("unexpected tree output: %q", out)
	}
}

func TestHoursAndDistribute(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "a", "-k", "urgent", "-d", "IT", "--hours", "2")
	mustRun(t, run, "add", "b", "-k", "scheduled", "-d", "HR", "--hours", "3")
	mustRun(t, run, "add", "c", "-d", "Ops", "--hours", "4")

	out := mustRun(t, run, "hours")
	if !strings.Contains(out, "Total estimated hours: 9") {
		t.Errorf("unexpected hours output: %q", out)
	}

	out = mustRun(t, run, "distribute", "--teams", "A,B")
	if !strings.Contains(out, "Team A") || !strings.Contains(out, "Team B") {
		t.Errorf("expected both teams, got %q", out)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "draft", "-d", "IT", "--hours", "2")

	mustRun(t, run, "update", "T1", "--description", "final", "--hours", "6")
	out := mustRun(t, run, "show", "T1", "--json")
	var task TaskJSON
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if task.Description != "final" || task.Hours != 6 {
		t.Errorf("update not persisted: %+v", task)
	}

	mustRun(t, run, "delete", "T1")
	if _, err := run("delete", "T1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestDeptGet(t *testing.T) {
	run := setupCLI(t)
	mustRun(t, run, "add", "first", "-d", "HR")
	mustRun(t, run, "add", "second", "-d", "HR")

	out := mustRun(t, run, "dept", "get", "1")
	if !strings.Contains(out, "T2") {
		t.Errorf("expected T2 at index 1, got %q", out)
	}
	if _, err := run("dept", "get", "2"); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
