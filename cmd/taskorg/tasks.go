package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baiirun/taskorg/internal/config"
	"github.com/baiirun/taskorg/internal/model"
	"github.com/baiirun/taskorg/internal/organizer"
)

func newInitCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			st, err := a.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			where := a.cfg.Storage.Driver
			if where == config.DriverSQLite && a.cfg.Storage.SQLitePath != "" {
				where = a.cfg.Storage.SQLitePath
			}
			fmt.Fprintf(a.out, "Initialized task store (%s): %d tasks, %d employees\n", where, st.TotalTasks(), st.Employees)
			return nil
		}),
	}
}

func parseUrgency(s string) (model.Urgency, error) {
	u, ok := model.ParseUrgency(s)
	if !ok {
		return "", fmt.Errorf("%w: invalid urgency %q (use critica, alta, media or baja)", model.ErrValidation, s)
	}
	return u, nil
}

func parseClassKind(s string) (model.Kind, error) {
	k, ok := model.ParseKind(s)
	if !ok || k == model.KindPriority {
		return "", fmt.Errorf("%w: invalid kind %q (use urgent, scheduled or departmental)", model.ErrValidation, s)
	}
	return k, nil
}

func newAddCmd(o *rootOptions) *cobra.Command {
	var kind, department, urgency, id string
	var hours int

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a task in the urgent stack, scheduled queue or departmental list",
		Args:  cobra.MinimumNArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			k, err := parseClassKind(kind)
			if err != nil {
				return err
			}
			u, err := parseUrgency(urgency)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if id == "" {
				if id, err = a.store.NextTaskID(ctx); err != nil {
					return err
				}
			}

			task := model.Task{
				ID:             id,
				Description:    strings.Join(args, " "),
				Department:     department,
				Urgency:        u,
				EstimatedHours: hours,
			}
			if err := a.org.Classify(ctx, task, k); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s (%s)\n", task.ID, k)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "departmental", "urgent, scheduled or departmental")
	cmd.Flags().StringVarP(&department, "department", "d", "", "department name")
	cmd.Flags().StringVarP(&urgency, "urgency", "u", "media", "critica, alta, media or baja")
	cmd.Flags().IntVar(&hours, "hours", 1, "estimated hours")
	cmd.Flags().StringVar(&id, "id", "", "task id (default: next T<n>)")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

func newPromoteCmd(o *rootOptions) *cobra.Command {
	var rank int
	var due string

	cmd := &cobra.Command{
		Use:   "promote <id>",
		Short: "Add a task to the priority queue",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			task, ok := a.org.FindByID(args[0])
			if !ok {
				return fmt.Errorf("%w: task %s (use 'taskorg list' to see available tasks)", model.ErrNotFound, args[0])
			}
			if err := a.org.Promote(cmd.Context(), task, rank, due); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Promoted %s with priority %d due %s\n", task.ID, rank, due)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&rank, "rank", "r", 3, "priority rank (1 = highest)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newListCmd(o *rootOptions) *cobra.Command {
	var asJSON, sorted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every container",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if sorted {
				tasks := a.org.SortedSnapshot()
				if asJSON {
					return writeJSON(a.out, tasksJSON(tasks))
				}
				printSection(a.out, "By urgency and department", tasks)
				return nil
			}

			if asJSON {
				return writeJSON(a.out, map[string][]TaskJSON{
					"urgent":       tasksJSON(a.org.Urgent()),
					"scheduled":    tasksJSON(a.org.Scheduled()),
					"departmental": tasksJSON(a.org.Departmental()),
					"priority":     tasksJSON(a.org.Prioritized()),
				})
			}
			printSection(a.out, "Urgent (top first)", a.org.Urgent())
			printSection(a.out, "Scheduled (front first)", a.org.Scheduled())
			printSection(a.out, "Departmental", a.org.Departmental())
			printSection(a.out, "Priority", a.org.Prioritized())
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&sorted, "sorted", false, "merge containers ordered by urgency, then department")
	return cmd
}

func newShowCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			task, ok := a.org.FindByID(args[0])
			if !ok {
				return fmt.Errorf("%w: task %s (use 'taskorg list' to see available tasks)", model.ErrNotFound, args[0])
			}
			if asJSON {
				return writeJSON(a.out, toTaskJSON(task))
			}
			printTask(a.out, task, a.org.DependentsOf(task.ID))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task from every container",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.org.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newAssignCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <employee-id>",
		Short: "Assign a task to an employee",
		Args:  cobra.ExactArgs(2),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()
			dir, err := a.directory(ctx)
			if err != nil {
				return err
			}
			emp, ok := dir.SearchByID(args[1])
			if !ok {
				return fmt.Errorf("%w: employee %s (use 'taskorg emp list' to see employees)", model.ErrNotFound, args[1])
			}
			task, err := a.org.Assign(ctx, args[0], emp.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Assigned %s to %s (%s)\n", task.ID, emp.Name, emp.ID)
			return nil
		}),
	}
}

func newUpdateCmd(o *rootOptions) *cobra.Command {
	var description, department, urgency string
	var hours int
	var unassign bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			var edit organizer.Edit
			flags := cmd.Flags()
			if flags.Changed("description") {
				edit.Description = &description
			}
			if flags.Changed("department") {
				edit.Department = &department
			}
			if flags.Changed("urgency") {
				u, err := parseUrgency(urgency)
				if err != nil {
					return err
				}
				edit.Urgency = &u
			}
			if flags.Changed("hours") {
				edit.EstimatedHours = &hours
			}
			edit.Unassign = unassign

			task, err := a.org.Update(cmd.Context(), args[0], edit)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", task.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVarP(&department, "department", "d", "", "new department")
	cmd.Flags().StringVarP(&urgency, "urgency", "u", "", "new urgency")
	cmd.Flags().IntVar(&hours, "hours", 0, "new estimated hours")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "clear the assignee")
	return cmd
}

// newContainerCmd builds the peek/pop pair for the urgent stack or the
// scheduled queue.
func newContainerCmd(o *rootOptions, use, short string, peek func(*app) (model.Task, error), pop func(*cobra.Command, *app) (model.Task, error)) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "peek",
			Short: "Show the next task without removing it",
			Args:  cobra.NoArgs,
			RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
				t, err := peek(a)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, taskLine(t))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "pop",
			Short: "Remove and show the next task",
			Args:  cobra.NoArgs,
			RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
				t, err := pop(cmd, a)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Removed %s\n", taskLine(t))
				return nil
			}),
		},
	)
	return cmd
}

func newUrgentCmd(o *rootOptions) *cobra.Command {
	return newContainerCmd(o, "urgent", "Work with the urgent stack (last in, first out)",
		func(a *app) (model.Task, error) { return a.org.PeekUrgent() },
		func(cmd *cobra.Command, a *app) (model.Task, error) { return a.org.PopUrgent(cmd.Context()) },
	)
}

func newScheduledCmd(o *rootOptions) *cobra.Command {
	return newContainerCmd(o, "scheduled", "Work with the scheduled queue (first in, first out)",
		func(a *app) (model.Task, error) { return a.org.PeekScheduled() },
		func(cmd *cobra.Command, a *app) (model.Task, error) { return a.org.PopScheduled(cmd.Context()) },
	)
}

func newPriorityCmd(o *rootOptions) *cobra.Command {
	cmd := newContainerCmd(o, "priority", "Work with the priority queue (rank, then due date)",
		func(a *app) (model.Task, error) { return a.org.PeekHighestPriority() },
		func(cmd *cobra.Command, a *app) (model.Task, error) { return a.org.PopHighestPriority(cmd.Context()) },
	)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the priority queue in pop order",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			printSection(a.out, "Priority", a.org.Prioritized())
			return nil
		}),
	})
	return cmd
}

func newDeptCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "dept", Short: "Work with the departmental list"}

	var department string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the departmental list, or every task of one department",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if department != "" {
				printSection(a.out, "Department "+department, a.org.TasksByDepartment(department))
				return nil
			}
			printSection(a.out, "Departmental", a.org.Departmental())
			return nil
		}),
	}
	listCmd.Flags().StringVarP(&department, "department", "d", "", "show every known task of this department")

	getCmd := &cobra.Command{
		Use:   "get <index>",
		Short: "Show the task at a position of the departmental list",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			var i int
			if _, err := fmt.Sscanf(args[0], "%d", &i); err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			t, err := a.org.DepartmentalAt(i)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, taskLine(t))
			return nil
		}),
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func newHoursCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hours",
		Short: "Total estimated hours across the stack, queue and departmental list",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			fmt.Fprintf(a.out, "Total estimated hours: %d\n", a.org.TotalEstimatedHours())
			return nil
		}),
	}
}

func newDistributeCmd(o *rootOptions) *cobra.Command {
	var teams []string

	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Spread tasks over teams by recursive midpoint split",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			tasks := a.org.SortedSnapshot()
			if len(teams) == 0 {
				printSection(a.out, "Distribution order", organizer.DistributeByMidpoint(tasks))
				return nil
			}
			byTeam := organizer.DistributeToTeams(tasks, teams)
			for _, team := range teams {
				printSection(a.out, "Team "+team, byTeam[team])
			}
			return nil
		}),
	}
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "comma-separated team names")
	return cmd
}

func newStatsCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show container, store and department statistics",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			stored, err := a.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			counts := a.org.Counts()
			depts := a.org.DepartmentStats()
			all := a.org.All()
			graph := a.org.GraphStats()

			if asJSON {
				return writeJSON(a.out, map[string]any{
					"containers":    counts,
					"store":         stored,
					"departments":   depts,
					"average_hours": organizer.AverageHours(all),
					"graph":         graph,
				})
			}

			w := a.out
			fmt.Fprintln(w, headerColor.Sprint("Containers"))
			fmt.Fprintf(w, "  urgent %d, scheduled %d, departmental %d, priority %d, distinct %d\n",
				counts.Urgent, counts.Scheduled, counts.Departmental, counts.Priority, counts.Distinct)
			fmt.Fprintln(w, headerColor.Sprint("Store"))
			for _, k := range []model.Kind{model.KindUrgent, model.KindScheduled, model.KindDepartmental, model.KindPriority} {
				fmt.Fprintf(w, "  %-12s %d\n", k, stored.Tasks[k])
			}
			fmt.Fprintf(w, "  %-12s %d\n", "empleados", stored.Employees)
			fmt.Fprintln(w, headerColor.Sprint("Departments"))
			for _, d := range depts {
				fmt.Fprintf(w, "  %-16s %d tasks, %dh\n", d.Department, d.Tasks, d.Hours)
			}
			fmt.Fprintf(w, "Average hours: %.1f\n", organizer.AverageHours(all))
			if longest, ok := organizer.Longest(all); ok {
				fmt.Fprintf(w, "Longest task: %s\n", taskLine(longest))
			}
			fmt.Fprintf(w, "Dependencies: %d across %d tasks", graph.Dependencies, graph.Tasks)
			if len(graph.CriticalPath) > 0 {
				fmt.Fprintf(w, ", critical path %s (%dh)", strings.Join(graph.CriticalPath, " -> "), graph.PathHours)
			}
			fmt.Fprintln(w)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
