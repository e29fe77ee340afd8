package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDepCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependencies between tasks",
	}
	cmd.AddCommand(
		newDepAddCmd(o),
		newDepRmCmd(o),
		newDepShowCmd(o),
		newDepOrderCmd(o),
		newDepCriticalCmd(o),
		newDepReadyCmd(o),
		newDepWavesCmd(o),
	)
	return cmd
}

func newDepAddCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <depends-on-id>",
		Short: "Record that a task depends on another",
		Args:  cobra.ExactArgs(2),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.org.AddDependency(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s now depends on %s\n", args[0], args[1])
			return nil
		}),
	}
}

func newDepRmCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id> <depends-on-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.org.RemoveDependency(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s no longer depends on %s\n", args[0], args[1])
			return nil
		}),
	}
}

func newDepShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show one task's edges, or the whole graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if len(args) == 0 {
				fmt.Fprint(a.out, a.org.DescribeGraph())
				return nil
			}
			id := args[0]
			fmt.Fprintf(a.out, "%s depends on: %s\n", id, joinOrNone(a.org.DependenciesOf(id)))
			fmt.Fprintf(a.out, "%s blocks:     %s\n", id, joinOrNone(a.org.DependentsOf(id)))
			return nil
		}),
	}
}

func newDepOrderCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print an execution order with dependencies first",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			order := a.org.TopologicalOrder()
			if a.org.HasCycle() {
				fmt.Fprintln(a.out, criticalColor.Sprint("warning: cycle detected, order is partial"))
			}
			fmt.Fprintln(a.out, joinOrNone(order))
			return nil
		}),
	}
}

func newDepCriticalCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "critical",
		Short: "Print the longest chain by estimated hours",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			path, hours := a.org.CriticalPath()
			if len(path) == 0 {
				fmt.Fprintln(a.out, dimColor.Sprint("(no tasks)"))
				return nil
			}
			fmt.Fprintf(a.out, "%s (%dh)\n", strings.Join(path, " -> "), hours)
			return nil
		}),
	}
}

func newDepReadyCmd(o *rootOptions) *cobra.Command {
	var done []string

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List tasks whose dependencies are all done",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			completed := make(map[string]bool, len(done))
			for _, id := range done {
				completed[id] = true
			}
			fmt.Fprintln(a.out, joinOrNone(a.org.ReadyTasks(completed)))
			return nil
		}),
	}
	cmd.Flags().StringSliceVar(&done, "done", nil, "comma-separated IDs of completed tasks")
	return cmd
}

func newDepWavesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "waves",
		Short: "Group tasks into batches that can run together",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			for i, wave := range a.org.Waves() {
				fmt.Fprintf(a.out, "%d: %s\n", i+1, strings.Join(wave, ", "))
			}
			return nil
		}),
	}
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	return strings.Join(ids, ", ")
}
