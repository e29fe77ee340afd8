package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baiirun/taskorg/internal/model"
)

func newEmpCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emp",
		Short: "Manage employees",
	}
	cmd.AddCommand(newEmpAddCmd(o), newEmpListCmd(o), newEmpFindCmd(o), newEmpTreeCmd(o))
	return cmd
}

func newEmpAddCmd(o *rootOptions) *cobra.Command {
	var department, id string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an employee",
		Args:  cobra.MinimumNArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ctx := cmd.Context()
			if id == "" {
				next, err := a.store.NextEmployeeID(ctx)
				if err != nil {
					return err
				}
				id = next
			}
			emp := model.Employee{ID: id, Name: strings.Join(args, " "), Department: department}
			if err := emp.Validate(); err != nil {
				return err
			}
			if err := a.store.SaveEmployee(ctx, emp); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created employee %s: %s (%s)\n", emp.ID, emp.Name, emp.Department)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&department, "department", "d", "", "department name")
	cmd.Flags().StringVar(&id, "id", "", "employee id (default: next E<n>)")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

func newEmpListCmd(o *rootOptions) *cobra.Command {
	var department string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees, optionally for one department",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			dir, err := a.directory(cmd.Context())
			if err != nil {
				return err
			}

			var emps []model.Employee
			if department != "" {
				emps = dir.SearchByDepartment(department)
			} else {
				dir.Walk(func(e model.Employee) { emps = append(emps, e) })
			}

			fmt.Fprintf(a.out, "%s (%d)\n", headerColor.Sprint("Employees"), len(emps))
			if len(emps) == 0 {
				fmt.Fprintln(a.out, dimColor.Sprint("  (none)"))
			}
			for _, e := range emps {
				fmt.Fprintf(a.out, "  %-5s %s (%s)\n", e.ID, e.Name, e.Department)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&department, "department", "d", "", "filter by department")
	return cmd
}

func newEmpFindCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <id>",
		Short: "Show one employee and the tasks assigned to them",
		Args:  cobra.ExactArgs(1),
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			dir, err := a.directory(cmd.Context())
			if err != nil {
				return err
			}
			e, ok := dir.SearchByID(args[0])
			if !ok {
				return fmt.Errorf("%w: employee %s", model.ErrNotFound, args[0])
			}
			fmt.Fprintf(a.out, "%s %s (%s)\n", headerColor.Sprint(e.ID), e.Name, e.Department)

			var assigned []model.Task
			for _, t := range a.org.All() {
				if t.AssignedTo != nil && *t.AssignedTo == e.ID {
					assigned = append(assigned, t)
				}
			}
			printSection(a.out, "Assigned", assigned)
			return nil
		}),
	}
}

func newEmpTreeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Draw the employee tree by department",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			dir, err := a.directory(cmd.Context())
			if err != nil {
				return err
			}
			if dir.IsEmpty() {
				fmt.Fprintln(a.out, dimColor.Sprint("(no employees)"))
				return nil
			}
			fmt.Fprint(a.out, dir.String())
			fmt.Fprintf(a.out, "%d employees, height %d\n", dir.Count(), dir.Height())
			return nil
		}),
	}
}
