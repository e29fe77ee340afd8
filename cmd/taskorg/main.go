package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	driver     string
	dbPath     string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "taskorg",
		Short: "Organize tasks, priorities, dependencies and employees",
		Long: `A CLI for classifying tasks into an urgent stack, a scheduled queue and a
departmental list, ranking them in a priority queue, tracking dependencies
between them and browsing employees by department.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ~/.taskorg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&o.driver, "driver", "", "storage driver: sqlite or mongo")
	rootCmd.PersistentFlags().StringVar(&o.dbPath, "db", "", "sqlite database path (default ~/.taskorg/taskorg.db)")
	rootCmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newInitCmd(o),
		newAddCmd(o),
		newPromoteCmd(o),
		newListCmd(o),
		newShowCmd(o),
		newDeleteCmd(o),
		newAssignCmd(o),
		newUpdateCmd(o),
		newUrgentCmd(o),
		newScheduledCmd(o),
		newDeptCmd(o),
		newPriorityCmd(o),
		newHoursCmd(o),
		newDistributeCmd(o),
		newStatsCmd(o),
		newDepCmd(o),
		newEmpCmd(o),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
