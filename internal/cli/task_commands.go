package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/tasktrackr/internal/dashboard"
)

func (r *RootCommand) addTaskCommands() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: r.runTaskCommand(func(*cobra.Command, *dashboard.Controller, []string) error {
			return nil
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.runTaskCommand(func(cmd *cobra.Command, ctrl *dashboard.Controller, args []string) error {
			_, err := ctrl.AddTask(cmd.Context(), strings.Join(args, " "))
			return err
		}),
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: r.runTaskCommand(func(cmd *cobra.Command, ctrl *dashboard.Controller, args []string) error {
			_, err := ctrl.ToggleTask(cmd.Context(), args[0])
			return err
		}),
	}

	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: r.runTaskCommand(func(cmd *cobra.Command, ctrl *dashboard.Controller, args []string) error {
			return ctrl.DeleteTask(cmd.Context(), args[0])
		}),
	}

	r.cmd.AddCommand(listCmd, addCmd, toggleCmd, rmCmd)
}

// runTaskCommand syncs the dashboard, runs fn and prints the resulting list.
func (r *RootCommand) runTaskCommand(
	fn func(cmd *cobra.Command, ctrl *dashboard.Controller, args []string) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := r.context(cmd)
		defer cancel()
		cmd.SetContext(ctx)

		ctrl := r.controller(cmd)
		err := ctrl.Sync(ctx)
		if err != nil {
			return err
		}
		if ctrl.State().UserID == "" {
			return dashboard.ErrSignedOut
		}

		err = fn(cmd, ctrl, args)
		if err != nil {
			return err
		}
		return printTasks(cmd.OutOrStdout(), ctrl.State().Tasks)
	}
}
