// Package cli implements the tasktrackr terminal client.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adanyl0v/tasktrackr/internal/auth"
	"github.com/adanyl0v/tasktrackr/internal/dashboard"
)

const defaultTimeout = 30 * time.Second

// Deps are the collaborators shared by every command.
type Deps struct {
	Logger   zerolog.Logger
	Provider auth.Provider
	Gateway  dashboard.Gateway
	// Now defaults to time.Now.
	Now func() time.Time
	// Timeout bounds each command. Zero means defaultTimeout.
	Timeout time.Duration
}

type RootCommand struct {
	cmd   *cobra.Command
	deps  Deps
	debug bool
}

func NewRootCommand(deps Deps) *RootCommand {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Timeout == 0 {
		deps.Timeout = defaultTimeout
	}

	root := &RootCommand{deps: deps}
	root.cmd = &cobra.Command{
		Use:   "tasktrackr",
		Short: "Track your tasks from the terminal",
		Long: `tasktrackr signs you in and manages your task list through the task API.

EXAMPLES:
  tasktrackr signup --email ada@example.com
  tasktrackr login --email ada@example.com
  tasktrackr add "Buy milk"
  tasktrackr list
  tasktrackr toggle <id>
  tasktrackr rm <id>

CONFIGURATION:
  TASKS_API_URL              Task API base URL (default: http://localhost:5000/api/tasks)
  FIREBASE_API_KEY           Web API key of the Firebase project
  TASKTRACKR_SESSION_FILE    Session file (default: <user config dir>/tasktrackr/session.json)
  TASKTRACKR_HTTP_TIMEOUT    HTTP timeout (default: 10s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if root.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
		},
	}
	root.cmd.PersistentFlags().BoolVar(&root.debug, "debug", false, "Log debug output to stderr")

	root.addAuthCommands()
	root.addTaskCommands()
	return root
}

func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

func (r *RootCommand) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, r.deps.Timeout)
}

func (r *RootCommand) controller(cmd *cobra.Command) *dashboard.Controller {
	return dashboard.NewController(
		r.deps.Logger,
		r.deps.Provider,
		r.deps.Gateway,
		newWriterNavigator(cmd.OutOrStdout()),
	)
}
