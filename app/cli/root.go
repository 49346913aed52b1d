package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// RootCommand is the todo command tree.
type RootCommand struct {
	cmd *cobra.Command
	app *App
}

// NewRootCommand builds the command tree over app.
func NewRootCommand(app *App) *RootCommand {
	root := &RootCommand{app: app}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "Manage your task list",
		Long: `todo talks to the task API. Outside development mode every request is
signed with temporary credentials obtained for your session, so sign in
first.

EXAMPLES:
  todo login dan                     # Sign in, prompting for the password
  todo add "Buy milk"                # Add a task
  todo list                          # Show all tasks
  todo done 3f2a...                  # Toggle completion
  todo rename 3f2a... "Buy oat milk" # Rename a task
  todo rm 3f2a...                    # Delete a task
  todo logout                        # Forget the session

CONFIGURATION:
  API_URL                            Task collection URL (default: http://localhost:3001/task)
  DEVELOPMENT                        Send unsigned requests, no sign-in needed
  AWS_REGION                         Region of the identity pools and API
  COGNITO_USER_POOL_ID               User pool that signs you in
  COGNITO_USER_POOL_APP_CLIENT_ID    App client of that pool
  COGNITO_IDENTITY_POOL_ID           Identity pool issuing credentials
  SESSION_FILE                       Where the session is kept between commands
  CLIENT_TIMEOUT                     Per-command timeout (default: 30s)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addSubcommands()
	return root
}

// Execute runs the command named by args.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	r.cmd.SetOut(r.app.out)
	r.cmd.SetErr(r.app.out)
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) addSubcommands() {
	gated := func(cmd *cobra.Command, args []string) error {
		return r.app.requireSession()
	}

	loginCmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and keep the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			password, _ := cmd.Flags().GetString("password")
			return NewLoginCommand(r.app).Execute(ctx, args[0], password)
		},
	}
	loginCmd.Flags().String("password", "", "Password (read from stdin when omitted)")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewLogoutCommand(r.app).Execute()
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		PreRunE: gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			return NewTaskCommand(r.app).List(ctx)
		},
	}

	addCmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a task",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Add(ctx, args)
		},
	}

	doneCmd := &cobra.Command{
		Use:     "done <id>",
		Short:   "Toggle whether a task is completed",
		Args:    cobra.ExactArgs(1),
		PreRunE: gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Toggle(ctx, args[0])
		},
	}

	renameCmd := &cobra.Command{
		Use:     "rename <id> <name>",
		Short:   "Rename a task",
		Args:    cobra.MinimumNArgs(2),
		PreRunE: gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Rename(ctx, args[0], args[1:])
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		PreRunE: gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.withTimeout(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Remove(ctx, args[0])
		},
	}

	r.cmd.AddCommand(loginCmd, logoutCmd, listCmd, addCmd, doneCmd, renameCmd, rmCmd)
}

func (r *RootCommand) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if r.app.config != nil && r.app.config.Client.Timeout > 0 {
		timeout = r.app.config.Client.Timeout
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
