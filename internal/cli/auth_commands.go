package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/tasktrackr/internal/dashboard"
)

var errEmptyPassword = errors.New("password is required")

func (r *RootCommand) addAuthCommands() {
	var email string

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			user, err := r.deps.Provider.SignUp(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s.\n", user.Email)
			return nil
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			user, err := r.deps.Provider.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s!\n", dashboard.Greeting(r.deps.Now()), user.Email)
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()

			return r.controller(cmd).Logout(ctx)
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()

			err := r.deps.Provider.SendPasswordReset(ctx, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset email sent! Check your inbox.")
			return nil
		},
	}

	for _, cmd := range []*cobra.Command{signupCmd, loginCmd, resetCmd} {
		cmd.Flags().StringVar(&email, "email", "", "Account email")
		_ = cmd.MarkFlagRequired("email")
	}

	r.cmd.AddCommand(signupCmd, loginCmd, logoutCmd, resetCmd)
}

// promptPassword reads one line from the command's input.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errEmptyPassword
	}
	return password, nil
}
