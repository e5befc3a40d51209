package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/guard"
)

type loginOptions struct {
	username   string
	password   string
	rememberMe bool

	// askRemember prompts for rememberMe when it is not already set
	askRemember bool
}

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in to the Lexicon server",
		Annotations: map[string]string{guard.RouteAnnotation: guard.LoginPath},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.askRemember = app.Prompter.Interactive() && !cmd.Flags().Changed("remember")
			return runLogin(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "Username (or set LEXICON_USERNAME)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (or set LEXICON_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&opts.rememberMe, "remember", false, "Keep the session in the system keychain after this run (asked when interactive)")

	return cmd
}

func runLogin(ctx context.Context, app *App, opts loginOptions) error {
	// Check for environment variables (useful for CI/CD)
	if opts.username == "" {
		opts.username = app.Config.Credentials.Username
	}
	if opts.password == "" {
		opts.password = app.Config.Credentials.Password
	}

	if opts.username == "" || opts.password == "" {
		var err error
		opts.username, opts.password, err = app.Prompter.Credentials(opts.username, opts.password)
		if err != nil {
			return err
		}
	}

	if opts.username == "" {
		return fmt.Errorf("username is required (use --username flag or LEXICON_USERNAME env var)")
	}

	if opts.askRemember && !opts.rememberMe {
		remember, err := app.Prompter.ConfirmRemember()
		if err != nil {
			return err
		}
		opts.rememberMe = remember
	}

	fmt.Fprintf(app.Out, "Logging in to %s...\n", app.Client.BaseURL())

	_, err := app.Client.Login(ctx, client.Credentials{
		Username:   opts.username,
		Password:   opts.password,
		RememberMe: opts.rememberMe,
	})
	if err != nil {
		var reqErr *client.RequestFailedError
		if errors.As(err, &reqErr) {
			return fmt.Errorf("login failed: %s", reqErr.Status)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(app.Out, "✓ Login successful!")

	// Greeting is best effort; the login itself already succeeded
	if user, err := app.Client.FetchUser(ctx); err == nil {
		fmt.Fprintf(app.Out, "  User: %s\n", user.DisplayName())
	} else {
		app.Logger.Debug().Err(err).Msg("Failed to fetch user after login")
	}

	if opts.rememberMe {
		fmt.Fprintln(app.Out, "  Session saved, you will stay logged in.")
	}

	return nil
}
