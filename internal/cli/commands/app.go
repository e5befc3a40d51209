package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/guard"
	"github.com/lexicon-dev/lexicon/internal/cli/plans"
	"github.com/lexicon-dev/lexicon/internal/cli/prompt"
	"github.com/lexicon-dev/lexicon/internal/cli/session"
	"github.com/lexicon-dev/lexicon/internal/config"
)

// Prompter collects input from the user
type Prompter interface {
	Interactive() bool
	SelectPlan(entries []plans.Entry) (plans.Entry, error)
	AskKnown(word *client.Word) (prompt.Action, error)
	AskNext(word *client.Word) (prompt.Action, error)
	Credentials(username, password string) (string, string, error)
	ConfirmRemember() (bool, error)
}

// App carries the dependencies shared by every command. The root command
// fills it before any command runs; tests build it directly.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Session  *session.Store
	Client   *client.Client
	Prompter Prompter
	Out      io.Writer

	history guard.History
}

// Ready reports whether the App has been wired
func (a *App) Ready() bool {
	return a.Client != nil && a.Session != nil
}

// History returns the navigation trail of this run
func (a *App) History() []string {
	return a.history.Entries()
}

// Guard wraps a command's RunE with the access guard of its route. The
// route pattern comes from the command's annotation; positional arguments
// fill the pattern's placeholders.
func Guard(app *App, cmd *cobra.Command) {
	pattern, ok := cmd.Annotations[guard.RouteAnnotation]
	if !ok || cmd.RunE == nil {
		return
	}

	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		proceed, err := app.enter(cmd.Context(), guard.Fill(pattern, args...))
		if err != nil || !proceed {
			return err
		}
		return run(cmd, args)
	}
}

// enter evaluates the guard for path and follows redirects. It reports
// whether the requested command should run.
func (a *App) enter(ctx context.Context, path string) (bool, error) {
	a.history.Push(path)
	route := guard.Resolve(path)

	decision := guard.Check(route.Policy, a.Session, guard.Location{Path: path})
	if decision.Allow {
		return true, nil
	}

	redirect := decision.Redirect
	a.history.Follow(redirect)
	a.Logger.Debug().
		Str("from", path).
		Str("to", redirect.To).
		Bool("replace", redirect.Replace).
		Msg("Guard redirect")

	switch redirect.To {
	case guard.LoginPath:
		if !a.Prompter.Interactive() {
			return false, client.ErrNotLoggedIn
		}
		fmt.Fprintln(a.Out, "You need to log in first.")
		if err := runLogin(ctx, a, loginOptions{askRemember: true}); err != nil {
			return false, err
		}
		// Return to where the user was going
		a.history.Push(redirect.From)
		return true, nil

	case guard.HomePath:
		fmt.Fprintln(a.Out, "Already logged in. Run 'lexicon logout' to switch accounts.")
		return false, runPlans(ctx, a)
	}

	return false, fmt.Errorf("unexpected redirect to %s", redirect.To)
}

// explain turns API errors into messages for the terminal
func explain(err error) error {
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return fmt.Errorf("%w. Run 'lexicon login'", err)
	case errors.Is(err, prompt.ErrCancelled):
		return nil
	}
	return err
}
