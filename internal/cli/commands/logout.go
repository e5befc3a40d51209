package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the current session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{guard.RouteAnnotation: "/logout"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(app)
		},
	}
}

func runLogout(app *App) error {
	wasLoggedIn := app.Session.Authenticated()

	if err := app.Client.Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}

	if wasLoggedIn {
		fmt.Fprintln(app.Out, "✓ Logged out.")
	} else {
		fmt.Fprintln(app.Out, "Not logged in.")
	}
	return nil
}
