package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the logged-in user",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{guard.RouteAnnotation: "/user"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), app)
		},
	}
}

func runWhoami(ctx context.Context, app *App) error {
	user, err := app.Client.FetchUser(ctx)
	if err != nil {
		return explain(err)
	}

	fmt.Fprintf(app.Out, "%s (id %d)\n", user.Name, user.UserID)
	if user.Nickname != nil {
		fmt.Fprintf(app.Out, "  Nickname: %s\n", *user.Nickname)
	}
	if user.Email != nil {
		fmt.Fprintf(app.Out, "  Email:    %s\n", *user.Email)
	}
	if user.Phone != nil {
		fmt.Fprintf(app.Out, "  Phone:    %s\n", *user.Phone)
	}
	if user.IsAdmin {
		fmt.Fprintln(app.Out, "  Role:     Admin")
	}
	return nil
}
