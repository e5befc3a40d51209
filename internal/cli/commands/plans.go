package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
	"github.com/lexicon-dev/lexicon/internal/cli/plans"
)

// NewPlansCmd creates the plans command
func NewPlansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "plans",
		Aliases:     []string{"ls", "list"},
		Short:       "List your daily plans",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{guard.RouteAnnotation: guard.HomePath},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd.Context(), app)
		},
	}
}

func runPlans(ctx context.Context, app *App) error {
	entries, err := plans.Load(ctx, app.Client)
	if err != nil {
		return explain(err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(app.Out, "No daily plans found.")
		return nil
	}

	// Display plans in a table
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tPROGRESS\tREMAINING")
	fmt.Fprintln(w, "────\t────────\t─────────")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d/%d\t%d\n",
			e.Book.Name,
			e.Plan.Progress,
			e.Book.WordsCount,
			e.Remaining(),
		)
	}

	w.Flush()

	fmt.Fprintln(app.Out, "\nStart reviewing with: lexicon review <book>")
	return nil
}
