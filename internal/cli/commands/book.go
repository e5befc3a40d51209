package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
)

// NewBookCmd creates the book command
func NewBookCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "book <id>",
		Short:       "Show a word book",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{guard.RouteAnnotation: "/book/{id}"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := strconv.Atoi(args[0])
			if err != nil || bookID <= 0 {
				return fmt.Errorf("invalid book id %q", args[0])
			}
			return runBook(cmd.Context(), app, bookID)
		},
	}
}

func runBook(ctx context.Context, app *App, bookID int) error {
	book, err := app.Client.FetchBookByID(ctx, bookID)
	if err != nil {
		return explain(err)
	}

	fmt.Fprintf(app.Out, "%s (id %d)\n", book.Name, book.BookID)
	fmt.Fprintf(app.Out, "  Words: %d\n", book.WordsCount)
	if book.Description != nil && *book.Description != "" {
		fmt.Fprintf(app.Out, "  %s\n", *book.Description)
	}
	return nil
}
