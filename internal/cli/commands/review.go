package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
	"github.com/lexicon-dev/lexicon/internal/cli/plans"
	"github.com/lexicon-dev/lexicon/internal/cli/prompt"
	"github.com/lexicon-dev/lexicon/internal/cli/review"
)

const reviewRoute = "/daily-plan/{bookName}/word"

// NewReviewCmd creates the review command
func NewReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review [book]",
		Short: "Review today's words of a book",
		Long: `Review today's words of a book.

If no book is provided, an interactive prompt lists your daily plans.

Examples:
  $ lexicon review              # Interactive selection
  $ lexicon review "CET-4"      # Review a book by name`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{guard.RouteAnnotation: reviewRoute},
		RunE: func(cmd *cobra.Command, args []string) error {
			var bookName string
			if len(args) > 0 {
				bookName = args[0]
			}
			return runReview(cmd.Context(), app, bookName)
		},
	}
}

func runReview(ctx context.Context, app *App, bookName string) error {
	if !app.Prompter.Interactive() {
		return fmt.Errorf("review needs an interactive terminal")
	}

	entries, err := plans.Load(ctx, app.Client)
	if err != nil {
		return explain(err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(app.Out, "No daily plans found.")
		return nil
	}

	var entry plans.Entry
	if bookName == "" {
		entry, err = app.Prompter.SelectPlan(entries)
		if err != nil {
			return explain(err)
		}
		app.history.Replace(guard.Fill(reviewRoute, entry.Book.Name))
	} else {
		var ok bool
		entry, ok = plans.Find(entries, bookName)
		if !ok {
			return fmt.Errorf("no daily plan for book %q", bookName)
		}
	}

	fmt.Fprintf(app.Out, "Reviewing %s (%d/%d)\n", entry.Book.Name, entry.Plan.Progress, entry.Book.WordsCount)

	flow := review.New(app.Client, entry.Book.Name, app.Logger)
	err = reviewLoop(ctx, app, flow)
	printTally(app, flow)

	if errors.Is(err, prompt.ErrCancelled) {
		return nil
	}
	return explain(err)
}

func reviewLoop(ctx context.Context, app *App, flow *review.Flow) error {
	if err := flow.Start(ctx); err != nil {
		return err
	}

	for {
		switch flow.State() {
		case review.Unsubmitted:
			action, err := app.Prompter.AskKnown(flow.Word())
			if err != nil {
				return err
			}
			switch action {
			case prompt.ActionKnown:
				err = flow.Mark(ctx, review.Known)
			case prompt.ActionUnknown:
				err = flow.Mark(ctx, review.Unknown)
			default:
				return nil
			}
			if err != nil {
				return err
			}

		case review.Submitted:
			action, err := app.Prompter.AskNext(flow.Word())
			if err != nil {
				return err
			}
			if action != prompt.ActionNext {
				return nil
			}
			if err := flow.Next(ctx); err != nil {
				return err
			}

		case review.Done:
			fmt.Fprintln(app.Out, "✓ All words of today's plan are done!")
			return nil

		default:
			return fmt.Errorf("review stopped in state %s", flow.State())
		}
	}
}

func printTally(app *App, flow *review.Flow) {
	tally := flow.Tally()
	if tally.Reviewed() == 0 {
		return
	}
	fmt.Fprintf(app.Out, "Reviewed %d words: %d known, %d unknown.\n", tally.Reviewed(), tally.Known, tally.Unknown)
}
