// Package plans joins daily plans to the books they reference.
package plans

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
)

// maxConcurrentFetches bounds the book fan-out
const maxConcurrentFetches = 8

// BookFetcher fetches a single book
type BookFetcher interface {
	FetchBookByID(ctx context.Context, bookID int) (*client.Book, error)
}

// Source lists plans and fetches books
type Source interface {
	BookFetcher
	FetchDailyPlans(ctx context.Context) ([]client.DailyPlan, error)
}

// Entry is a daily plan joined to its book
type Entry struct {
	Plan client.DailyPlan
	Book client.Book
}

// Remaining returns how many words of the book are left
func (e Entry) Remaining() int {
	if left := e.Book.WordsCount - e.Plan.Progress; left > 0 {
		return left
	}
	return 0
}

// Join fetches the book of every plan concurrently. The result has the
// same order as dailyPlans regardless of which fetch finishes first. The
// first failure cancels the remaining fetches and is returned.
func Join(ctx context.Context, books BookFetcher, dailyPlans []client.DailyPlan) ([]Entry, error) {
	entries := make([]Entry, len(dailyPlans))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, plan := range dailyPlans {
		i, plan := i, plan
		g.Go(func() error {
			book, err := books.FetchBookByID(ctx, plan.BookID)
			if err != nil {
				return fmt.Errorf("failed to fetch book %d: %w", plan.BookID, err)
			}
			entries[i] = Entry{Plan: plan, Book: *book}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Load lists the user's daily plans and joins each to its book
func Load(ctx context.Context, src Source) ([]Entry, error) {
	dailyPlans, err := src.FetchDailyPlans(ctx)
	if err != nil {
		return nil, err
	}
	return Join(ctx, src, dailyPlans)
}

// Find returns the entry for a book name
func Find(entries []Entry, bookName string) (Entry, bool) {
	for _, e := range entries {
		if e.Book.Name == bookName {
			return e, true
		}
	}
	return Entry{}, false
}
