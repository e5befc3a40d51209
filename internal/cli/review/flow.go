// Package review drives the daily word review of one book.
//
// A Flow moves through Loading, Unsubmitted and Submitted until the server
// has no word left for the plan. Fetch and submit calls are issued one at a
// time, so the word on screen is always the word being submitted.
package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
)

// State of a review flow
type State int

const (
	Loading State = iota
	Unsubmitted
	Submitted
	// Done means the server has no further word for the plan
	Done
	// Expired means the session was cleared by an authorization failure
	Expired
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unsubmitted:
		return "unsubmitted"
	case Submitted:
		return "submitted"
	case Done:
		return "done"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Answer is the user's verdict on an unsubmitted word. It is tallied
// locally; the server only learns that the word was submitted.
type Answer int

const (
	Known Answer = iota
	Unknown
)

func (a Answer) String() string {
	if a == Known {
		return "known"
	}
	return "unknown"
}

// ErrInvalidTransition is returned when an action does not apply to the current state
var ErrInvalidTransition = errors.New("invalid review transition")

// API is the subset of the client a review needs
type API interface {
	FetchDailyPlanWord(ctx context.Context, bookName string) (*client.Word, error)
	SubmitDailyPlanWord(ctx context.Context, bookName string) (*client.Word, error)
}

// Tally counts answers given during a flow
type Tally struct {
	Known   int
	Unknown int
}

// Reviewed returns the number of answered words
func (t Tally) Reviewed() int {
	return t.Known + t.Unknown
}

// Flow is the review state machine for one book
type Flow struct {
	api      API
	bookName string
	logger   zerolog.Logger

	state State
	word  *client.Word
	tally Tally
}

// New creates a flow in the Loading state
func New(api API, bookName string, logger zerolog.Logger) *Flow {
	return &Flow{
		api:      api,
		bookName: bookName,
		logger:   logger.With().Str("component", "review").Str("book", bookName).Logger(),
		state:    Loading,
	}
}

// State returns the current state
func (f *Flow) State() State {
	return f.state
}

// Word returns the last loaded word. It is nil before the first load and
// once the flow is Done or Expired.
func (f *Flow) Word() *client.Word {
	return f.word
}

// Tally returns the answers given so far
func (f *Flow) Tally() Tally {
	return f.tally
}

// BookName returns the reviewed book
func (f *Flow) BookName() string {
	return f.bookName
}

// Start loads the current word of the plan. After a failed fetch the flow
// stays in Loading and Start may be called again.
func (f *Flow) Start(ctx context.Context) error {
	if f.state != Loading {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, f.state)
	}
	return f.load(ctx)
}

// Mark answers the current word and reveals it
func (f *Flow) Mark(ctx context.Context, answer Answer) error {
	if f.state != Unsubmitted {
		return fmt.Errorf("%w: mark %s from %s", ErrInvalidTransition, answer, f.state)
	}

	if err := f.submit(ctx); err != nil {
		return err
	}
	switch answer {
	case Known:
		f.tally.Known++
	default:
		f.tally.Unknown++
	}
	f.logger.Debug().Stringer("answer", answer).Str("word", f.word.Spelling).Msg("Word marked")

	return f.load(ctx)
}

// Next moves past a revealed word
func (f *Flow) Next(ctx context.Context) error {
	if f.state != Submitted {
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, f.state)
	}

	if err := f.submit(ctx); err != nil {
		return err
	}
	return f.load(ctx)
}

func (f *Flow) submit(ctx context.Context) error {
	if _, err := f.api.SubmitDailyPlanWord(ctx, f.bookName); err != nil {
		return f.fail(err)
	}
	return nil
}

func (f *Flow) load(ctx context.Context) error {
	f.state = Loading

	word, err := f.api.FetchDailyPlanWord(ctx, f.bookName)
	if err != nil {
		// Past the last word the backend reports the word as unprocessable
		if client.IsStatus(err, http.StatusUnprocessableEntity) || client.IsStatus(err, http.StatusNotFound) {
			f.state = Done
			f.word = nil
			f.logger.Debug().Msg("Daily plan exhausted")
			return nil
		}
		return f.fail(err)
	}

	f.word = word
	if word.IsSubmitted {
		f.state = Submitted
	} else {
		f.state = Unsubmitted
	}
	return nil
}

// fail ends the flow on an expired session. Other failures leave the state
// as it was: a failed submit can be repeated, a failed fetch stays in
// Loading and is retried with Start.
func (f *Flow) fail(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		f.state = Expired
		f.word = nil
	}
	return err
}
