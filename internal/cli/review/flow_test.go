package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-dev/lexicon/internal/apitest"
	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/session"
)

// scriptedAPI records calls and fails on demand
type scriptedAPI struct {
	inflight  atomic.Int32
	calls     []string
	words     []*client.Word
	fetchErr  error
	submitErr error
	t         *testing.T
}

func (s *scriptedAPI) enter() {
	if s.inflight.Add(1) != 1 {
		s.t.Error("fetch and submit overlapped")
	}
}

func (s *scriptedAPI) FetchDailyPlanWord(ctx context.Context, bookName string) (*client.Word, error) {
	s.enter()
	defer s.inflight.Add(-1)
	s.calls = append(s.calls, "fetch")
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.words) == 0 {
		return nil, &client.RequestFailedError{StatusCode: http.StatusUnprocessableEntity}
	}
	return s.words[0], nil
}

func (s *scriptedAPI) SubmitDailyPlanWord(ctx context.Context, bookName string) (*client.Word, error) {
	s.enter()
	defer s.inflight.Add(-1)
	s.calls = append(s.calls, "submit")
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	if len(s.words) > 0 {
		s.words = s.words[1:]
	}
	if len(s.words) == 0 {
		return &client.Word{}, nil
	}
	return s.words[0], nil
}

func TestFlow_ScriptedTransitions(t *testing.T) {
	translation := "to lessen"
	api := &scriptedAPI{t: t, words: []*client.Word{
		{BookID: 1, WordID: 1, Spelling: "abate"},
		{BookID: 1, WordID: 1, Spelling: "abate", Translation: &translation, IsSubmitted: true},
	}}
	ctx := context.Background()
	f := New(api, "gre", zerolog.Nop())
	assert.Equal(t, Loading, f.State())

	require.NoError(t, f.Start(ctx))
	assert.Equal(t, Unsubmitted, f.State())
	assert.Equal(t, "abate", f.Word().Spelling)

	require.NoError(t, f.Mark(ctx, Unknown))
	assert.Equal(t, Submitted, f.State())
	assert.Equal(t, "to lessen", f.Word().TranslationText())

	require.NoError(t, f.Next(ctx))
	assert.Equal(t, Done, f.State())
	assert.Nil(t, f.Word())

	assert.Equal(t, []string{"fetch", "submit", "fetch", "submit", "fetch"}, api.calls)
	assert.Equal(t, Tally{Unknown: 1}, f.Tally())
}

func TestFlow_InvalidTransitions(t *testing.T) {
	api := &scriptedAPI{t: t, words: []*client.Word{{BookID: 1, WordID: 1, Spelling: "abate"}}}
	ctx := context.Background()
	f := New(api, "gre", zerolog.Nop())

	assert.ErrorIs(t, f.Mark(ctx, Known), ErrInvalidTransition)
	assert.ErrorIs(t, f.Next(ctx), ErrInvalidTransition)

	require.NoError(t, f.Start(ctx))
	assert.ErrorIs(t, f.Start(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, f.Next(ctx), ErrInvalidTransition)
	assert.Equal(t, []string{"fetch"}, api.calls)
}

func TestFlow_SessionExpiredEndsFlow(t *testing.T) {
	api := &scriptedAPI{t: t, words: []*client.Word{{BookID: 1, WordID: 1, Spelling: "abate"}}}
	ctx := context.Background()
	f := New(api, "gre", zerolog.Nop())
	require.NoError(t, f.Start(ctx))

	api.submitErr = client.ErrSessionExpired
	err := f.Mark(ctx, Known)

	assert.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Equal(t, Expired, f.State())
	assert.Equal(t, 0, f.Tally().Reviewed())
}

func TestFlow_FailedSubmitCanBeRepeated(t *testing.T) {
	api := &scriptedAPI{t: t, words: []*client.Word{
		{BookID: 1, WordID: 1, Spelling: "abate"},
		{BookID: 1, WordID: 1, Spelling: "abate", IsSubmitted: true},
	}}
	ctx := context.Background()
	f := New(api, "gre", zerolog.Nop())
	require.NoError(t, f.Start(ctx))

	api.submitErr = errors.New("connection reset")
	require.Error(t, f.Mark(ctx, Known))
	assert.Equal(t, Unsubmitted, f.State())

	api.submitErr = nil
	require.NoError(t, f.Mark(ctx, Known))
	assert.Equal(t, Submitted, f.State())
	assert.Equal(t, 1, f.Tally().Known)
}

func TestFlow_FailedFetchStaysLoading(t *testing.T) {
	api := &scriptedAPI{t: t, words: []*client.Word{{BookID: 1, WordID: 1, Spelling: "abate"}}}
	ctx := context.Background()
	f := New(api, "gre", zerolog.Nop())

	api.fetchErr = &client.RequestFailedError{StatusCode: http.StatusBadGateway}
	require.Error(t, f.Start(ctx))
	assert.Equal(t, Loading, f.State())

	api.fetchErr = nil
	require.NoError(t, f.Start(ctx))
	assert.Equal(t, Unsubmitted, f.State())
}

func TestFlow_AgainstBackend(t *testing.T) {
	for _, bodyless := range []bool{false, true} {
		t.Run(fmt.Sprintf("bodyless submit %v", bodyless), func(t *testing.T) {
			api := apitest.New(t)
			api.SetBodylessSubmit(bodyless)
			userID := api.AddUser(t, "alice", "pw")
			bookID := api.AddBook("gre", "",
				apitest.WordFixture{Spelling: "abate", Translation: "to lessen"},
				apitest.WordFixture{Spelling: "laconic", Translation: "using few words"},
			)
			api.AddPlan(userID, bookID)

			store, err := session.Open(session.NewMemoryStorage(), zerolog.Nop())
			require.NoError(t, err)
			require.NoError(t, store.SetToken(api.IssueToken(t, userID), false))
			c := client.New(api.URL, store)
			ctx := context.Background()

			f := New(c, "gre", zerolog.Nop())
			require.NoError(t, f.Start(ctx))
			require.Equal(t, Unsubmitted, f.State())
			assert.Equal(t, "abate", f.Word().Spelling)
			assert.Nil(t, f.Word().Translation)

			require.NoError(t, f.Mark(ctx, Known))
			require.Equal(t, Submitted, f.State())
			assert.Equal(t, "to lessen", f.Word().TranslationText())

			require.NoError(t, f.Next(ctx))
			require.Equal(t, Unsubmitted, f.State())
			assert.Equal(t, "laconic", f.Word().Spelling)
			progress, _ := api.Progress(userID, bookID)
			assert.Equal(t, 1, progress)

			require.NoError(t, f.Mark(ctx, Unknown))
			require.NoError(t, f.Next(ctx))
			assert.Equal(t, Done, f.State())
			assert.Equal(t, Tally{Known: 1, Unknown: 1}, f.Tally())
		})
	}
}

func TestFlow_ResumesRevealedWord(t *testing.T) {
	api := apitest.New(t)
	userID := api.AddUser(t, "alice", "pw")
	bookID := api.AddBook("gre", "", apitest.WordFixture{Spelling: "abate", Translation: "to lessen"})
	api.AddPlan(userID, bookID)

	store, err := session.Open(session.NewMemoryStorage(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.SetToken(api.IssueToken(t, userID), false))
	c := client.New(api.URL, store)

	// A previous run revealed the word but never moved on
	_, err = c.SubmitDailyPlanWord(context.Background(), "gre")
	require.NoError(t, err)

	f := New(c, "gre", zerolog.Nop())
	require.NoError(t, f.Start(context.Background()))
	assert.Equal(t, Submitted, f.State())
}

func TestStateAndAnswerStrings(t *testing.T) {
	assert.Equal(t, "unsubmitted", Unsubmitted.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.Equal(t, "known", Known.String())
	assert.Equal(t, "unknown", Unknown.String())
}
