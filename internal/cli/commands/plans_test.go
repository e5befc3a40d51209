package commands

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-dev/lexicon/internal/apitest"
	"github.com/lexicon-dev/lexicon/internal/cli/client"
)

func TestPlans_TableKeepsPlanOrder(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	words := []apitest.WordFixture{{Spelling: "a"}, {Spelling: "b"}, {Spelling: "c"}}
	first := h.srv.AddBook("TOEFL", "", words...)
	second := h.srv.AddBook("CET-4", "", words[:2]...)
	h.srv.AddPlan(h.userID, first)
	h.srv.AddPlan(h.userID, second)

	// The first book answers last
	h.srv.DelayBook(first, 50*time.Millisecond)

	require.NoError(t, h.run(NewPlansCmd(h.app)))

	out := h.out.String()
	assert.Contains(t, out, "BOOK")
	assert.Contains(t, out, "PROGRESS")
	assert.Contains(t, out, "0/3")
	assert.Contains(t, out, "0/2")
	assert.Less(t, strings.Index(out, "TOEFL"), strings.Index(out, "CET-4"))
}

func TestPlans_Empty(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.NoError(t, h.run(NewPlansCmd(h.app)))
	assert.Contains(t, h.out.String(), "No daily plans found.")
}

func TestPlans_ExpiredSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Session.SetToken(h.srv.IssueExpiredToken(t, h.userID), true))

	err := h.run(NewPlansCmd(h.app))
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Contains(t, err.Error(), "lexicon login")

	assert.False(t, h.app.Session.Authenticated())
	_, loadErr := h.storage.Load()
	assert.Error(t, loadErr, "expired token must be dropped from storage")
}

func TestPlans_BookFetchFails(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	bookID := h.srv.AddBook("GRE", "")
	h.srv.AddPlan(h.userID, bookID)
	h.srv.ForceStatus(http.MethodGet, "/api/book-by-id/"+strconv.Itoa(bookID), http.StatusInternalServerError, 1)

	err := h.run(NewPlansCmd(h.app))
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusInternalServerError))
	assert.True(t, h.app.Session.Authenticated())
}
