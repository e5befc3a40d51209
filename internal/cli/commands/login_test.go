package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-dev/lexicon/internal/cli/session"
)

func TestLogin_Remembered(t *testing.T) {
	h := newHarness(t)

	err := h.run(NewLoginCmd(h.app), "--username", "alice", "--password", "secret", "--remember")
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "Logging in to "+h.srv.URL)
	assert.Contains(t, out, "✓ Login successful!")
	assert.Contains(t, out, "User: alice")
	assert.Contains(t, out, "Session saved")

	stored, err := h.storage.Load()
	require.NoError(t, err)
	assert.Equal(t, h.app.Session.Token(), stored)
	assert.True(t, h.app.Session.RememberMe())
	assert.Equal(t, 0, h.prompter.credCalls)
	assert.Equal(t, 0, h.prompter.askedRemember)
}

func TestLogin_AsksToRememberWhenInteractive(t *testing.T) {
	h := newHarness(t)
	h.prompter.remember = true

	require.NoError(t, h.run(NewLoginCmd(h.app), "-u", "alice", "--password", "secret"))

	assert.Equal(t, 1, h.prompter.askedRemember)
	_, err := h.storage.Load()
	assert.NoError(t, err)
}

func TestLogin_NoRememberPromptWithoutTerminal(t *testing.T) {
	h := newHarness(t)
	h.prompter.interactive = false
	h.prompter.remember = true

	require.NoError(t, h.run(NewLoginCmd(h.app), "-u", "alice", "--password", "secret"))

	assert.Equal(t, 0, h.prompter.askedRemember)
	_, err := h.storage.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestLogin_NotRemembered(t *testing.T) {
	h := newHarness(t)

	err := h.run(NewLoginCmd(h.app), "-u", "alice", "--password", "secret")
	require.NoError(t, err)

	assert.True(t, h.app.Session.Authenticated())
	assert.NotContains(t, h.out.String(), "Session saved")

	_, err = h.storage.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestLogin_PromptsForMissingPassword(t *testing.T) {
	h := newHarness(t)

	err := h.run(NewLoginCmd(h.app), "--username", "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, h.prompter.credCalls)
	assert.True(t, h.app.Session.Authenticated())
}

func TestLogin_CredentialsFromEnvironment(t *testing.T) {
	h := newHarness(t)
	h.app.Config.Credentials.Username = "alice"
	h.app.Config.Credentials.Password = "secret"

	err := h.run(NewLoginCmd(h.app))
	require.NoError(t, err)

	assert.Equal(t, 0, h.prompter.credCalls)
	assert.True(t, h.app.Session.Authenticated())
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t)

	err := h.run(NewLoginCmd(h.app), "--username", "alice", "--password", "wrong", "--remember")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")

	assert.False(t, h.app.Session.Authenticated())
	_, err = h.storage.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestLogin_EmptyUsername(t *testing.T) {
	h := newHarness(t)
	h.prompter.username = ""

	err := h.run(NewLoginCmd(h.app), "--password", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
}

func TestLogout_ForgetsRememberedSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(NewLoginCmd(h.app), "-u", "alice", "--password", "secret", "--remember"))

	h.out.Reset()
	require.NoError(t, h.run(NewLogoutCmd(h.app)))

	assert.Contains(t, h.out.String(), "✓ Logged out.")
	assert.False(t, h.app.Session.Authenticated())
	_, err := h.storage.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)
	h.srv.SetProfile(h.userID, "Ali", "alice@example.com", true)
	h.login(t)

	require.NoError(t, h.run(NewWhoamiCmd(h.app)))

	out := h.out.String()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Nickname: Ali")
	assert.Contains(t, out, "Email:    alice@example.com")
	assert.Contains(t, out, "Role:     Admin")
}
