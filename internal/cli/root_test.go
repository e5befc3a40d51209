package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexicon-dev/lexicon/internal/apitest"
	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/commands"
	"github.com/lexicon-dev/lexicon/internal/cli/guard"
)

func execute(t *testing.T, app *commands.App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, &commands.App{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "lexicon version dev\n", out)
}

func TestSetup_WiresAppFromEnvironment(t *testing.T) {
	srv := apitest.New(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LEXICON_SERVER_URL", "http://ignored.example.com")
	t.Setenv("LOG_LEVEL", "off")

	app := &commands.App{}
	_, err := execute(t, app, "--no-keyring", "--server", srv.URL+"/", "whoami")

	// Tests have no terminal, so the login redirect cannot prompt
	require.ErrorIs(t, err, client.ErrNotLoggedIn)
	require.True(t, app.Ready())
	assert.Equal(t, srv.URL, app.Client.BaseURL())
	assert.Equal(t, "off", app.Config.Logging.Level)
	assert.False(t, app.Session.Authenticated())
	assert.Equal(t, []string{"/user", "/login"}, app.History())
	assert.Empty(t, srv.Requests())
}

func TestSetup_RejectsInvalidServerFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	app := &commands.App{}
	_, err := execute(t, app, "--no-keyring", "--server", "ftp://example.com", "plans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
	assert.False(t, app.Ready())
}

func TestEveryRoutedCommandIsGuarded(t *testing.T) {
	root := NewRootCmd(&commands.App{})
	for _, name := range []string{"login", "logout", "whoami", "plans", "book", "review"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotEmpty(t, cmd.Annotations[guard.RouteAnnotation], name)
	}
}
