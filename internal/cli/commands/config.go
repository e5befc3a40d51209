package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/guard"
	"github.com/lexicon-dev/lexicon/internal/cli/userconfig"
	"github.com/lexicon-dev/lexicon/internal/config"
	"github.com/lexicon-dev/lexicon/internal/logger"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change local settings",
		Long: `Show or change the settings stored in ~/.config/lexicon/config.yaml.

Environment variables (LEXICON_SERVER_URL, LOG_LEVEL) take precedence over
the stored values.

Examples:
  $ lexicon config show
  $ lexicon config set-server https://lexicon.example.com
  $ lexicon config set-log-level debug`,
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Show the effective settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{guard.RouteAnnotation: "/config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(app)
		},
	}

	setServer := &cobra.Command{
		Use:         "set-server <url>",
		Short:       "Set the backend URL",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{guard.RouteAnnotation: "/config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetServer(app, args[0])
		},
	}

	setLogLevel := &cobra.Command{
		Use:         "set-log-level <level>",
		Short:       "Set the default log level (trace, debug, info, warn, error, off)",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{guard.RouteAnnotation: "/config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetLogLevel(app, args[0])
		},
	}

	cmd.AddCommand(show, setServer, setLogLevel)
	return cmd
}

func runConfigShow(app *App) error {
	path, err := userconfig.GetConfigPath()
	if err != nil {
		return err
	}

	session := "not logged in"
	if app.Session.Authenticated() {
		session = "logged in"
		if app.Session.RememberMe() {
			session += " (remembered)"
		}
	}

	fmt.Fprintf(app.Out, "Config file: %s\n", path)
	fmt.Fprintf(app.Out, "Server:      %s\n", app.Config.Server.URL)
	fmt.Fprintf(app.Out, "Timeout:     %s\n", app.Config.Server.Timeout)
	fmt.Fprintf(app.Out, "Log level:   %s\n", app.Config.Logging.Level)
	fmt.Fprintf(app.Out, "Session:     %s\n", session)
	return nil
}

func runSetServer(app *App, raw string) error {
	serverURL, err := config.NormalizeServerURL(raw)
	if err != nil {
		return err
	}

	if err := userconfig.SetServerURL(serverURL); err != nil {
		return fmt.Errorf("failed to save server: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Server set to %s\n", serverURL)
	if app.Session.Authenticated() && serverURL != app.Client.BaseURL() {
		fmt.Fprintln(app.Out, "  Sessions are kept per server; run 'lexicon login' to log in there.")
	}
	return nil
}

func runSetLogLevel(app *App, level string) error {
	if !logger.ValidLevel(level) {
		return fmt.Errorf("unknown log level %q", level)
	}

	level = strings.ToLower(level)
	if err := userconfig.SetLogLevel(level); err != nil {
		return fmt.Errorf("failed to save log level: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Log level set to %s\n", level)
	return nil
}
