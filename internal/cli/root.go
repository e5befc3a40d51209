package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/commands"
	"github.com/lexicon-dev/lexicon/internal/cli/prompt"
	"github.com/lexicon-dev/lexicon/internal/cli/session"
	"github.com/lexicon-dev/lexicon/internal/cli/userconfig"
	"github.com/lexicon-dev/lexicon/internal/config"
	"github.com/lexicon-dev/lexicon/internal/logger"
)

var version = "dev" // Will be set during build

type rootFlags struct {
	server    string
	logLevel  string
	noKeyring bool
}

// NewRootCmd builds the command tree around app. An App that is already
// wired (as in tests) is used as is; otherwise it is filled from the
// environment before the first command runs.
func NewRootCmd(app *commands.App) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Lexicon - Daily vocabulary review",
		Long: `Lexicon CLI - Review the words of your daily plans from the terminal.

Log in once, pick a word book and go through today's words, marking
each one as known or unknown before its translation is revealed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Ready() || cmd.Name() == "version" {
				return nil
			}
			return setup(cmd, app, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.server, "server", "", "Backend URL (overrides LEXICON_SERVER_URL and the config file)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().BoolVar(&flags.noKeyring, "no-keyring", false, "Do not read or write the system keychain")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lexicon version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(app))
	rootCmd.AddCommand(commands.NewLogoutCmd(app))
	rootCmd.AddCommand(commands.NewWhoamiCmd(app))
	rootCmd.AddCommand(commands.NewPlansCmd(app))
	rootCmd.AddCommand(commands.NewBookCmd(app))
	rootCmd.AddCommand(commands.NewReviewCmd(app))
	rootCmd.AddCommand(commands.NewConfigCmd(app))

	guardAll(app, rootCmd)
	return rootCmd
}

func guardAll(app *commands.App, cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		commands.Guard(app, sub)
		guardAll(app, sub)
	}
}

func setup(cmd *cobra.Command, app *commands.App, flags rootFlags) error {
	userCfg, err := userconfig.Load()
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.Fallback{
		ServerURL: userCfg.ServerURL,
		LogLevel:  userCfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if flags.server != "" {
		cfg.Server.URL, err = config.NormalizeServerURL(flags.server)
		if err != nil {
			return err
		}
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	var storage session.Storage = session.NewKeyringStorage(cfg.Server.URL)
	if flags.noKeyring {
		storage = session.NewMemoryStorage()
	}

	store, err := session.Open(storage, log)
	if err != nil {
		log.Warn().Err(err).Msg("System keychain unavailable, the session will not be remembered")
		store, err = session.Open(session.NewMemoryStorage(), log)
		if err != nil {
			return err
		}
	}

	app.Config = cfg
	app.Logger = log
	app.Session = store
	app.Client = client.New(cfg.Server.URL, store,
		client.WithTimeout(cfg.Server.Timeout),
		client.WithLogger(log),
	)
	app.Prompter = prompt.NewTerminal()
	app.Out = cmd.OutOrStdout()

	log.Debug().
		Str("server", cfg.Server.URL).
		Bool("authenticated", store.Authenticated()).
		Msg("CLI initialized")
	return nil
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(&commands.App{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
