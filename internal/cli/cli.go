// Package cli is the `todo` command tree: the interactive screens plus
// one-shot commands for scripting against the same API and session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/account"
	"github.com/idilsaglam/todo/internal/api"
	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/logger"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todo"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Streams are the process standard streams; tests swap them for buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, args []string, streams Streams) int {
	a := &app{cfg: cfg}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(streams.Err, err.Error())
	var ue usageError
	if errors.As(err, &ue) || model.IsError(err, model.ErrCodeValidation) {
		return ExitUsage
	}
	return ExitError
}

// app holds the session-scoped services, opened once flags are parsed.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	tokens   *auth.EnvOverride
	client   *api.Client
	account  *account.Service
	todos    *todo.Store
}

func (a *app) open() error {
	if a.account != nil {
		return nil
	}
	log, closeLog, err := logger.New(logger.Config{
		Level:    a.cfg.Logger.Level,
		Encoding: a.cfg.Logger.Encoding,
		File:     a.cfg.Logger.File,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.logger, a.closeLog = log, closeLog

	tokens, err := auth.Open(a.cfg.Session.Store, a.cfg.Session.Home, a.cfg.Session.Token)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	a.tokens = tokens
	a.client = api.New(a.cfg.API.BaseURL, tokens,
		api.WithTimeout(a.cfg.API.Timeout),
		api.WithLogger(log),
	)
	a.account = account.New(a.client, tokens, log)
	a.todos = todo.NewStore(a.client, log)
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) services() tui.Services {
	return tui.Services{Account: a.account, Todos: a.todos, Logger: a.logger}
}

func newRootCommand(a *app) *cobra.Command {
	var (
		apiURL  string
		theme   string
		noColor bool
	)
	root := &cobra.Command{
		Use:   "todo",
		Short: "Terminal client for the todo API",
		Long: `todo manages your todo items on a todo API server.

Run it without a subcommand to open the interactive screens
(login, register, todos, profile). The subcommands do the same
things one at a time, for scripts.

Settings come from the environment (or a .env file):
  TODO_API_URL, TODO_HOME, TODO_TOKEN, TODO_TOKEN_STORE, TODO_THEME`,
		Example: `  todo login --username ann
  todo add "Buy milk" "2%, the blue one"
  todo ls
  todo rm 1`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if apiURL != "" {
				a.cfg.API.BaseURL = apiURL
			}
			ui.SetTheme(theme)
			if noColor {
				ui.DisableColor()
			}
			if err := a.open(); err != nil {
				return err
			}
			a.logger.Debug("command", zap.String("path", cmd.CommandPath()))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.services(), "")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&apiURL, "api-url", "", "API server base URL (default $TODO_API_URL)")
	flags.StringVar(&theme, "theme", a.cfg.Theme, "color theme: classic, neon or mono")
	flags.BoolVar(&noColor, "no-color", false, "disable colors")

	root.AddCommand(
		newUICommand(a),
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newStatusCommand(a),
		newWhoAmICommand(a),
		newProfileCommand(a),
		newListCommand(a),
		newAddCommand(a),
		newRemoveCommand(a),
	)
	return root
}

func newUICommand(a *app) *cobra.Command {
	var screen string
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive screens",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.services(), screen)
		},
	}
	cmd.Flags().StringVar(&screen, "screen", "", "start screen: login, register, todos or profile")
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}
