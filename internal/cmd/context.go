package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/app"
	"github.com/felixgeelhaar/feedfort/internal/config"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/log"
	"github.com/felixgeelhaar/feedfort/internal/session"
	"github.com/felixgeelhaar/feedfort/internal/tui"
	"github.com/felixgeelhaar/feedfort/internal/ux"
	"github.com/felixgeelhaar/feedfort/internal/version"
)

// CommandContext holds the persistent flags of one invocation
type CommandContext struct {
	ConfigPath string
	APIURL     string
	Format     string
	LogLevel   string
	Verbose    bool
}

// NewCommandContext extracts the persistent flags from cmd
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	if !slices.Contains(ux.Formats, format) {
		return nil, errors.NewValidationError(fmt.Sprintf("formato inválido %q (use %s)", format, strings.Join(ux.Formats, ", ")))
	}

	return &CommandContext{
		ConfigPath: configPath,
		APIURL:     apiURL,
		Format:     format,
		LogLevel:   logLevel,
		Verbose:    verbose,
	}, nil
}

// env is everything a command needs: configuration, logger, API client and
// the persisted session
type env struct {
	Flags    *CommandContext
	Config   *config.Config
	Logger   *log.Logger
	Client   *api.Client
	Sessions *session.Store
	Out      io.Writer

	logOutput log.Output
}

// newEnv loads .env, the config file and the environment, then applies the
// flags on top
func newEnv(cmd *cobra.Command) (*env, error) {
	flags, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}

	path := flags.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.APIURL != "" {
		cfg.API.URL = flags.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}

	output, err := log.OutputFile(cfg.Log.File)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileWriteFailed, "Erro ao abrir o arquivo de log "+cfg.Log.File, err)
	}
	writer := output.Writer()
	if flags.Verbose {
		writer = io.MultiWriter(writer, cmd.ErrOrStderr())
	}
	logger := log.New(log.Config{
		Level:          log.ParseLevel(cfg.Log.Level),
		Format:         log.ParseFormat(cfg.Log.Format),
		Output:         log.NewOutput(writer),
		ServiceVersion: version.GetInfo().Short(),
	})
	log.SetDefaultLogger(logger)

	client := api.NewClient(cfg.BaseURL(),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithUserAgent(version.UserAgent()),
	)
	sessions := session.NewStore(session.NewFileBackend(cfg.Session.File), cfg.Session.Key)

	logger.Debug("command started", "command", cmd.CommandPath(), "api_url", cfg.API.URL)
	return &env{
		Flags:     flags,
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Sessions:  sessions,
		Out:       cmd.OutOrStdout(),
		logOutput: output,
	}, nil
}

// Close releases the log file
func (e *env) Close() {
	_ = e.logOutput.Close()
}

// App builds the interactive controller over the env's client and session
func (e *env) App() *app.App {
	return app.New(app.NewStore(app.State{}), e.Client, e.Sessions, app.WithLogger(e.Logger))
}

// Formatter returns the --format output writer
func (e *env) Formatter() (ux.Formatter, error) {
	return ux.NewFormatter(e.Flags.Format, &ux.FormatterOptions{Writer: e.Out})
}

// requireSession loads the stored session into the client. A 401 during the
// command forgets the session.
func (e *env) requireSession() (session.Session, error) {
	sess, err := e.Sessions.Load()
	if err != nil {
		return session.Session{}, errors.Wrap(errors.ErrCodeSessionRead, "Erro ao ler a sessão", err)
	}
	if !sess.Valid() {
		return session.Session{}, errors.NewNotLoggedInError()
	}

	e.Client.SetToken(sess.Token)
	e.Client.OnUnauthorized(func() {
		if err := e.Sessions.Clear(); err != nil {
			e.Logger.WithError(err).Warn("could not clear expired session")
		}
	})
	return sess, nil
}

// requireAdmin is requireSession for admin-only commands
func (e *env) requireAdmin() (session.Session, error) {
	sess, err := e.requireSession()
	if err != nil {
		return sess, err
	}
	if !sess.IsAdmin() {
		return sess, errors.NewAccessDeniedError()
	}
	return sess, nil
}

// withEnv adapts a command body that needs an env
func withEnv(run func(ctx context.Context, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := run(ctx, e, args); err != nil {
			e.Logger.WithError(err).Error("command failed", "command", cmd.CommandPath())
			return err
		}
		return nil
	}
}

// shouldPrompt is swapped in tests
var shouldPrompt = tui.ShouldPrompt

// stdin feeds --password-stdin
var stdin io.Reader = os.Stdin
