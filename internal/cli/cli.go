// Package cli implements the ensayos command line front end over the
// resource client and the route table.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/paes/ensayos/internal/client"
	"github.com/paes/ensayos/internal/config"
	"github.com/paes/ensayos/internal/tokenstore"
	"github.com/paes/ensayos/pkg/logger"
)

// ErrUsage is returned for missing or malformed command arguments.
var ErrUsage = errors.New("usage")

// Global flag names.
const (
	flagConfig    = "config"
	flagAPI       = "api"
	flagTokenFile = "token-file"
	flagVerbose   = "verbose"
)

// App is the ensayos command line application.
type App struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
}

// New creates an App writing results to out and diagnostics to errOut.
// Commands that accept a payload on stdin read it from in.
func New(out, errOut io.Writer, in io.Reader) *App {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	if in == nil {
		in = os.Stdin
	}
	return &App{out: out, errOut: errOut, in: in}
}

// Run parses args (including the program name) and runs the selected command.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.Command().Run(ctx, args)
}

// Fail prints err to the error writer in red.
func (a *App) Fail(err error) {
	color.New(color.FgRed).Fprintf(a.errOut, "error: %v\n", err)
}

// Command builds the root command.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:      "ensayos",
		Usage:     "PAES practice exam client",
		Writer:    a.out,
		ErrWriter: a.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				Sources: cli.EnvVars(config.EnvConfigFile),
			},
			&cli.StringFlag{
				Name:  flagAPI,
				Usage: "API base address (overrides api_base)",
			},
			&cli.StringFlag{
				Name:  flagTokenFile,
				Usage: "dotenv file holding the auth token (overrides token_file)",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "log requests at debug level",
			},
		},
		Commands: []*cli.Command{
			a.listCommand(),
			a.getCommand(),
			a.submitCommand(),
			a.summaryCommand(),
			a.breakdownCommand(),
			a.completedCommand(),
			a.reviewCommand(),
			a.explainCommand(),
			a.loginCommand(),
			a.logoutCommand(),
			a.routesCommand(),
			a.resolveCommand(),
		},
	}
}

// session is the per-invocation state built from config and flags.
type session struct {
	cfg    *config.Config
	tokens *tokenstore.File
	client *client.Client
}

func (a *App) setup(ctx context.Context, cmd *cli.Command, extra ...client.Option) (*session, error) {
	cfg, err := config.LoadFile(ctx, cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if api := cmd.String(flagAPI); api != "" {
		cfg.APIBase = api
	}
	if tf := cmd.String(flagTokenFile); tf != "" {
		cfg.TokenFile = tf
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cmd.Bool(flagVerbose) {
		level = "debug"
	}
	if err := logger.InitWith(logger.Options{Writer: a.errOut, Format: cfg.LogFormat, Level: level}); err != nil {
		return nil, err
	}

	format, err := client.ParseSubmitFormat(cfg.SubmitFormat)
	if err != nil {
		return nil, err
	}
	tokens := tokenstore.NewFile(cfg.TokenFile)
	opts := []client.Option{
		client.WithBaseURL(cfg.APIBase),
		client.WithTimeout(cfg.Timeout()),
		client.WithTokenStore(tokens),
		client.WithSubmitFormat(format),
		client.WithLogger(logger.Named("client")),
	}
	opts = append(opts, extra...)

	return &session{cfg: cfg, tokens: tokens, client: client.New(opts...)}, nil
}
