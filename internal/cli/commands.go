package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/paes/ensayos/internal/client"
	"github.com/paes/ensayos/internal/tokenstore"
)

// intArg parses the i-th positional argument as an id.
func intArg(cmd *cli.Command, i int, name string) (int, error) {
	raw := cmd.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrUsage, name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrUsage, name, raw)
	}
	return v, nil
}

// fetch wraps a read operation into a command action that prints its result.
func (a *App) fetch(do func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := a.setup(ctx, cmd)
		if err != nil {
			return err
		}
		raw, err := do(ctx, cmd, s.client)
		if err != nil {
			return err
		}
		return a.printRaw(raw)
	}
}

func (a *App) listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list available ensayos",
		Action: a.fetch(func(ctx context.Context, _ *cli.Command, c *client.Client) (json.RawMessage, error) {
			return c.ListEnsayos(ctx)
		}),
	}
}

func (a *App) getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "fetch one ensayo",
		ArgsUsage: "ID",
		Action: a.fetch(func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error) {
			id, err := intArg(cmd, 0, "ID")
			if err != nil {
				return nil, err
			}
			return c.GetEnsayo(ctx, id)
		}),
	}
}

func (a *App) submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "submit answers read from a file or stdin",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "answers file (JSON array or {\"respuestas\": [...]}); - for stdin", Value: "-"},
			&cli.BoolFlag{Name: "bare", Usage: "always send answers as a bare array"},
			&cli.BoolFlag{Name: "wrapped", Usage: "always send answers wrapped under respuestas"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := intArg(cmd, 0, "ID")
			if err != nil {
				return err
			}
			data, err := a.readInput(cmd.String("file"))
			if err != nil {
				return err
			}
			answers, err := client.ParseAnswers(data)
			if err != nil {
				return err
			}

			var extra []client.Option
			switch {
			case cmd.Bool("bare") && cmd.Bool("wrapped"):
				return fmt.Errorf("%w: --bare and --wrapped are exclusive", ErrUsage)
			case cmd.Bool("bare"):
				extra = append(extra, client.WithSubmitFormat(client.SubmitBare))
			case cmd.Bool("wrapped"):
				extra = append(extra, client.WithSubmitFormat(client.SubmitWrapped))
			}
			s, err := a.setup(ctx, cmd, extra...)
			if err != nil {
				return err
			}
			raw, err := s.client.SubmitEnsayo(ctx, id, answers)
			if err != nil {
				return err
			}
			return a.printRaw(raw)
		},
	}
}

func (a *App) summaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "show the results summary of an ensayo",
		ArgsUsage: "ID",
		Action: a.fetch(func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error) {
			id, err := intArg(cmd, 0, "ID")
			if err != nil {
				return nil, err
			}
			return c.ResultsSummary(ctx, id)
		}),
	}
}

func (a *App) breakdownCommand() *cli.Command {
	return &cli.Command{
		Name:      "breakdown",
		Usage:     "show the answer breakdown of one question",
		ArgsUsage: "ID QID",
		Action: a.fetch(func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error) {
			id, err := intArg(cmd, 0, "ID")
			if err != nil {
				return nil, err
			}
			qid, err := intArg(cmd, 1, "QID")
			if err != nil {
				return nil, err
			}
			return c.QuestionBreakdown(ctx, id, qid)
		}),
	}
}

func (a *App) completedCommand() *cli.Command {
	return &cli.Command{
		Name:  "completed",
		Usage: "list ensayos completed by the current user",
		Action: a.fetch(func(ctx context.Context, _ *cli.Command, c *client.Client) (json.RawMessage, error) {
			return c.CompletedEnsayos(ctx)
		}),
	}
}

func (a *App) reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "review one result of an ensayo",
		ArgsUsage: "ID RID",
		Action: a.fetch(func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error) {
			id, err := intArg(cmd, 0, "ID")
			if err != nil {
				return nil, err
			}
			rid, err := intArg(cmd, 1, "RID")
			if err != nil {
				return nil, err
			}
			return c.ReviewResult(ctx, id, rid)
		}),
	}
}

func (a *App) explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "edit the explanation of a question",
		ArgsUsage: "QID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "texto", Usage: "explanation text"},
			&cli.StringFlag{Name: "url", Usage: "explanation link"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON object with texto/url or explicacion_texto/explicacion_url; - for stdin"},
		},
		Action: a.fetch(func(ctx context.Context, cmd *cli.Command, c *client.Client) (json.RawMessage, error) {
			qid, err := intArg(cmd, 0, "QID")
			if err != nil {
				return nil, err
			}
			if path := cmd.String("file"); path != "" {
				data, err := a.readInput(path)
				if err != nil {
					return nil, err
				}
				edit, err := client.ParseExplanation(data)
				if err != nil {
					return nil, err
				}
				return c.EditExplanation(ctx, qid, edit)
			}

			var edit client.Explanation
			if cmd.IsSet("texto") {
				edit.Texto = client.String(cmd.String("texto"))
			}
			if cmd.IsSet("url") {
				edit.URL = client.String(cmd.String("url"))
			}
			if edit.Texto == nil && edit.URL == nil {
				return nil, fmt.Errorf("%w: one of --texto, --url or --file is required", ErrUsage)
			}
			return c.EditExplanation(ctx, qid, edit)
		}),
	}
}

func (a *App) loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "store an auth token",
		ArgsUsage: "TOKEN",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token := cmd.Args().First()
			if token == "" {
				return fmt.Errorf("%w: missing TOKEN", ErrUsage)
			}
			s, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}
			if err := s.tokens.Set(tokenstore.TokenKey, token); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "token saved to %s\n", s.tokens.Path())
			return nil
		},
	}
}

func (a *App) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "remove the stored auth token",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.setup(ctx, cmd)
			if err != nil {
				return err
			}
			if err := s.tokens.Delete(tokenstore.TokenKey); err != nil {
				return err
			}
			color.New(color.FgYellow).Fprintln(a.out, "token removed")
			return nil
		},
	}
}

// readInput reads path, or the App's stdin for "-".
func (a *App) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
