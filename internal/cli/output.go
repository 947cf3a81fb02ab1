package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/paes/ensayos/internal/routes"
)

// printRaw writes an API response as indented JSON. Bodies that are not
// JSON are written unchanged; empty bodies write nothing.
func (a *App) printRaw(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	buf.WriteByte('\n')
	_, err := a.out.Write(buf.Bytes())
	return err
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "print the SPA route table",
		Action: func(_ context.Context, _ *cli.Command) error {
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tPAGE\tNAME\tPROPS")
			for _, r := range routes.MustDefault().Routes() {
				name := r.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Pattern, r.Page, name, r.Props)
			}
			return tw.Flush()
		},
	}
}

type resolved struct {
	Page    routes.Page       `json:"page"`
	Name    string            `json:"name,omitempty"`
	Pattern string            `json:"pattern"`
	Params  map[string]string `json:"params"`
	Props   map[string]string `json:"props,omitempty"`
}

func (a *App) resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "resolve a path against the SPA route table",
		ArgsUsage: "PATH",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("%w: missing PATH", ErrUsage)
			}
			m, err := routes.MustDefault().Resolve(path)
			if err != nil {
				return err
			}
			return a.printJSON(resolved{
				Page:    m.Route.Page,
				Name:    m.Route.Name,
				Pattern: m.Route.Pattern,
				Params:  m.Params,
				Props:   m.Props,
			})
		},
	}
}
