package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/paes/ensayos/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.New(os.Stdout, os.Stderr, os.Stdin)
	if err := app.Run(ctx, os.Args); err != nil {
		app.Fail(err)
		stop()
		os.Exit(1)
	}
}
