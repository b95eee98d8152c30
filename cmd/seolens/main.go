// Command seolens runs the audit API server, a one-off audit, or storage
// migrations.
//
//	seolens [serve] [-config seolens.toml]
//	seolens audit -owner <id> -project <id> [-pdf report.pdf]
//	seolens migrate
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/seolens/internal/cli"
	"github.com/raysh454/seolens/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := args.Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger, err := logging.NewZapLogger(cfg.Log.Level, "seolens")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, args, cfg, logger, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("command failed", logging.F("command", args.Command), logging.Err(err))
		return 1
	}
	return 0
}
