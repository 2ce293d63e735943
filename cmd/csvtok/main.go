// Package main is the entry point for the csvtok CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/shapestone/shape-csvtok/internal/cli"
	"github.com/shapestone/shape-csvtok/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Per-input failures were logged as they were reported.
		if !errors.Is(err, cli.ErrTokenizeFailed) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}
	return 0
}
