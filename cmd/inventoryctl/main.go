// Command inventoryctl is the operator CLI for the dealer inventory: schema
// migrations, slug backfill and inventory export. It reads the same
// environment variables as the API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	// Library code logs through slog; route it to the same terminal output.
	slog.SetDefault(slog.New(logger))

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "inventoryctl",
		Usage:    "Operate the dealer inventory database",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("inventoryctl failed", "err", err)
	}
}
