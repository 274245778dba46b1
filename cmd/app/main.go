// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=<version>".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:     "envelope",
		Usage:    "Client-side envelope encryption with password-wrapped keys",
		Version:  version,
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
