package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envelope/cmd/app/commands"
	"github.com/allisson/envelope/internal/app"
	"github.com/allisson/envelope/internal/config"
	"github.com/allisson/envelope/internal/engine"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getFileCommands()...)
	return cmds
}

// withEngine loads configuration, builds the container and runs fn with its engine.
// The container is always shut down, which flushes metrics when enabled.
func withEngine(
	ctx context.Context,
	fn func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer func() {
		if err := container.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	eng, err := container.Engine()
	if err != nil {
		return err
	}
	return fn(cfg, eng, logger)
}

// outputFormat returns the --format flag, falling back to OUTPUT_FORMAT.
func outputFormat(cmd *cli.Command, cfg *config.Config) string {
	if format := cmd.String("format"); format != "" {
		return format
	}
	return cfg.OutputFormat
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: 'text', 'json' or 'yaml' (default: OUTPUT_FORMAT)",
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Sources: cli.EnvVars("ENVELOPE_PASSWORD"),
		Usage:   "Password the key-encryption key is derived from",
	}
}

func credentials(cmd *cli.Command) commands.Credentials {
	return commands.Credentials{
		Password: cmd.String("password"),
		Salt:     cmd.String("salt"),
	}
}

func saltFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "salt",
		Aliases: []string{"s"},
		Sources: cli.EnvVars("ENVELOPE_SALT"),
		Usage:   "Key derivation salt, usually the account email address",
	}
}
