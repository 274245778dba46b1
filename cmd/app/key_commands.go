package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envelope/cmd/app/commands"
	"github.com/allisson/envelope/internal/config"
	"github.com/allisson/envelope/internal/engine"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "derive-kek",
			Usage: "Derive the key-encryption key for a password and salt",
			Flags: []cli.Flag{passwordFlag(), saltFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunDeriveKEK(
						ctx,
						eng,
						logger,
						commands.DefaultIO().Writer,
						credentials(cmd),
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key wrapped under a password",
			Flags: []cli.Flag{passwordFlag(), saltFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunCreateMasterKey(
						ctx,
						eng,
						logger,
						commands.DefaultIO().Writer,
						credentials(cmd),
						cfg.PasswordMinLength,
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "unwrap-master-key",
			Usage: "Recover a wrapped master key",
			Flags: wrappedKeyFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunUnwrapMasterKey(
						ctx,
						eng,
						logger,
						commands.DefaultIO().Writer,
						wrappedKeyRequest(cmd),
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "create-key-pair",
			Usage: "Generate an X25519 key pair whose private key is wrapped under a password",
			Flags: []cli.Flag{passwordFlag(), saltFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunCreateKeyPair(
						ctx,
						eng,
						logger,
						commands.DefaultIO().Writer,
						credentials(cmd),
						cfg.PasswordMinLength,
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "unwrap-private-key",
			Usage: "Recover a wrapped X25519 private key",
			Flags: wrappedKeyFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunUnwrapPrivateKey(
						ctx,
						eng,
						logger,
						commands.DefaultIO().Writer,
						wrappedKeyRequest(cmd),
						outputFormat(cmd, cfg),
					)
				})
			},
		},
	}
}

func wrappedKeyFlags() []cli.Flag {
	return []cli.Flag{
		passwordFlag(),
		saltFlag(),
		&cli.StringFlag{
			Name:     "wrapped-key",
			Aliases:  []string{"k"},
			Required: true,
			Usage:    "Wrapped key (96 hex characters)",
		},
		&cli.StringFlag{
			Name:     "nonce",
			Aliases:  []string{"n"},
			Required: true,
			Usage:    "Nonce the key was wrapped with (24 hex characters)",
		},
		formatFlag(),
	}
}

func wrappedKeyRequest(cmd *cli.Command) commands.WrappedKeyRequest {
	return commands.WrappedKeyRequest{
		Credentials: credentials(cmd),
		WrappedKey:  cmd.String("wrapped-key"),
		Nonce:       cmd.String("nonce"),
	}
}
