package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envelope/cmd/app/commands"
	"github.com/allisson/envelope/internal/config"
	"github.com/allisson/envelope/internal/engine"
)

func getFileCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-file",
			Usage: "Encrypt a file with a master key or a password-wrapped master key",
			Flags: append(fileFlags(), masterKeyFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunEncryptFile(
						ctx,
						eng,
						logger,
						commands.DefaultIO(),
						commands.EncryptFileRequest{
							FileRequest:      fileRequest(cmd),
							MasterKey:        cmd.String("master-key"),
							WrappedMasterKey: wrappedMasterKeyRequest(cmd),
						},
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "decrypt-file",
			Usage: "Decrypt a file with a master key or a password-wrapped master key",
			Flags: append(append(fileFlags(), masterKeyFlags()...),
				&cli.StringFlag{
					Name:     "nonce",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Nonce printed by encrypt-file (24 hex characters)",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunDecryptFile(
						ctx,
						eng,
						logger,
						commands.DefaultIO(),
						commands.DecryptFileRequest{
							FileRequest:      fileRequest(cmd),
							Nonce:            cmd.String("nonce"),
							MasterKey:        cmd.String("master-key"),
							WrappedMasterKey: wrappedMasterKeyRequest(cmd),
						},
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "hybrid-encrypt-file",
			Usage: "Encrypt a file for the owner of an X25519 public key",
			Flags: append(fileFlags(),
				&cli.StringFlag{
					Name:     "public-key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Recipient public key (64 hex characters)",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunHybridEncryptFile(
						ctx,
						eng,
						logger,
						commands.DefaultIO(),
						commands.HybridEncryptFileRequest{
							FileRequest: fileRequest(cmd),
							PublicKey:   cmd.String("public-key"),
						},
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "hybrid-decrypt-file",
			Usage: "Decrypt a hybrid-encrypted file with a password-wrapped private key",
			Flags: append(fileFlags(),
				passwordFlag(),
				saltFlag(),
				requiredHexFlag("wrapped-private-key", "Wrapped private key printed by create-key-pair"),
				requiredHexFlag("private-key-nonce", "Private key nonce printed by create-key-pair"),
				requiredHexFlag("ephemeral-public-key", "Ephemeral public key printed by hybrid-encrypt-file"),
				requiredHexFlag("wrapped-dek", "Wrapped data encryption key printed by hybrid-encrypt-file"),
				requiredHexFlag("dek-nonce", "Data encryption key nonce printed by hybrid-encrypt-file"),
				requiredHexFlag("file-nonce", "File nonce printed by hybrid-encrypt-file"),
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) error {
					return commands.RunHybridDecryptFile(
						ctx,
						eng,
						logger,
						commands.DefaultIO(),
						commands.HybridDecryptFileRequest{
							FileRequest: fileRequest(cmd),
							PrivateKey: commands.WrappedKeyRequest{
								Credentials: credentials(cmd),
								WrappedKey:  cmd.String("wrapped-private-key"),
								Nonce:       cmd.String("private-key-nonce"),
							},
							EphemeralPublicKey: cmd.String("ephemeral-public-key"),
							WrappedDEK:         cmd.String("wrapped-dek"),
							DEKNonce:           cmd.String("dek-nonce"),
							FileNonce:          cmd.String("file-nonce"),
						},
						outputFormat(cmd, cfg),
					)
				})
			},
		},
		{
			Name:  "hash-file",
			Usage: "Print the SHA-256 of a file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "in",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Input file, or '-' for standard input",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withEngine(ctx, func(cfg *config.Config, eng *engine.Engine, _ *slog.Logger) error {
					return commands.RunHashFile(eng, commands.DefaultIO(), cmd.String("in"), outputFormat(cmd, cfg))
				})
			},
		},
	}
}

func fileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Aliases:  []string{"i"},
			Required: true,
			Usage:    "Input file, or '-' for standard input",
		},
		&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    "Output file, created with mode 0600",
		},
		formatFlag(),
	}
}

func masterKeyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "master-key",
			Aliases: []string{"m"},
			Sources: cli.EnvVars("ENVELOPE_MASTER_KEY"),
			Usage:   "Master key (64 hex characters)",
		},
		passwordFlag(),
		saltFlag(),
		&cli.StringFlag{
			Name:  "wrapped-master-key",
			Usage: "Wrapped master key printed by create-master-key; requires --password and --salt",
		},
		&cli.StringFlag{
			Name:  "master-key-nonce",
			Usage: "Master key nonce printed by create-master-key",
		},
	}
}

func requiredHexFlag(name, usage string) cli.Flag {
	return &cli.StringFlag{
		Name:     name,
		Required: true,
		Usage:    usage + " (hex)",
	}
}

func fileRequest(cmd *cli.Command) commands.FileRequest {
	return commands.FileRequest{
		Input:  cmd.String("in"),
		Output: cmd.String("out"),
	}
}

// wrappedMasterKeyRequest returns nil unless --wrapped-master-key is set.
func wrappedMasterKeyRequest(cmd *cli.Command) *commands.WrappedKeyRequest {
	if !cmd.IsSet("wrapped-master-key") {
		return nil
	}
	return &commands.WrappedKeyRequest{
		Credentials: credentials(cmd),
		WrappedKey:  cmd.String("wrapped-master-key"),
		Nonce:       cmd.String("master-key-nonce"),
	}
}
