// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sealbox/sealbox/cmd/app/commands"
)

func main() {
	cmd := &cli.Command{
		Name:    "sealbox",
		Usage:   "Hybrid post-quantum encryption for data at rest",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "Generate key pairs for a hybrid suite",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "suite",
						Aliases: []string{"s"},
						Value:   "",
						Usage:   "Suite id (defaults to the active suite)",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "Output file prefix for the four key files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunKeygen(ctx, cmd.String("suite"), cmd.String("out"), commands.DefaultIO())
				},
			},
			{
				Name:      "encrypt",
				Usage:     "Encrypt files under the active suite",
				ArgsUsage: "FILE [FILE...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for output bundles (defaults to alongside inputs)",
					},
					&cli.StringFlag{
						Name:    "passphrase-env",
						Aliases: []string{"p"},
						Usage:   "Environment variable holding the passphrase",
					},
					&cli.StringFlag{
						Name:    "key-prefix",
						Aliases: []string{"k"},
						Usage:   "Prefix of key files written by keygen",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEncrypt(
						ctx,
						cmd.Args().Slice(),
						cmd.String("out-dir"),
						cmd.String("passphrase-env"),
						cmd.String("key-prefix"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "decrypt",
				Usage:     "Decrypt bundles or legacy ciphertext",
				ArgsUsage: "FILE [FILE...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out-dir",
						Aliases: []string{"o"},
						Usage:   "Directory for recovered plaintext (defaults to alongside inputs)",
					},
					&cli.StringFlag{
						Name:    "passphrase-env",
						Aliases: []string{"p"},
						Usage:   "Environment variable holding the passphrase",
					},
					&cli.StringFlag{
						Name:    "key-prefix",
						Aliases: []string{"k"},
						Usage:   "Prefix of key files written by keygen",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDecrypt(
						ctx,
						cmd.Args().Slice(),
						cmd.String("out-dir"),
						cmd.String("passphrase-env"),
						cmd.String("key-prefix"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "inspect",
				Usage:     "Show bundle metadata without decrypting",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunInspect(cmd.Args().First(), cmd.String("format"), commands.DefaultIO())
				},
			},
			{
				Name:      "hash",
				Usage:     "Print content digests of files",
				ArgsUsage: "FILE [FILE...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "algorithm",
						Aliases: []string{"a"},
						Usage:   "Hash algorithm (sha256, sha512, sha3-256, blake2b-256)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHash(cmd.Args().Slice(), cmd.String("algorithm"), commands.DefaultIO())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
