package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:                   "lrsync",
		Usage:                  "Sync Lightroom galleries into a static photo manifest",
		Version:                version,
		UseShortOptionHandling: true,
		EnableShellCompletion:  true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				Sources:     cli.EnvVars("LRSYNC_CONFIG"),
				DefaultText: "lrsync.config",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Set log level: debug, info, warn, error",
				Sources: cli.EnvVars("LRSYNC_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress all log output (overrides --log-level)",
				Sources: cli.EnvVars("LRSYNC_QUIET"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "human",
				Usage:   "Log format: human, slog, or json",
				Sources: cli.EnvVars("LRSYNC_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Vendor API key (overrides config file)",
				Sources: cli.EnvVars("LRSYNC_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "encryption-key",
				Usage:   "Hex AES key for the stored credentials (overrides config file)",
				Sources: cli.EnvVars("LRSYNC_ENCRYPTION_KEY"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logFormat = cmd.String("log-format")
			if cmd.Bool("quiet") {
				initQuietLogger()
			} else {
				initLogger(parseLogLevel(cmd.String("log-level")))
			}

			configPath = cmd.String("config")
			apiKeyOverride = strings.TrimSpace(cmd.String("api-key"))
			encryptionKeyOverride = strings.TrimSpace(cmd.String("encryption-key"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Run one sync pass over all configured galleries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Only sync galleries matching this tag (overrides configured sync tag)",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"t"},
						Usage:   "Number of concurrent photo workers (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "progress-json",
						Usage: "Emit progress events as JSON lines on stdout",
					},
				},
				Action: syncAction,
			},
			{
				Name:  "watch",
				Usage: "Sync on a fixed interval until interrupted",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Time between sync passes (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "progress-json",
						Usage: "Emit progress events as JSON lines on stdout",
					},
				},
				Action: watchAction,
			},
			{
				Name:  "gallery",
				Usage: "Manage configured sync sources",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Add a gallery by share URL or private album id",
						UsageText: "lrsync gallery add <share-url | album-id> [--name NAME] [--tag TAG] [--featured]",
						Arguments: []cli.Argument{
							&cli.StringArg{
								Name:      "source",
								UsageText: "Public share URL or private album id",
							},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "name",
								Aliases: []string{"n"},
								Usage:   "Album display name (required for private albums)",
							},
							&cli.StringFlag{
								Name:  "tag",
								Usage: "Tag used by the sync tag filter",
							},
							&cli.BoolFlag{
								Name:  "featured",
								Usage: "Mark the album as featured",
							},
						},
						Action: galleryAddAction,
					},
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List configured galleries",
						Action:  galleryListAction,
					},
					{
						Name:      "remove",
						Aliases:   []string{"rm"},
						Usage:     "Remove a gallery by share URL or album id",
						UsageText: "lrsync gallery remove <share-url | album-id> [--purge]",
						Arguments: []cli.Argument{
							&cli.StringArg{
								Name:      "identifier",
								UsageText: "Share URL or album id",
							},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "purge",
								Usage: "Also remove the album and its photos from the manifest",
							},
						},
						Action: galleryRemoveAction,
					},
					{
						Name:  "tag",
						Usage: "Set the sync tag filter (empty clears it)",
						Arguments: []cli.Argument{
							&cli.StringArg{
								Name:      "tag",
								UsageText: "Tag to filter galleries by",
							},
						},
						Action: setTagAction,
					},
				},
			},
			{
				Name:  "auth",
				Usage: "Inspect stored credentials",
				Commands: []*cli.Command{
					{
						Name:   "status",
						Usage:  "Show whether usable credentials are present",
						Action: authStatusAction,
					},
				},
			},
			{
				Name:  "config",
				Usage: "Inspect configuration",
				Commands: []*cli.Command{
					{
						Name:   "path",
						Usage:  "Print config file path",
						Action: configPathAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
