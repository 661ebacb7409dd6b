// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/trends/internal/formatter"
	"github.com/desertthunder/trends/internal/models"
	"github.com/urfave/cli/v3"
)

func timeRangeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "time-range",
		Aliases: []string{"t"},
		Usage:   "Spotify time range: short_term, medium_term or long_term",
		Value:   models.DefaultTimeRange,
	}
}

func tokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "token",
		Usage:   "Spotify access token (defaults to the token saved by `trends auth`)",
		Sources: cli.EnvVars("TRENDS_TOKEN"),
	}
}

func upstreamFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "upstream",
		Usage: "TopItems service base URL (defaults to [upstream] top_items_url)",
	}
}

// serveCommand runs the HTTP service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the analytics HTTP service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to [server] host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to [server] port)",
			},
		},
		Action: r.Serve,
	}
}

// analyticsCommand generates the analytics views once
func analyticsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "analytics",
		Aliases: []string{"a"},
		Usage:   "Generate listening analytics for a time range",
		Flags: []cli.Flag{
			timeRangeFlag(),
			tokenFlag(),
			upstreamFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, markdown or txt",
				Value:   formatter.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Analytics,
	}
}

// dnaCommand prints the listener summary
func dnaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dna",
		Usage: "Summarize top genres and popularity for a time range",
		Flags: []cli.Flag{
			timeRangeFlag(),
			tokenFlag(),
			upstreamFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.DNA,
	}
}

// snapshotCommand exports analytics for several time ranges
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Export analytics for every time range into a directory",
		Flags: []cli.Flag{
			tokenFlag(),
			upstreamFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown or txt",
				Value:   formatter.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: trends_snapshot_{timestamp})",
			},
			&cli.StringSliceFlag{
				Name:    "time-range",
				Aliases: []string{"t"},
				Usage:   "Time ranges to export (repeatable, default: all three)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent exports (default: one per time range)",
			},
		},
		Action: r.Snapshot,
	}
}

// topCommand lists raw top items from the TopItems service
func topCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			timeRangeFlag(),
			tokenFlag(),
			upstreamFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of items to print",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		}
	}

	return &cli.Command{
		Name:  "top",
		Usage: "List top tracks or artists",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "List top tracks",
				Flags:  flags(),
				Action: r.TopTracks,
			},
			{
				Name:   "artists",
				Usage:  "List top artists",
				Flags:  flags(),
				Action: r.TopArtists,
			},
		},
	}
}

// authCommand handles Spotify authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Run the authorization code flow and save tokens to the config file",
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show the Spotify account the saved token belongs to",
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets redacted",
				Action: r.ConfigShow,
			},
		},
	}
}
