// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spkr/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand writes a starter configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default config.toml to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// migrateCommand handles schema migrations
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database schema migrations",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Apply pending migrations",
				Action: r.MigrateRun,
			},
			{
				Name:  "status",
				Usage: "Show which migrations have been applied",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MigrateStatus,
			},
		},
	}
}

// serveCommand starts the web server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Migrate the database and start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.host and server.port",
			},
		},
		Action: r.Serve,
	}
}

// songsCommand handles the song library
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Song library operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Song artist",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
				},
				Action: r.SongsAdd,
			},
			{
				Name:  "list",
				Usage: "List songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only songs by this artist",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Only songs carrying this tag",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "export",
				Usage: "Export songs to a file or stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text, json)",
						Value:   formatter.FormatMarkdown,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
				},
				Action: r.SongsExport,
			},
		},
	}
}

// playlistsCommand handles playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a playlist owned by a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Playlist title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Owner's username",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Only playlists owned by this username",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsList,
			},
		},
	}
}

// usersCommand handles user accounts
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User account operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Usage:    "Unique username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Plain text password, stored as a bcrypt hash",
						Required: true,
						Sources:  cli.EnvVars("SPKR_PASSWORD"),
					},
				},
				Action: r.UsersAdd,
			},
		},
	}
}
