package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spkr/internal/formatter"
	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/repositories"
	"github.com/desertthunder/spkr/internal/ui"
	"github.com/urfave/cli/v3"
)

// SongsAdd inserts a song into the library.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	song := models.NewSong(cmd.String("title"), cmd.String("artist"), cmd.StringSlice("tag")...)
	if err := repositories.NewSongRepository(db).Create(song); err != nil {
		return err
	}

	r.logger.Debug("song created", "id", song.ID, "title", song.Title)
	return r.writePlain("%s Added song %d: %s\n", ui.Styles().OK("✓"), song.ID, describeSong(song))
}

// SongsList prints songs, optionally filtered by artist or tag.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	songs, err := repositories.NewSongRepository(db).List(map[string]any{
		"artist": cmd.String("artist"),
		"tag":    cmd.String("tag"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	if len(songs) == 0 {
		return r.writePlain("%s\n", ui.Styles().Help("No songs"))
	}

	for _, song := range songs {
		if err := r.writePlain("%4d  %s\n", song.ID, describeSong(song)); err != nil {
			return err
		}
	}
	return nil
}

// SongsExport renders the song library in the requested format to a file or stdout.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	songs, err := repositories.NewSongRepository(db).List(nil)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(format, songs, path); err != nil {
			return err
		}
		r.logger.Info("songs exported", "format", format, "path", path, "count", len(songs))
		return nil
	}

	data, err := formatter.Export(format, songs)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// PlaylistsAdd creates a playlist owned by an existing user.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	owner, err := repositories.NewUserRepository(db).GetByUsername(cmd.String("user"))
	if err != nil {
		return err
	}

	playlist := models.NewPlaylist(cmd.String("title"), owner.ID, cmd.StringSlice("tag")...)
	if err := repositories.NewPlaylistRepository(db).Create(playlist); err != nil {
		return err
	}

	return r.writePlain("%s Added playlist %d: %s (%s)\n", ui.Styles().OK("✓"), playlist.ID, playlist.Title, owner.Username)
}

// PlaylistsList prints playlists, optionally only those owned by --user.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if username := cmd.String("user"); username != "" {
		owner, err := repositories.NewUserRepository(db).GetByUsername(username)
		if err != nil {
			return err
		}
		criteria["user_id"] = owner.ID
	}

	playlists, err := repositories.NewPlaylistRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("%s\n", ui.Styles().Help("No playlists"))
	}

	for _, playlist := range playlists {
		line := playlist.Title
		if len(playlist.Tags) > 0 {
			line += " [" + strings.Join(playlist.Tags, ", ") + "]"
		}
		if err := r.writePlain("%4d  %s\n", playlist.ID, line); err != nil {
			return err
		}
	}
	return nil
}

// UsersAdd creates a user with a bcrypt-hashed password.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := repositories.HashPassword(cmd.String("password"))
	if err != nil {
		return err
	}

	user := models.NewUser(cmd.String("username"), hash)
	if err := repositories.NewUserRepository(db).Create(user); err != nil {
		return err
	}

	return r.writePlain("%s Added user %d: %s\n", ui.Styles().OK("✓"), user.ID, user.Username)
}

func describeSong(song *models.Song) string {
	text := song.Title
	if song.Artist != "" {
		text = fmt.Sprintf("%s - %s", song.Artist, song.Title)
	}
	if len(song.Tags) > 0 {
		text += " [" + strings.Join(song.Tags, ", ") + "]"
	}
	return text
}
