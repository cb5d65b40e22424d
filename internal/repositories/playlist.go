package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.Playlist].
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist and sets its ID
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO playlists (title, tags, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := insert(r.db, query,
		playlist.Title,
		models.JoinTags(playlist.Tags),
		playlist.UserID,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	playlist.ID = id
	return nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(id int64) (*models.Playlist, error) {
	query := `
		SELECT id, title, tags, user_id, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist %d", shared.ErrNotFound, id)
	}
	return playlist, err
}

// List retrieves all playlists, optionally filtered by "user_id"
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `
		SELECT id, title, tags, user_id, created_at, updated_at
		FROM playlists
		WHERE 1 = 1
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(int64); ok && userID != 0 {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []*models.Playlist{}
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// scan reads one row into a [models.Playlist]
func (r *PlaylistRepository) scan(row scanner) (*models.Playlist, error) {
	var (
		playlist  models.Playlist
		title     sql.NullString
		tags      sql.NullString
		userID    sql.NullInt64
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&playlist.ID, &title, &tags, &userID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist.Title = title.String
	playlist.Tags = models.SplitTags(tags.String)
	playlist.UserID = userID.Int64
	playlist.CreatedAt = createdAt
	playlist.UpdatedAt = updatedAt

	return &playlist, nil
}
