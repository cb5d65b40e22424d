package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/shared"
)

// SongRepository implements [models.Repository] for [models.Song] persistence.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song and sets its ID
func (r *SongRepository) Create(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO songs (title, artist, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`

	id, err := insert(r.db, query, song.Title, song.Artist, models.JoinTags(song.Tags), song.CreatedAt, song.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	song.ID = id
	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id int64) (*models.Song, error) {
	query := `
		SELECT id, title, artist, tags, created_at, updated_at
		FROM songs
		WHERE id = ?
	`

	song, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: song %d", shared.ErrNotFound, id)
	}
	return song, err
}

// List retrieves songs ordered by id, optionally filtered by "artist" (exact) or "tag" (contained).
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `
		SELECT id, title, artist, tags, created_at, updated_at
		FROM songs
		WHERE 1 = 1
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if tag, ok := criteria["tag"].(string); ok && tag != "" {
		query += " AND ',' || tags || ',' LIKE ?"
		args = append(args, "%,"+tag+",%")
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scan reads one row into a [models.Song]
func (r *SongRepository) scan(row scanner) (*models.Song, error) {
	var (
		song      models.Song
		title     sql.NullString
		artist    sql.NullString
		tags      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&song.ID, &title, &artist, &tags, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song.Title = title.String
	song.Artist = artist.String
	song.Tags = models.SplitTags(tags.String)
	song.CreatedAt = createdAt
	song.UpdatedAt = updatedAt

	return &song, nil
}
