// package models defines the data model for the spkr web application
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model and sets its ID
	Get(id int64) (T, error)                   // Get retrieves a model by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Song is a row in the songs table.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSong creates a [Song] stamped with the current time.
func NewSong(title, artist string, tags ...string) *Song {
	now := time.Now().UTC()
	return &Song{Title: title, Artist: artist, Tags: tags, CreatedAt: now, UpdatedAt: now}
}

func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("song title is required")
	}
	return nil
}

// Playlist is a row in the playlists table.
type Playlist struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlaylist creates a [Playlist] owned by userID, stamped with the current time.
func NewPlaylist(title string, userID int64, tags ...string) *Playlist {
	now := time.Now().UTC()
	return &Playlist{Title: title, UserID: userID, Tags: tags, CreatedAt: now, UpdatedAt: now}
}

func (p *Playlist) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("playlist title is required")
	}
	if len(p.Title) > 255 {
		return fmt.Errorf("playlist title exceeds 255 characters")
	}
	if len(JoinTags(p.Tags)) > 255 {
		return fmt.Errorf("playlist tags exceed 255 characters")
	}
	return nil
}

// User is a row in the users table. Password holds a bcrypt hash, never plain text.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a [User] with an already hashed password.
func NewUser(username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{Username: username, Password: passwordHash, CreatedAt: now, UpdatedAt: now}
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if len(u.Username) > 255 {
		return fmt.Errorf("username exceeds 255 characters")
	}
	if u.Password == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

// SplitTags parses the stored comma-separated form, dropping blanks.
func SplitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the inverse of [SplitTags].
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			clean = append(clean, tag)
		}
	}
	return strings.Join(clean, ",")
}
