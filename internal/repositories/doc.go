// Package repositories implements SQLite persistence for songs, playlists and users.
//
// Repositories assume the declared migrations have already run; they never create tables.
// Each repository takes the shared *sql.DB explicitly.
//
// Key Implementations:
//   - [SongRepository] : song listing with artist and tag filters
//   - [PlaylistRepository] : playlists, optionally filtered by owner
//   - [UserRepository] : local accounts with bcrypt password hashes
package repositories
