// Package models defines domain entities and persistence interfaces for spkr.
//
// Entities map one-to-one onto the tables created by the declared migrations:
//   - [Song] : a track with title, artist and free-form tags
//   - [Playlist] : a titled, tagged collection owned by a user
//   - [User] : a local account with a bcrypt password hash
//
// Tags are stored as a single comma-separated column; [SplitTags] and [JoinTags] convert
// between the stored form and a slice.
//
// The Repository[T] interface defines the data access operations the web layer and CLI use.
package models
