package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	tu "github.com/desertthunder/spkr/internal/testing"
)

func TestFromFS(t *testing.T) {
	t.Run("orders by prefix and derives names", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0002_create_playlists_table.sql": {Data: []byte("CREATE TABLE playlists (id INTEGER);")},
			"sql/0001_create_songs_table.sql":     {Data: []byte("CREATE TABLE songs (id INTEGER);")},
			"sql/0010_create_users_table.sql":     {Data: []byte("CREATE TABLE users (id INTEGER);")},
			"sql/README.md":                       {Data: []byte("ignored")},
			"sql/notes_create_things.sql":         {Data: []byte("ignored")},
		}

		actions, err := FromFS(fsys, "sql")
		if err != nil {
			t.Fatalf("FromFS() error = %v", err)
		}

		want := []string{"create songs table", "create playlists table", "create users table"}
		if len(actions) != len(want) {
			t.Fatalf("expected %d actions, got %d", len(want), len(actions))
		}
		for i, action := range actions {
			if action.Name != want[i] {
				t.Errorf("actions[%d].Name = %q, want %q", i, action.Name, want[i])
			}
			if action.Checksum == "" {
				t.Errorf("actions[%d] has no checksum", i)
			}
		}
	})

	t.Run("duplicate prefix", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0001_create_songs_table.sql": {Data: []byte("SELECT 1;")},
			"sql/0001_create_users_table.sql": {Data: []byte("SELECT 1;")},
		}

		if _, err := FromFS(fsys, "sql"); !errors.Is(err, ErrDuplicateMigration) {
			t.Errorf("expected ErrDuplicateMigration, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := FromFS(fstest.MapFS{}, "sql"); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("multiple statements with comments", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0001_create_songs_table.sql": {Data: []byte(`
-- songs
CREATE TABLE songs (
	id INTEGER PRIMARY KEY, -- row id
	title TEXT
);

CREATE INDEX idx_songs_title ON songs (title);
`)},
		}

		actions, err := FromFS(fsys, "sql")
		if err != nil {
			t.Fatalf("FromFS() error = %v", err)
		}

		db := tu.NewTestDB(t)
		runner := NewRunner(db, nil)
		if _, err := runner.Run(context.Background(), actions); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_songs_title'").Scan(&n); err != nil {
			t.Fatalf("failed to query index: %v", err)
		}
		if n != 1 {
			t.Error("expected second statement to create the index")
		}
	})
}

func TestChecksum(t *testing.T) {
	a := SQL("x", "CREATE TABLE a (id INTEGER)")
	b := SQL("x", "-- comment only\nCREATE TABLE a (id INTEGER)")
	c := SQL("x", "CREATE TABLE b (id INTEGER)")

	if a.Checksum != b.Checksum {
		t.Error("comments should not change the checksum")
	}
	if a.Checksum == c.Checksum {
		t.Error("different statements should have different checksums")
	}
	if Func("y", nil).Checksum != "" {
		t.Error("Func actions should have no checksum")
	}
}
