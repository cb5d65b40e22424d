package schema

import (
	"context"
	"reflect"
	"testing"

	"github.com/desertthunder/spkr/internal/migrations"
	tu "github.com/desertthunder/spkr/internal/testing"
)

func TestMigrations(t *testing.T) {
	t.Run("declared order", func(t *testing.T) {
		actions, err := Migrations()
		if err != nil {
			t.Fatalf("Migrations() error = %v", err)
		}

		var names []string
		for _, a := range actions {
			names = append(names, a.Name)
		}

		want := []string{"create songs table", "create playlists table", "create users table"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("names = %v, want %v", names, want)
		}
	})

	t.Run("fresh database", func(t *testing.T) {
		ctx := context.Background()
		db := tu.NewTestDB(t)

		actions, err := Migrations()
		if err != nil {
			t.Fatalf("Migrations() error = %v", err)
		}

		runner := migrations.NewRunner(db, nil)
		if _, err := runner.Run(ctx, actions); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		records, err := runner.Ledger().Records(ctx)
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected exactly 3 records, got %d", len(records))
		}
		for i, rec := range records {
			if rec.Name != actions[i].Name {
				t.Errorf("records[%d] = %q, want %q", i, rec.Name, actions[i].Name)
			}
		}

		columns := map[string][]string{
			"songs":     {"id", "title", "artist", "tags", "created_at", "updated_at"},
			"playlists": {"id", "title", "tags", "user_id", "created_at", "updated_at"},
			"users":     {"id", "username", "password", "created_at", "updated_at"},
		}
		for _, table := range Tables {
			if got := tu.Columns(t, db, table); !reflect.DeepEqual(got, columns[table]) {
				t.Errorf("%s columns = %v, want %v", table, got, columns[table])
			}
		}

		result, err := runner.Run(ctx, actions)
		if err != nil {
			t.Fatalf("second Run() error = %v", err)
		}
		if len(result.Applied) != 0 {
			t.Errorf("second run applied %v", result.Applied)
		}
	})
}
