package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	tu "github.com/desertthunder/spkr/internal/testing"
)

func newTestRunner(t *testing.T) (*Runner, *sql.DB, *bytes.Buffer) {
	t.Helper()
	db := tu.NewTestDB(t)
	buf := &bytes.Buffer{}
	logger := log.New(buf)
	logger.SetLevel(log.DebugLevel)
	return NewRunner(db, logger), db, buf
}

func songsAction() Action {
	return SQL("create songs table", `CREATE TABLE songs (id INTEGER PRIMARY KEY, title TEXT, artist TEXT)`)
}

func indexAction() Action {
	return SQL("index song titles", `CREATE INDEX idx_songs_title ON songs (title)`)
}

func usersAction() Action {
	return SQL("create users table", `CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT)`)
}

func TestRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("applies in declared order", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)

		var order []string
		track := func(name string) Action {
			return Func(name, func(ctx context.Context, tx *sql.Tx) error {
				order = append(order, name)
				return nil
			})
		}

		actions := []Action{track("c"), track("a"), track("b")}
		result, err := runner.Run(ctx, actions)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		want := []string{"c", "a", "b"}
		if !reflect.DeepEqual(order, want) {
			t.Errorf("execution order = %v, want %v", order, want)
		}
		if !reflect.DeepEqual(result.Applied, want) {
			t.Errorf("Applied = %v, want %v", result.Applied, want)
		}

		records, err := NewLedger(db).Records(ctx)
		if err != nil {
			t.Fatalf("Records() error = %v", err)
		}
		if len(records) != 3 {
			t.Errorf("expected 3 records, got %d", len(records))
		}
	})

	t.Run("idempotent across runs", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		calls := 0
		counted := Func("count", func(ctx context.Context, tx *sql.Tx) error {
			calls++
			return nil
		})
		actions := []Action{songsAction(), counted, usersAction()}

		if _, err := runner.Run(ctx, actions); err != nil {
			t.Fatalf("first Run() error = %v", err)
		}

		result, err := runner.Run(ctx, actions)
		if err != nil {
			t.Fatalf("second Run() error = %v", err)
		}

		if len(result.Applied) != 0 {
			t.Errorf("second run applied %v, want nothing", result.Applied)
		}
		if len(result.Skipped) != 3 {
			t.Errorf("second run skipped %d, want 3", len(result.Skipped))
		}
		if calls != 1 {
			t.Errorf("action ran %d times, want 1", calls)
		}
	})

	t.Run("dependent migration fails without its prerequisite", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)

		_, err := runner.Run(ctx, []Action{indexAction(), usersAction()})
		if err == nil {
			t.Fatal("expected error applying index before songs table exists")
		}
		if !errors.Is(err, ErrMigrationApply) {
			t.Errorf("expected ErrMigrationApply, got %v", err)
		}
		if tu.TableExists(t, db, "users") {
			t.Error("users table should not be created after an earlier failure")
		}
	})

	t.Run("dependent migration succeeds in order", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)

		result, err := runner.Run(ctx, []Action{songsAction(), indexAction(), usersAction()})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(result.Applied) != 3 {
			t.Errorf("expected 3 applied, got %v", result.Applied)
		}
		if !tu.TableExists(t, db, "users") {
			t.Error("users table should exist")
		}
	})

	t.Run("partial failure then recovery", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)
		ledger := NewLedger(db)

		broken := SQL("create playlists table", `CREATE TABLE playlists (id INTEGER PRIMARY KEY,`)
		_, err := runner.Run(ctx, []Action{songsAction(), broken, usersAction()})
		if err == nil {
			t.Fatal("expected error from malformed migration")
		}

		var applyErr *ApplyError
		if !errors.As(err, &applyErr) {
			t.Fatalf("expected ApplyError, got %T: %v", err, err)
		}
		if applyErr.Name != "create playlists table" {
			t.Errorf("ApplyError.Name = %q, want %q", applyErr.Name, "create playlists table")
		}

		for name, want := range map[string]bool{
			"create songs table":     true,
			"create playlists table": false,
			"create users table":     false,
		} {
			got, err := ledger.HasRun(ctx, name)
			if err != nil {
				t.Fatalf("HasRun(%q) error = %v", name, err)
			}
			if got != want {
				t.Errorf("HasRun(%q) = %v, want %v", name, got, want)
			}
		}
		if tu.TableExists(t, db, "users") {
			t.Error("third migration should never have been attempted")
		}

		fixed := SQL("create playlists table", `CREATE TABLE playlists (id INTEGER PRIMARY KEY, title TEXT)`)
		result, err := runner.Run(ctx, []Action{songsAction(), fixed, usersAction()})
		if err != nil {
			t.Fatalf("Run() after fix error = %v", err)
		}

		want := []string{"create playlists table", "create users table"}
		if !reflect.DeepEqual(result.Applied, want) {
			t.Errorf("Applied = %v, want %v", result.Applied, want)
		}
		if !reflect.DeepEqual(result.Skipped, []string{"create songs table"}) {
			t.Errorf("Skipped = %v, want [create songs table]", result.Skipped)
		}
	})

	t.Run("failed Func leaves no partial schema", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)

		half := Func("half done", func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `CREATE TABLE half (id INTEGER)`); err != nil {
				return err
			}
			return errors.New("boom")
		})

		_, err := runner.Run(ctx, []Action{half})
		if !errors.Is(err, ErrMigrationApply) {
			t.Fatalf("expected ErrMigrationApply, got %v", err)
		}
		if tu.TableExists(t, db, "half") {
			t.Error("table created by a failed migration should be rolled back")
		}

		ok, err := runner.Ledger().HasRun(ctx, "half done")
		if err != nil {
			t.Fatalf("HasRun() error = %v", err)
		}
		if ok {
			t.Error("failed migration should not be recorded")
		}
	})

	t.Run("duplicate names fail before applying", func(t *testing.T) {
		runner, db, _ := newTestRunner(t)

		_, err := runner.Run(ctx, []Action{songsAction(), usersAction(), songsAction()})
		if !errors.Is(err, ErrDuplicateMigration) {
			t.Fatalf("expected ErrDuplicateMigration, got %v", err)
		}
		if tu.TableExists(t, db, "songs") {
			t.Error("no migration should be applied when names collide")
		}
	})

	t.Run("invalid actions", func(t *testing.T) {
		tests := []struct {
			name    string
			actions []Action
		}{
			{name: "empty name", actions: []Action{SQL("", "SELECT 1")}},
			{name: "nil apply", actions: []Action{{Name: "nothing"}}},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				runner, _, _ := newTestRunner(t)
				if _, err := runner.Run(ctx, tc.actions); !errors.Is(err, ErrInvalidMigration) {
					t.Errorf("expected ErrInvalidMigration, got %v", err)
				}
			})
		}
	})

	t.Run("warns when applied migration changed", func(t *testing.T) {
		runner, _, buf := newTestRunner(t)

		original := SQL("create songs table", `CREATE TABLE songs (id INTEGER PRIMARY KEY)`)
		if _, err := runner.Run(ctx, []Action{original}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		edited := SQL("create songs table", `CREATE TABLE songs (id INTEGER PRIMARY KEY, title TEXT)`)
		result, err := runner.Run(ctx, []Action{edited})
		if err != nil {
			t.Fatalf("Run() with edited migration error = %v", err)
		}
		if len(result.Applied) != 0 {
			t.Errorf("edited migration should not be re-applied, got %v", result.Applied)
		}
		if !strings.Contains(buf.String(), "changed since it ran") {
			t.Errorf("expected drift warning in log output, got %q", buf.String())
		}

		statuses, err := runner.Status(ctx, []Action{edited})
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if !statuses[0].Applied || !statuses[0].Changed {
			t.Errorf("Status = %+v, want applied and changed", statuses[0])
		}
	})

	t.Run("Status", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		if _, err := runner.Run(ctx, []Action{songsAction()}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		statuses, err := runner.Status(ctx, []Action{songsAction(), usersAction()})
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if len(statuses) != 2 {
			t.Fatalf("expected 2 statuses, got %d", len(statuses))
		}
		if !statuses[0].Applied || statuses[0].AppliedAt.IsZero() {
			t.Errorf("songs status = %+v, want applied with timestamp", statuses[0])
		}
		if statuses[1].Applied {
			t.Errorf("users status = %+v, want pending", statuses[1])
		}
		if statuses[0].Changed {
			t.Error("unchanged migration reported as changed")
		}
	})
}
