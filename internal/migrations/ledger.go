package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// LedgerTable is the table holding one row per applied migration.
const LedgerTable = "schema_migrations"

// Querier is satisfied by both [sql.DB] and [sql.Tx].
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Record is a single applied migration.
type Record struct {
	Name      string
	Checksum  string
	AppliedAt time.Time
}

// Ledger records which named migrations have been applied to a database.
type Ledger struct {
	db      Querier
	ensured bool
	now     func() time.Time
}

// NewLedger creates a [Ledger] on the given database handle.
//
// The backing table is created lazily by the first call that touches it.
func NewLedger(db Querier) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// WithTx returns a ledger that reads and writes through tx.
func (l *Ledger) WithTx(tx *sql.Tx) *Ledger {
	return &Ledger{db: tx, ensured: l.ensured, now: l.now}
}

// Ensure creates the ledger table if it doesn't exist.
func (l *Ledger) Ensure(ctx context.Context) error {
	if l.ensured {
		return nil
	}

	query := `
		CREATE TABLE IF NOT EXISTS ` + LedgerTable + ` (
			name TEXT PRIMARY KEY,
			checksum TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMP NOT NULL
		)
	`
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", LedgerTable, err)
	}

	l.ensured = true
	return nil
}

// HasRun reports whether a migration with the given name has been recorded.
func (l *Ledger) HasRun(ctx context.Context, name string) (bool, error) {
	if err := l.Ensure(ctx); err != nil {
		return false, err
	}

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM " + LedgerTable + " WHERE name = ?)"
	if err := l.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// RecordRun stores name as applied, stamped with the current UTC time.
//
// Returns a [DuplicateRecordError] if the name is already recorded.
func (l *Ledger) RecordRun(ctx context.Context, name, checksum string) error {
	if err := l.Ensure(ctx); err != nil {
		return err
	}

	query := "INSERT INTO " + LedgerTable + " (name, checksum, applied_at) VALUES (?, ?, ?)"
	if _, err := l.db.ExecContext(ctx, query, name, checksum, l.now().UTC()); err != nil {
		if isConstraintViolation(err) {
			return &DuplicateRecordError{Name: name}
		}
		return fmt.Errorf("failed to record migration %q: %w", name, err)
	}
	return nil
}

// Get returns the record for name, or nil when the migration hasn't run.
func (l *Ledger) Get(ctx context.Context, name string) (*Record, error) {
	if err := l.Ensure(ctx); err != nil {
		return nil, err
	}

	query := "SELECT name, checksum, applied_at FROM " + LedgerTable + " WHERE name = ?"

	var rec Record
	err := l.db.QueryRowContext(ctx, query, name).Scan(&rec.Name, &rec.Checksum, &rec.AppliedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query migration %q: %w", name, err)
	}
	return &rec, nil
}

// Records returns every applied migration, oldest first.
func (l *Ledger) Records(ctx context.Context) ([]Record, error) {
	if err := l.Ensure(ctx); err != nil {
		return nil, err
	}

	query := "SELECT name, checksum, applied_at FROM " + LedgerTable + " ORDER BY applied_at ASC, rowid ASC"
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Name, &rec.Checksum, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
