package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Runner applies pending migrations in declared order.
type Runner struct {
	db     *sql.DB
	ledger *Ledger
	logger *log.Logger
}

// Result summarizes a call to [Runner.Run].
type Result struct {
	Applied []string
	Skipped []string
}

// Status describes one declared action relative to the ledger.
type Status struct {
	Name      string
	Applied   bool
	AppliedAt time.Time
	// Changed is set when the action's checksum no longer matches the recorded one.
	Changed bool
}

// NewRunner creates a [Runner] that migrates db.
//
// A nil logger falls back to [log.Default].
func NewRunner(db *sql.DB, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		db:     db,
		ledger: NewLedger(db),
		logger: logger,
	}
}

// Ledger returns the ledger the runner consults.
func (r *Runner) Ledger() *Ledger {
	return r.ledger
}

// Run applies every action the ledger hasn't recorded, one at a time, in the order given.
//
// Each action and its ledger record are committed together. The first failure stops the
// run and is returned as an [ApplyError]; actions after it are not attempted.
func (r *Runner) Run(ctx context.Context, actions []Action) (*Result, error) {
	if err := Validate(actions); err != nil {
		return nil, err
	}

	if err := r.ledger.Ensure(ctx); err != nil {
		return nil, err
	}

	result := &Result{Applied: []string{}, Skipped: []string{}}

	for _, action := range actions {
		rec, err := r.ledger.Get(ctx, action.Name)
		if err != nil {
			return result, err
		}

		if rec != nil {
			if changed(action, rec) {
				r.logger.Warn("applied migration has changed since it ran",
					"migration", action.Name, "recorded", rec.Checksum, "declared", action.Checksum)
			}
			r.logger.Debug("skipping applied migration", "migration", action.Name, "applied_at", rec.AppliedAt)
			result.Skipped = append(result.Skipped, action.Name)
			continue
		}

		r.logger.Info("applying migration", "migration", action.Name)
		start := time.Now()

		if err := r.apply(ctx, action); err != nil {
			return result, err
		}

		r.logger.Info("applied migration", "migration", action.Name, "took", time.Since(start))
		result.Applied = append(result.Applied, action.Name)
	}

	return result, nil
}

// apply runs a single action and records it in one transaction.
func (r *Runner) apply(ctx context.Context, action Action) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %q: %w", action.Name, err)
	}
	defer tx.Rollback()

	if err := action.Apply(ctx, tx); err != nil {
		return &ApplyError{Name: action.Name, Err: err}
	}

	if err := r.ledger.WithTx(tx).RecordRun(ctx, action.Name, action.Checksum); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %q: %w", action.Name, err)
	}

	return nil
}

// Status reports, for each declared action, whether the ledger has recorded it.
func (r *Runner) Status(ctx context.Context, actions []Action) ([]Status, error) {
	if err := Validate(actions); err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(actions))
	for _, action := range actions {
		rec, err := r.ledger.Get(ctx, action.Name)
		if err != nil {
			return nil, err
		}

		status := Status{Name: action.Name}
		if rec != nil {
			status.Applied = true
			status.AppliedAt = rec.AppliedAt
			status.Changed = changed(action, rec)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Validate checks that every action has a non-empty, unique name and an Apply func.
func Validate(actions []Action) error {
	seen := make(map[string]int, len(actions))
	for i, action := range actions {
		if action.Name == "" {
			return fmt.Errorf("%w: migration at position %d has no name", ErrInvalidMigration, i)
		}
		if action.Apply == nil {
			return fmt.Errorf("%w: migration %q has no action", ErrInvalidMigration, action.Name)
		}
		if j, ok := seen[action.Name]; ok {
			return fmt.Errorf("%w: %q declared at positions %d and %d", ErrDuplicateMigration, action.Name, j, i)
		}
		seen[action.Name] = i
	}
	return nil
}

func changed(action Action, rec *Record) bool {
	return action.Checksum != "" && rec.Checksum != "" && action.Checksum != rec.Checksum
}
