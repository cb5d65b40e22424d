package migrations

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRecord    = errors.New("migration already recorded")
	ErrMigrationApply     = errors.New("migration failed to apply")
	ErrDuplicateMigration = errors.New("duplicate migration name")
	ErrInvalidMigration   = errors.New("invalid migration")
)

// DuplicateRecordError is returned by [Ledger.RecordRun] when the name is already in the ledger.
//
// Under correct [Runner] usage this never happens, so it points at a bug or a concurrent migrator.
type DuplicateRecordError struct {
	Name string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("%v: %q", ErrDuplicateRecord, e.Name)
}

func (e *DuplicateRecordError) Is(target error) bool {
	return target == ErrDuplicateRecord
}

// ApplyError wraps a failure from a migration's schema action.
type ApplyError struct {
	Name string
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrMigrationApply, e.Name, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

func (e *ApplyError) Is(target error) bool {
	return target == ErrMigrationApply
}
