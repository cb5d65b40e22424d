// Package migrations applies named schema changes to a SQLite database exactly once.
//
// # Ledger
//
// The [Ledger] is the durable record of which migrations have run. It is backed by the
// schema_migrations table, which is created on first use. Each row holds the migration
// name (primary key), a checksum of the migration content and the time it was applied.
// Rows are never updated or deleted.
//
// # Runner
//
// The [Runner] takes an ordered slice of [Action] values and applies the ones the ledger
// has not seen, strictly in the declared order. Each action runs in its own transaction
// together with its ledger insert, so a failed action leaves neither schema changes nor a
// record behind and the next start retries it from the same point. The first failure
// stops the run; later actions are not attempted.
//
// Names must be unique and non-empty within one run. Duplicates are rejected before any
// action is applied.
//
// # Sources
//
// [SQL] and [Func] build actions in code. [FromFS] builds them from numbered .sql files
// (0001_create_songs_table.sql is named "create songs table").
//
// # Limitations
//
// The runner assumes exclusive access to the database while it runs. Two processes
// migrating the same database at once can both observe a name as pending; there is no
// distributed lock. When that happens the slower process fails on the ledger insert with
// a [DuplicateRecordError] and its transaction is rolled back.
package migrations
