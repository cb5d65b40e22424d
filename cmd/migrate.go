package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spkr/internal/migrations"
	"github.com/desertthunder/spkr/internal/ui"
	"github.com/urfave/cli/v3"
)

// MigrateRun applies pending migrations and reports what changed.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := r.migrate(ctx, db)
	if err != nil {
		return err
	}

	if len(result.Applied) == 0 {
		return r.writePlain("%s\n", ui.Styles().Help("Nothing to migrate"))
	}

	for _, name := range result.Applied {
		if err := r.writePlain("%s %s\n", ui.Styles().OK("✓"), name); err != nil {
			return err
		}
	}
	return nil
}

// MigrateStatus lists declared migrations and whether each has been applied.
func (r *Runner) MigrateStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	actions, err := r.migrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	statuses, err := migrations.NewRunner(db, r.logger).Status(ctx, actions)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(statuses, true)
	}

	if err := r.writePlain("%s\n\n", ui.Styles().Title("Migrations · "+r.config.Database.Path)); err != nil {
		return err
	}
	return r.writePlain("%s", ui.Styles().RenderStatus(statuses))
}
