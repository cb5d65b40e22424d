package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/spkr/internal/migrations"
	"github.com/desertthunder/spkr/internal/shared"
	"github.com/desertthunder/spkr/internal/ui"
	"github.com/urfave/cli/v3"
)

// LoadConfig reads the --config file when it exists and applies the configured log level.
//
// A missing file is not an error; the embedded defaults are used instead.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, fmt.Errorf("failed to load config %s: %w", r.configPath, err)
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	level, err := shared.ParseLevel(r.config.Log.Level)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	return r.writePlain("%s Config written to %s\n", ui.Styles().OK("✓"), r.configPath)
}

// openDatabase opens the configured database without touching its schema.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// migrate applies pending migrations. It must complete before anything reads the tables.
func (r *Runner) migrate(ctx context.Context, db *sql.DB) (*migrations.Result, error) {
	logger := shared.WithLogger(r.logger, "component", "migrations")

	if exists, err := shared.TableExists(db, "users"); err != nil {
		return nil, err
	} else if !exists {
		logger.Info("the users table doesn't exist")
	}

	actions, err := r.migrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	result, err := migrations.NewRunner(db, logger).Run(ctx, actions)
	if err != nil {
		return result, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database up to date", "applied", len(result.Applied), "skipped", len(result.Skipped))
	return result, nil
}

// database opens the configured database and brings its schema up to date.
func (r *Runner) database(ctx context.Context) (*sql.DB, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}

	if _, err := r.migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
