package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"simlab/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates and upgrades the run-history schema. Every step
// is idempotent so it can run unconditionally at startup.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create simlab_runs table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create simlab_runs indexes")
	}
	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS simlab_runs (
			id UUID PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			seed BIGINT NOT NULL DEFAULT 0,
			params JSONB,
			metrics JSONB,
			fingerprint VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_simlab_runs_kind ON simlab_runs(kind);
		CREATE INDEX IF NOT EXISTS idx_simlab_runs_created_at ON simlab_runs(created_at DESC)
	`)
	return err
}
