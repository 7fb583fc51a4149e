package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/happysmilecode/yumenosite/internal/db"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// Migrator creates the document tables on startup.
type Migrator struct {
	db *db.PostgresDB
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.PostgresDB) *Migrator {
	return &Migrator{
		db: database,
	}
}

// Every entity is stored as a whole JSONB document next to its optimistic
// version stamp. The conditional-update concurrency scheme needs nothing
// beyond these three tables.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1
	);`,
}

// Migrate applies the schema statements in a single transaction. All
// statements are idempotent, so re-running on every startup is safe.
func (m *Migrator) Migrate(ctx context.Context) error {
	err := m.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration statement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Int("statements", len(statements)).Msg("Schema migration applied")
	return nil
}
