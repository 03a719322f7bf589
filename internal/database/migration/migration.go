// Package migration creates the PostgreSQL schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step, so its presence means the schema is complete.
const sentinelTable = "public.messages"

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID PRIMARY KEY,
  username      TEXT NOT NULL,
  email         TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  name          TEXT NOT NULL,
  CONSTRAINT users_email_key UNIQUE (email),
  CONSTRAINT users_username_key UNIQUE (username)
);`,
	},
	{
		Name: "create_table_todos",
		SQL: `CREATE TABLE IF NOT EXISTS todos (
  seq         BIGSERIAL   UNIQUE,
  id          UUID        PRIMARY KEY,
  user_id     UUID        NOT NULL REFERENCES users (id),
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL DEFAULT '',
  priority    TEXT        NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
  due_date    TEXT,
  completed   BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_todos_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos (user_id, seq);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  seq           BIGSERIAL   UNIQUE,
  id            UUID        PRIMARY KEY,
  user_id       UUID        NOT NULL REFERENCES users (id),
  filename      TEXT        NOT NULL UNIQUE,
  original_name TEXT        NOT NULL,
  mime_type     TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  path          TEXT        NOT NULL,
  uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_files_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_user_id ON files (user_id, seq);`,
	},
	{
		Name: "create_table_messages",
		SQL: `CREATE TABLE IF NOT EXISTS messages (
  seq        BIGSERIAL   UNIQUE,
  id         UUID        PRIMARY KEY,
  user_id    TEXT        NOT NULL,
  username   TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_messages_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages (user_id);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs every step if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
