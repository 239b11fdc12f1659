package repo

import (
	"context"
	"database/sql"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS attendance_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		aluno TEXT NOT NULL,
		serie TEXT NOT NULL,
		data TEXT NOT NULL,
		responsavel TEXT NOT NULL,
		numero TEXT NOT NULL,
		status TEXT NOT NULL,
		resposta TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_log_numero ON attendance_log (numero)`,
	`CREATE TABLE IF NOT EXISTS config (
		id INTEGER PRIMARY KEY,
		message_template TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS attendance_log (
		id BIGSERIAL PRIMARY KEY,
		aluno TEXT NOT NULL,
		serie TEXT NOT NULL,
		data TEXT NOT NULL,
		responsavel TEXT NOT NULL,
		numero TEXT NOT NULL,
		status TEXT NOT NULL,
		resposta TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_log_numero ON attendance_log (numero)`,
	`CREATE TABLE IF NOT EXISTS config (
		id BIGINT PRIMARY KEY,
		message_template TEXT NOT NULL
	)`,
}

// Migrate creates the dispatch-log and config tables when missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == "postgres" {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
