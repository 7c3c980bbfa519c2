package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// Single-row pointer to the logged-in account.
		`CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			FOREIGN KEY(email) REFERENCES accounts(email)
		);`,
		// Append-only record of notification events, for the activity log.
		`CREATE TABLE IF NOT EXISTS activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			occurred_at DATETIME NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL,
			FOREIGN KEY(email) REFERENCES accounts(email)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_email_occurred_at ON activity(email, occurred_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release (ignore if already present).
	alterStmts := []string{
		`ALTER TABLE accounts ADD COLUMN snapshot_version INTEGER DEFAULT 0;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
