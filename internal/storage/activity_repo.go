package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

type ActivityInsert struct {
	Kind   string
	Detail string
}

// Append records entries for email, all stamped with occurredAt.
func (r *ActivityRepo) Append(ctx context.Context, email string, occurredAt time.Time, entries []ActivityInsert) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activity (email, occurred_at, kind, detail)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("activity prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, email, occurredAt, e.Kind, e.Detail); err != nil {
			return fmt.Errorf("activity insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for email, newest first.
func (r *ActivityRepo) Recent(ctx context.Context, email string, limit int) ([]Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, occurred_at, kind, detail
		FROM activity
		WHERE email = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?
	`, email, limit)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Email, &a.OccurredAt, &a.Kind, &a.Detail); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}
