package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activeSessionKey = "active"

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// inTx runs fn in a transaction, rolling back when fn or the commit fails.
func (r *AccountRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Create inserts a new account. It returns ErrExists if the email is taken.
func (r *AccountRepo) Create(ctx context.Context, a Account) error {
	now := time.Now().UTC()
	return r.inTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE email = ?`, a.Email).Scan(&one)
		switch {
		case err == nil:
			return fmt.Errorf("account %s: %w", a.Email, ErrExists)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("account lookup: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO accounts (email, name, snapshot, snapshot_version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.Email, a.Name, string(a.Snapshot), a.SnapshotVersion, now, now)
		if err != nil {
			return fmt.Errorf("account insert: %w", err)
		}
		return nil
	})
}

func (r *AccountRepo) Get(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT email, name, snapshot, snapshot_version, created_at, updated_at
		FROM accounts
		WHERE email = ?
	`, email)

	var (
		a        Account
		snapshot string
		version  sql.NullInt64
	)
	if err := row.Scan(&a.Email, &a.Name, &snapshot, &version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("account get: %w", err)
	}
	a.Snapshot = []byte(snapshot)
	a.SnapshotVersion = int(version.Int64)
	return &a, nil
}

// Save replaces the snapshot of an existing account.
func (r *AccountRepo) Save(ctx context.Context, email string, snapshot []byte, version int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET snapshot = ?, snapshot_version = ?, updated_at = ?
		WHERE email = ?
	`, string(snapshot), version, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("account save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("account save rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", email, ErrNotFound)
	}
	return nil
}

func (r *AccountRepo) SetActive(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, email) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET email = excluded.email
	`, activeSessionKey, email)
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Active returns the email of the logged-in account, or ErrNotFound.
func (r *AccountRepo) Active(ctx context.Context) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM session WHERE key = ?`, activeSessionKey).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("active session: %w", ErrNotFound)
		}
		return "", fmt.Errorf("session get: %w", err)
	}
	return email, nil
}

func (r *AccountRepo) ClearActive(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, activeSessionKey); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
