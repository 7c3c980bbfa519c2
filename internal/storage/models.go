package storage

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// Account is one stored player snapshot, keyed by email. The snapshot is
// opaque to storage.
type Account struct {
	Email           string
	Name            string
	Snapshot        []byte
	SnapshotVersion int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Activity struct {
	ID         int64
	Email      string
	OccurredAt time.Time
	Kind       string
	Detail     string
}
