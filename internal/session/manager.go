package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
)

var (
	ErrAccountExists   = errors.New("an account with this email already exists")
	ErrAccountNotFound = errors.New("no account found for this email")
	ErrNoActiveSession = errors.New("not logged in")
)

// Store persists account snapshots keyed by email plus the active-account pointer.
type Store interface {
	Create(ctx context.Context, a storage.Account) error
	Get(ctx context.Context, email string) (*storage.Account, error)
	Save(ctx context.Context, email string, snapshot []byte, version int) error
	SetActive(ctx context.Context, email string) error
	Active(ctx context.Context) (string, error)
	ClearActive(ctx context.Context) error
}

// ActivityLog records emitted events. Optional.
type ActivityLog interface {
	Append(ctx context.Context, email string, occurredAt time.Time, entries []storage.ActivityInsert) error
	Recent(ctx context.Context, email string, limit int) ([]storage.Activity, error)
}

// Manager owns the active account's PlayerState and decides when it is saved:
// once after every top-level action. It is not safe for concurrent use.
type Manager struct {
	store    Store
	activity ActivityLog
	clock    engine.Clock
	log      *zap.Logger

	active *engine.PlayerState
}

func NewManager(store Store, activity ActivityLog, clock engine.Clock, log *zap.Logger) *Manager {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, activity: activity, clock: clock, log: log.Named("session")}
}

func normalizeEmail(email string) (string, error) {
	e, err := engine.RequireText("email", email)
	if err != nil {
		return "", err
	}
	return strings.ToLower(e), nil
}

// Current returns the active state, or nil when logged out.
func (m *Manager) Current() *engine.PlayerState {
	return m.active
}

func (m *Manager) requireActive() (*engine.PlayerState, error) {
	if m.active == nil {
		return nil, ErrNoActiveSession
	}
	return m.active, nil
}

// SignUp creates an account with a fresh default state and makes it active.
func (m *Manager) SignUp(ctx context.Context, name, email string) (*engine.PlayerState, []engine.Event, error) {
	n, err := engine.RequireText("name", name)
	if err != nil {
		return nil, nil, err
	}
	e, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}

	today := engine.Today(m.clock)
	state := engine.DefaultState(engine.Profile{Name: n, Email: e}, today)
	events := engine.ProcessRollover(state, today)

	data, err := engine.EncodeSnapshot(state)
	if err != nil {
		return nil, nil, err
	}
	err = m.store.Create(ctx, storage.Account{
		Email:           e,
		Name:            n,
		Snapshot:        data,
		SnapshotVersion: engine.SnapshotVersion,
	})
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, nil, ErrAccountExists
		}
		return nil, nil, fmt.Errorf("sign up: %w", err)
	}
	if err := m.activate(ctx, state); err != nil {
		return nil, nil, err
	}
	m.log.Info("account created", zap.String("email", e))
	return state, events, nil
}

// Login loads the stored snapshot, upgrades it, runs the daily rollover,
// persists the result and makes the account active.
func (m *Manager) Login(ctx context.Context, email string) (*engine.PlayerState, []engine.Event, error) {
	e, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	acct, err := m.store.Get(ctx, e)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	now := m.clock.Now()
	today := civil.DateOf(now)
	state, upgraded, err := engine.DecodeSnapshot(acct.Snapshot, now)
	if err != nil {
		return nil, nil, fmt.Errorf("login %s: %w", e, err)
	}
	if upgraded {
		m.log.Info("snapshot upgraded",
			zap.String("email", e),
			zap.Int("from_version", acct.SnapshotVersion),
			zap.Int("to_version", engine.SnapshotVersion))
	}
	if state.Profile.Email == "" {
		state.Profile.Email = acct.Email
	}
	if state.Profile.Name == "" {
		state.Profile.Name = acct.Name
	}

	events := engine.ProcessRollover(state, today)
	if upgraded {
		// Backfilled totals may already qualify for badges on a same-day login.
		events = append(events, engine.EvaluateBadges(state)...)
	}
	if len(events) > 0 {
		m.log.Info("daily rollover",
			zap.String("email", e),
			zap.Int("events", len(events)),
			zap.Int("hp", state.HP),
			zap.Int("streak", state.LoginStreak))
	}

	if err := m.save(ctx, state, events); err != nil {
		return nil, nil, err
	}
	if err := m.activate(ctx, state); err != nil {
		return nil, nil, err
	}
	return state, events, nil
}

// Resume logs back into the account recorded as active by a previous process.
func (m *Manager) Resume(ctx context.Context) (*engine.PlayerState, []engine.Event, error) {
	email, err := m.store.Active(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNoActiveSession
		}
		return nil, nil, fmt.Errorf("resume: %w", err)
	}
	state, events, err := m.Login(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		// Pointer to an account that no longer exists.
		if cerr := m.store.ClearActive(ctx); cerr != nil {
			m.log.Warn("clear stale session failed", zap.String("email", email), zap.Error(cerr))
		}
		return nil, nil, ErrNoActiveSession
	}
	return state, events, err
}

// Logout forgets the active account. The stored snapshot is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if m.active != nil {
		m.log.Info("logged out", zap.String("email", m.active.Profile.Email))
	}
	m.active = nil
	if err := m.store.ClearActive(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (m *Manager) activate(ctx context.Context, state *engine.PlayerState) error {
	if err := m.store.SetActive(ctx, state.Profile.Email); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	m.active = state
	return nil
}

// save persists state and records events. A failed activity write is logged
// but does not fail the action.
func (m *Manager) save(ctx context.Context, state *engine.PlayerState, events []engine.Event) error {
	data, err := engine.EncodeSnapshot(state)
	if err != nil {
		return err
	}
	email := state.Profile.Email
	if err := m.store.Save(ctx, email, data, engine.SnapshotVersion); err != nil {
		m.log.Error("snapshot save failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("save: %w", err)
	}
	if m.activity == nil || len(events) == 0 {
		return nil
	}
	entries := make([]storage.ActivityInsert, 0, len(events))
	for _, ev := range events {
		if ev.Kind == engine.EventConfetti {
			continue
		}
		entries = append(entries, storage.ActivityInsert{Kind: string(ev.Kind), Detail: ev.String()})
	}
	if err := m.activity.Append(ctx, email, m.clock.Now(), entries); err != nil {
		m.log.Warn("activity append failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}
