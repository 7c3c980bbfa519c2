package root

import (
	"context"
	"errors"
	"fmt"

	"habitquest/internal/engine"
	"habitquest/internal/session"
	"habitquest/internal/storage"
)

func (a *app) openManager(ctx context.Context) (*session.Manager, func(), error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, a.cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	mgr := session.NewManager(
		storage.NewAccountRepo(db),
		storage.NewActivityRepo(db),
		engine.SystemClock{Location: loc},
		a.log,
	)
	return mgr, cleanup, nil
}

// openSession resumes the active account. Rollover events from the resume
// are returned so the caller can show them before its own output.
func (a *app) openSession(ctx context.Context) (*session.Manager, []engine.Event, func(), error) {
	mgr, cleanup, err := a.openManager(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	_, events, err := mgr.Resume(ctx)
	if err != nil {
		cleanup()
		if errors.Is(err, session.ErrNoActiveSession) {
			return nil, nil, nil, fmt.Errorf("%w (run `hq login <email>` or `hq signup <name> <email>`)", err)
		}
		return nil, nil, nil, err
	}
	return mgr, events, cleanup, nil
}
