package session

import (
	"context"

	"go.uber.org/zap"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
)

// AddTask adds a task to the active account and saves.
func (m *Manager) AddTask(ctx context.Context, title string, list engine.ListType) (*engine.Task, error) {
	state, err := m.requireActive()
	if err != nil {
		return nil, err
	}
	task, err := engine.AddTask(state, title, list, m.clock.Now())
	if err != nil {
		return nil, err
	}
	// Copy before saving; the pointer aliases a slice that may grow later.
	added := *task
	if err := m.save(ctx, state, nil); err != nil {
		return nil, err
	}
	m.log.Debug("task added", zap.String("id", added.ID), zap.String("list", string(list)))
	return &added, nil
}

// DeleteTask removes a task from the active account. Saving is skipped when
// nothing was removed.
func (m *Manager) DeleteTask(ctx context.Context, id string, list engine.ListType) (bool, error) {
	state, err := m.requireActive()
	if err != nil {
		return false, err
	}
	if !engine.DeleteTask(state, id, list) {
		return false, nil
	}
	if err := m.save(ctx, state, nil); err != nil {
		return true, err
	}
	return true, nil
}

// ToggleTask flips a task on the active account, saves, and returns the events.
func (m *Manager) ToggleTask(ctx context.Context, id string, list engine.ListType) ([]engine.Event, error) {
	state, err := m.requireActive()
	if err != nil {
		return nil, err
	}
	before, _, found := engine.FindTask(state, id)
	if !found {
		return nil, nil
	}
	wasCompleted := before.Completed

	events := engine.ToggleTask(state, id, list)
	after, _, _ := engine.FindTask(state, id)
	if after.Completed == wasCompleted {
		// Locked habit or wrong list: nothing changed.
		return events, nil
	}
	if err := m.save(ctx, state, events); err != nil {
		return events, err
	}
	m.log.Debug("task toggled",
		zap.String("id", id),
		zap.Bool("completed", after.Completed),
		zap.Int("xp", state.XP),
		zap.Int("level", state.Level))
	return events, nil
}

// RecentActivity returns the newest activity entries of the active account.
func (m *Manager) RecentActivity(ctx context.Context, limit int) ([]storage.Activity, error) {
	state, err := m.requireActive()
	if err != nil {
		return nil, err
	}
	if m.activity == nil {
		return nil, nil
	}
	return m.activity.Recent(ctx, state.Profile.Email, limit)
}
