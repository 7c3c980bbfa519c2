package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// SnapshotVersion is the current snapshot schema. Version 0 is any snapshot
// written before versioning, where fields may be missing.
const SnapshotVersion = 1

type snapshotTasks struct {
	Habits       []snapshotTask `json:"habits"`
	Todos        []snapshotTask `json:"todos"`
	WeeklyGoals  []snapshotTask `json:"weeklyGoals"`
	MonthlyGoals []snapshotTask `json:"monthlyGoals"`
}

// snapshotTask is the stored task shape. Older snapshots wrote numeric
// millisecond ids and may lack createdAt.
type snapshotTask struct {
	ID        taskID    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	IsOverdue bool      `json:"isOverdue,omitempty"`
}

// taskID decodes from a JSON string or number and always encodes as a string.
type taskID string

func (id *taskID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*id = ""
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = taskID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = taskID(n.String())
		return nil
	}
}

func toSnapshotTasks(tasks []Task) []snapshotTask {
	out := make([]snapshotTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, snapshotTask{
			ID:        taskID(t.ID),
			Title:     t.Title,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
			IsOverdue: t.IsOverdue,
		})
	}
	return out
}

func fromSnapshotTasks(tasks []snapshotTask) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Task{
			ID:        string(t.ID),
			Title:     t.Title,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
			IsOverdue: t.IsOverdue,
		})
	}
	return out
}

// snapshotDoc is the serialized form. Pointer fields distinguish "missing"
// from zero in old snapshots.
type snapshotDoc struct {
	Version       int            `json:"version"`
	Profile       *Profile       `json:"profile,omitempty"`
	User          *Profile       `json:"user,omitempty"` // v0
	XP            *int           `json:"xp"`
	TotalXPEarned *int           `json:"totalXpEarned"`
	HP            *int           `json:"hp"`
	MaxHP         *int           `json:"maxHp"`
	Level         *int           `json:"level"`
	LoginStreak   *int           `json:"loginStreak"`
	LastLoginDate *string        `json:"lastLoginDate"`
	Badges        []Badge        `json:"badges"`
	Tasks         *snapshotTasks `json:"tasks"`
	CurrentView   string         `json:"currentView,omitempty"`
	GoalTypeToAdd string         `json:"goalTypeToAdd,omitempty"`
}

// EncodeSnapshot serializes s at the current snapshot version.
func EncodeSnapshot(s *PlayerState) ([]byte, error) {
	profile := s.Profile
	date := s.LastLoginDate.String()
	doc := snapshotDoc{
		Version:       SnapshotVersion,
		Profile:       &profile,
		XP:            intPtr(s.XP),
		TotalXPEarned: intPtr(s.TotalXPEarned),
		HP:            intPtr(s.HP),
		MaxHP:         intPtr(s.MaxHP),
		Level:         intPtr(s.Level),
		LoginStreak:   intPtr(s.LoginStreak),
		LastLoginDate: &date,
		Badges:        s.Badges,
		Tasks: &snapshotTasks{
			Habits:       toSnapshotTasks(s.Tasks.Habits),
			Todos:        toSnapshotTasks(s.Tasks.Todos),
			WeeklyGoals:  toSnapshotTasks(s.Tasks.WeeklyGoals),
			MonthlyGoals: toSnapshotTasks(s.Tasks.MonthlyGoals),
		},
		CurrentView:   s.CurrentView,
		GoalTypeToAdd: s.GoalTypeToAdd,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot of any version and upgrades it to a
// canonical current-shape PlayerState. now is the load time: its date
// backfills a missing login date and it backfills missing task creation times.
// upgraded reports whether the input was older than SnapshotVersion.
func DecodeSnapshot(data []byte, now time.Time) (s *PlayerState, upgraded bool, err error) {
	today := civil.DateOf(now)
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version > SnapshotVersion {
		return nil, false, fmt.Errorf("decode snapshot: unsupported version %d", doc.Version)
	}
	upgraded = doc.Version < SnapshotVersion
	if upgraded {
		if err := upgradeV0(&doc, now); err != nil {
			return nil, true, fmt.Errorf("decode snapshot: %w", err)
		}
	}

	s = &PlayerState{
		XP:            derefInt(doc.XP, 0),
		TotalXPEarned: derefInt(doc.TotalXPEarned, 0),
		HP:            derefInt(doc.HP, MaxHP),
		MaxHP:         derefInt(doc.MaxHP, MaxHP),
		Level:         derefInt(doc.Level, 1),
		LoginStreak:   derefInt(doc.LoginStreak, 1),
		LastLoginDate: today,
		Badges:        reconcileBadges(doc.Badges),
		CurrentView:   doc.CurrentView,
		GoalTypeToAdd: doc.GoalTypeToAdd,
	}
	if doc.Profile != nil {
		s.Profile = *doc.Profile
	}
	if doc.LastLoginDate != nil {
		d, err := ParseLoginDate(*doc.LastLoginDate)
		if err != nil {
			return nil, upgraded, fmt.Errorf("decode snapshot: %w", err)
		}
		s.LastLoginDate = d
	}
	if doc.Tasks != nil {
		s.Tasks = TaskLists{
			Habits:       fromSnapshotTasks(doc.Tasks.Habits),
			Todos:        fromSnapshotTasks(doc.Tasks.Todos),
			WeeklyGoals:  fromSnapshotTasks(doc.Tasks.WeeklyGoals),
			MonthlyGoals: fromSnapshotTasks(doc.Tasks.MonthlyGoals),
		}
	}
	canonicalize(s)
	return s, upgraded, nil
}

// upgradeV0 backfills fields that unversioned snapshots may lack.
func upgradeV0(doc *snapshotDoc, now time.Time) error {
	today := civil.DateOf(now)
	if doc.Profile == nil && doc.User != nil {
		doc.Profile = doc.User
	}
	doc.User = nil

	level := derefInt(doc.Level, 1)
	if level < 1 {
		level = 1
	}
	xp := derefInt(doc.XP, 0)
	if xp < 0 {
		xp = 0
	}
	if doc.TotalXPEarned == nil {
		// Best estimate of what was earned before the counter existed.
		doc.TotalXPEarned = intPtr((level-1)*XPPerLevel + xp)
	}
	if doc.LoginStreak == nil {
		doc.LoginStreak = intPtr(1)
	}
	if doc.LastLoginDate != nil {
		if _, err := ParseLoginDate(*doc.LastLoginDate); err != nil {
			doc.LastLoginDate = nil
		}
	}
	if doc.LastLoginDate == nil {
		d := today.String()
		doc.LastLoginDate = &d
	}
	if doc.Badges == nil {
		doc.Badges = NewBadgeSet()
	}
	if doc.Tasks != nil {
		for _, list := range [][]snapshotTask{doc.Tasks.Habits, doc.Tasks.Todos, doc.Tasks.WeeklyGoals, doc.Tasks.MonthlyGoals} {
			if err := backfillTasks(list, now); err != nil {
				return err
			}
		}
	}
	doc.Version = SnapshotVersion
	return nil
}

// backfillTasks gives id-less tasks a fresh id and dates undated tasks at now,
// so they are not treated as long overdue.
func backfillTasks(tasks []snapshotTask, now time.Time) error {
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			id, err := NewTaskID()
			if err != nil {
				return err
			}
			t.ID = taskID(id)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
	}
	return nil
}

// canonicalize restores every at-rest invariant.
func canonicalize(s *PlayerState) {
	if s.MaxHP <= 0 {
		s.MaxHP = MaxHP
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	for s.XP >= XPPerLevel {
		s.Level++
		s.XP -= XPPerLevel
	}
	if s.TotalXPEarned < 0 {
		s.TotalXPEarned = 0
	}
	if s.LoginStreak < 1 {
		s.LoginStreak = 1
	}
	ApplyHP(s, 0)
	s.Tasks.Habits = nonNil(s.Tasks.Habits)
	s.Tasks.Todos = nonNil(s.Tasks.Todos)
	s.Tasks.WeeklyGoals = nonNil(s.Tasks.WeeklyGoals)
	s.Tasks.MonthlyGoals = nonNil(s.Tasks.MonthlyGoals)
}

func intPtr(v int) *int { return &v }

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func nonNil(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	return tasks
}
