package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTaskID returns a unique, time-ordered task id.
func NewTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("task id: %w", err)
	}
	return id.String(), nil
}

// AddTask appends a new incomplete task to the named list.
func AddTask(s *PlayerState, title string, list ListType, now time.Time) (*Task, error) {
	t, err := RequireText("title", title)
	if err != nil {
		return nil, err
	}
	id, err := NewTaskID()
	if err != nil {
		return nil, err
	}

	if !list.IsValid() {
		list = ListTodos
	}
	tasks := s.List(list)
	*tasks = append(*tasks, Task{
		ID:        id,
		Title:     t,
		CreatedAt: now,
	})
	return &(*tasks)[len(*tasks)-1], nil
}

// DeleteTask removes the task with id from the named list and reports whether
// anything was removed.
func DeleteTask(s *PlayerState, id string, list ListType) bool {
	tasks := s.List(list)
	for i := range *tasks {
		if (*tasks)[i].ID == id {
			*tasks = append((*tasks)[:i], (*tasks)[i+1:]...)
			return true
		}
	}
	return false
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// ToggleTask flips the completion of a task and awards or takes back XP.
// A completed habit cannot be unchecked until the next rollover.
func ToggleTask(s *PlayerState, id string, list ListType) []Event {
	tasks := *s.List(list)
	i := indexOf(tasks, id)
	if i < 0 {
		return nil
	}
	t := &tasks[i]
	if list == ListHabits && t.Completed {
		return nil
	}

	t.Completed = !t.Completed
	if t.Completed {
		events := []Event{Reward(XPPerTask), Confetti()}
		return append(events, ApplyXP(s, XPPerTask)...)
	}
	return ApplyXP(s, -XPPerTask)
}

// FindTask locates a task by id in any list. The returned pointer aliases the state.
func FindTask(s *PlayerState, id string) (*Task, ListType, bool) {
	for _, l := range AllLists {
		tasks := *s.List(l)
		if i := indexOf(tasks, id); i >= 0 {
			return &tasks[i], l, true
		}
	}
	return nil, "", false
}

// ShortIDLen is the length of the id suffix shown to CLI users. The leading
// characters of a v7 id are a timestamp and collide between nearby tasks.
const ShortIDLen = 8

// ShortID returns the displayable suffix of a task id. Ids that are not UUIDs
// (numeric ids from older snapshots) are shown in full.
func ShortID(id string) string {
	if len(id) <= ShortIDLen || !strings.Contains(id, "-") {
		return id
	}
	return id[len(id)-ShortIDLen:]
}

// ResolveTaskID expands a full id or a unique id suffix to the full id within any list.
func ResolveTaskID(s *PlayerState, ref string) (string, ListType, error) {
	p, err := RequireText("id", ref)
	if err != nil {
		return "", "", err
	}
	var (
		found string
		where ListType
		n     int
	)
	for _, l := range AllLists {
		for _, t := range *s.List(l) {
			if t.ID == p {
				return t.ID, l, nil
			}
			if strings.HasSuffix(t.ID, p) {
				found, where = t.ID, l
				n++
			}
		}
	}
	switch n {
	case 0:
		return "", "", fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	case 1:
		return found, where, nil
	default:
		return "", "", ValidationError{Field: "id", Reason: fmt.Sprintf("%q is ambiguous", ref)}
	}
}
