package engine

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	XPPerLevel = 100
	XPPerTask  = 10
	HPPenalty  = 10
	MaxHP      = 100
)

type ListType string

const (
	ListHabits       ListType = "habits"
	ListTodos        ListType = "todos"
	ListWeeklyGoals  ListType = "weeklyGoals"
	ListMonthlyGoals ListType = "monthlyGoals"
)

// AllLists is the display order of the task collections.
var AllLists = []ListType{ListHabits, ListTodos, ListWeeklyGoals, ListMonthlyGoals}

func (l ListType) IsValid() bool {
	switch l {
	case ListHabits, ListTodos, ListWeeklyGoals, ListMonthlyGoals:
		return true
	default:
		return false
	}
}

// ParseListType maps user input to a ListType.
// Unrecognized input falls back to todos.
func ParseListType(input string) ListType {
	if l := ListType(strings.TrimSpace(input)); l.IsValid() {
		return l
	}
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "habits", "habit", "h":
		return ListHabits
	case "weeklygoals", "weekly", "week", "w":
		return ListWeeklyGoals
	case "monthlygoals", "monthly", "month", "m":
		return ListMonthlyGoals
	default:
		return ListTodos
	}
}

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	IsOverdue bool      `json:"isOverdue,omitempty"` // todos only
}

type BadgeType string

const (
	BadgeXP     BadgeType = "XP"
	BadgeStreak BadgeType = "STREAK"
)

type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        BadgeType `json:"type"`
	Value       int       `json:"value"`
	Unlocked    bool      `json:"unlocked"`
}

type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TaskLists struct {
	Habits       []Task `json:"habits"`
	Todos        []Task `json:"todos"`
	WeeklyGoals  []Task `json:"weeklyGoals"`
	MonthlyGoals []Task `json:"monthlyGoals"`
}

// PlayerState is the root aggregate for one account.
type PlayerState struct {
	Profile       Profile
	XP            int
	TotalXPEarned int
	HP            int
	MaxHP         int
	Level         int
	LoginStreak   int
	LastLoginDate civil.Date
	Badges        []Badge
	Tasks         TaskLists

	// UI cursor state, carried through untouched.
	CurrentView   string
	GoalTypeToAdd string
}

// DefaultState returns the state of a freshly created account.
func DefaultState(p Profile, today civil.Date) *PlayerState {
	return &PlayerState{
		Profile:       p,
		HP:            MaxHP,
		MaxHP:         MaxHP,
		Level:         1,
		LoginStreak:   1,
		LastLoginDate: today,
		Badges:        NewBadgeSet(),
		Tasks: TaskLists{
			Habits:       []Task{},
			Todos:        []Task{},
			WeeklyGoals:  []Task{},
			MonthlyGoals: []Task{},
		},
		CurrentView:   string(ListHabits),
		GoalTypeToAdd: string(ListWeeklyGoals),
	}
}

// List returns a pointer to the named collection. Unknown names resolve to todos.
func (s *PlayerState) List(l ListType) *[]Task {
	switch l {
	case ListHabits:
		return &s.Tasks.Habits
	case ListWeeklyGoals:
		return &s.Tasks.WeeklyGoals
	case ListMonthlyGoals:
		return &s.Tasks.MonthlyGoals
	default:
		return &s.Tasks.Todos
	}
}

// Clone returns a deep copy of the state.
func (s *PlayerState) Clone() *PlayerState {
	cp := *s
	cp.Badges = append([]Badge(nil), s.Badges...)
	cp.Tasks = TaskLists{
		Habits:       append([]Task{}, s.Tasks.Habits...),
		Todos:        append([]Task{}, s.Tasks.Todos...),
		WeeklyGoals:  append([]Task{}, s.Tasks.WeeklyGoals...),
		MonthlyGoals: append([]Task{}, s.Tasks.MonthlyGoals...),
	}
	return &cp
}

// CountUnlocked returns how many badges have been unlocked.
func (s *PlayerState) CountUnlocked() int {
	n := 0
	for _, b := range s.Badges {
		if b.Unlocked {
			n++
		}
	}
	return n
}
