package engine

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testToday = civil.Date{Year: 2026, Month: time.October, Day: 14}

func newTestState(t *testing.T) *PlayerState {
	t.Helper()
	return DefaultState(Profile{Name: "Ada", Email: "ada@example.com"}, testToday)
}

func addTask(t *testing.T, s *PlayerState, title string, list ListType, created time.Time) *Task {
	t.Helper()
	task, err := AddTask(s, title, list, created)
	if err != nil {
		t.Fatalf("AddTask(%q): %v", title, err)
	}
	return task
}

func noon(d civil.Date) time.Time {
	return d.In(time.UTC).Add(12 * time.Hour)
}

func TestApplyXPKeepsXPBelowLevelThreshold(t *testing.T) {
	s := newTestState(t)
	amounts := []int{10, 35, 60, -20, 99, 250, -500, 1, 100}
	for _, a := range amounts {
		ApplyXP(s, a)
		if s.XP < 0 || s.XP >= XPPerLevel {
			t.Fatalf("after ApplyXP(%d) xp=%d, want 0 <= xp < %d", a, s.XP, XPPerLevel)
		}
		if s.TotalXPEarned < 0 {
			t.Fatalf("after ApplyXP(%d) totalXpEarned=%d, want >= 0", a, s.TotalXPEarned)
		}
	}
}

func TestApplyXPLevelUpEmitsEvent(t *testing.T) {
	s := newTestState(t)
	s.XP = 95

	events := ApplyXP(s, 10)
	if s.Level != 2 || s.XP != 5 {
		t.Fatalf("level=%d xp=%d, want level=2 xp=5", s.Level, s.XP)
	}
	last := events[len(events)-1]
	if last.Kind != EventLevelUp || last.Level != 2 {
		t.Fatalf("last event=%+v, want LevelUp(2)", last)
	}
}

func TestApplyXPLargeAmountRollsOverSeveralLevels(t *testing.T) {
	s := newTestState(t)
	events := ApplyXP(s, 250)
	if s.Level != 3 || s.XP != 50 {
		t.Fatalf("level=%d xp=%d, want level=3 xp=50", s.Level, s.XP)
	}
	levelUps := 0
	for _, e := range events {
		if e.Kind == EventLevelUp {
			levelUps++
		}
	}
	if levelUps != 2 {
		t.Fatalf("level up events=%d, want 2", levelUps)
	}
}

func TestApplyXPNegativeFloorsAtZero(t *testing.T) {
	s := newTestState(t)
	ApplyXP(s, 5)
	ApplyXP(s, -XPPerTask)
	if s.XP != 0 {
		t.Fatalf("xp=%d, want 0", s.XP)
	}
	if s.TotalXPEarned != 0 {
		t.Fatalf("totalXpEarned=%d, want 0", s.TotalXPEarned)
	}
}

func TestApplyHPClamps(t *testing.T) {
	s := newTestState(t)
	ApplyHP(s, 50)
	if s.HP != MaxHP {
		t.Fatalf("hp=%d, want %d", s.HP, MaxHP)
	}
	ApplyHP(s, -250)
	if s.HP != 0 {
		t.Fatalf("hp=%d, want 0", s.HP)
	}
}

func TestBadgeXP100UnlocksOnceAndNeverRelocks(t *testing.T) {
	s := newTestState(t)
	ApplyXP(s, 90)
	if s.Badges[0].Unlocked {
		t.Fatalf("xp100 unlocked at totalXpEarned=%d", s.TotalXPEarned)
	}

	events := ApplyXP(s, 10)
	if !s.Badges[0].Unlocked {
		t.Fatalf("xp100 still locked at totalXpEarned=%d", s.TotalXPEarned)
	}
	if events[0].Kind != EventBadgeUnlocked || events[0].Badge.ID != "xp100" {
		t.Fatalf("first event=%+v, want BadgeUnlocked(xp100)", events[0])
	}

	ApplyXP(s, -50)
	if !s.Badges[0].Unlocked {
		t.Fatalf("xp100 relocked after XP loss")
	}
	if again := EvaluateBadges(s); len(again) != 0 {
		t.Fatalf("re-evaluation emitted %d events, want 0", len(again))
	}
}

func TestEvaluateBadgesCatalogOrder(t *testing.T) {
	s := newTestState(t)
	s.TotalXPEarned = 600
	s.LoginStreak = 7

	var got []string
	for _, e := range EvaluateBadges(s) {
		got = append(got, e.Badge.ID)
	}
	want := []string{"xp100", "xp500", "streak3", "streak7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unlocked badges (-want +got):\n%s", diff)
	}
}

func TestTenTodosReachLevelTwo(t *testing.T) {
	s := newTestState(t)
	now := noon(testToday)
	for i := 0; i < 10; i++ {
		task := addTask(t, s, "todo", ListTodos, now)
		ToggleTask(s, task.ID, ListTodos)
	}

	if s.TotalXPEarned != 100 {
		t.Fatalf("totalXpEarned=%d, want 100", s.TotalXPEarned)
	}
	if s.XP != 0 || s.Level != 2 {
		t.Fatalf("xp=%d level=%d, want xp=0 level=2", s.XP, s.Level)
	}
	if !s.Badges[0].Unlocked {
		t.Fatalf("expected xp100 unlocked")
	}
}

func TestToggleRoundTripRestoresXP(t *testing.T) {
	s := newTestState(t)
	ApplyXP(s, 30)
	task := addTask(t, s, "Write report", ListWeeklyGoals, noon(testToday))

	xpBefore, totalBefore := s.XP, s.TotalXPEarned
	events := ToggleTask(s, task.ID, ListWeeklyGoals)
	if diff := cmp.Diff([]EventKind{EventReward, EventConfetti}, Kinds(events)); diff != "" {
		t.Fatalf("complete events (-want +got):\n%s", diff)
	}
	ToggleTask(s, task.ID, ListWeeklyGoals)

	if s.XP != xpBefore || s.TotalXPEarned != totalBefore {
		t.Fatalf("xp=%d total=%d, want xp=%d total=%d", s.XP, s.TotalXPEarned, xpBefore, totalBefore)
	}
	if task, _, _ := FindTask(s, task.ID); task.Completed {
		t.Fatalf("task still completed after second toggle")
	}
}

func TestHabitToggleIsOneWay(t *testing.T) {
	s := newTestState(t)
	h := addTask(t, s, "Stretch", ListHabits, noon(testToday))

	ToggleTask(s, h.ID, ListHabits)
	xp := s.XP
	if events := ToggleTask(s, h.ID, ListHabits); events != nil {
		t.Fatalf("second habit toggle emitted %v", Kinds(events))
	}
	if got, _, _ := FindTask(s, h.ID); !got.Completed {
		t.Fatalf("habit uncompleted by second toggle")
	}
	if s.XP != xp {
		t.Fatalf("xp=%d, want %d", s.XP, xp)
	}
}

func TestToggleUnknownTaskIsNoop(t *testing.T) {
	s := newTestState(t)
	if events := ToggleTask(s, "missing", ListTodos); events != nil {
		t.Fatalf("expected no events, got %v", Kinds(events))
	}
}

func TestAddTaskValidatesAndDefaultsList(t *testing.T) {
	s := newTestState(t)
	if _, err := AddTask(s, "   ", ListTodos, noon(testToday)); err == nil {
		t.Fatalf("expected validation error for empty title")
	} else if _, ok := err.(ValidationError); !ok {
		t.Fatalf("err=%T, want ValidationError", err)
	}

	task := addTask(t, s, "  Buy milk ", ListType("groceries"), noon(testToday))
	if task.Title != "Buy milk" {
		t.Fatalf("title=%q, want trimmed", task.Title)
	}
	if len(s.Tasks.Todos) != 1 {
		t.Fatalf("todos=%d, want 1 (unknown list falls back to todos)", len(s.Tasks.Todos))
	}

	other := addTask(t, s, "Call mom", ListTodos, noon(testToday))
	if other.ID == task.ID {
		t.Fatalf("duplicate task id %q", task.ID)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestState(t)
	a := addTask(t, s, "a", ListMonthlyGoals, noon(testToday))
	b := addTask(t, s, "b", ListMonthlyGoals, noon(testToday))

	if DeleteTask(s, "missing", ListMonthlyGoals) {
		t.Fatalf("deleted a missing task")
	}
	if !DeleteTask(s, a.ID, ListMonthlyGoals) {
		t.Fatalf("delete %s failed", a.ID)
	}
	if len(s.Tasks.MonthlyGoals) != 1 || s.Tasks.MonthlyGoals[0].ID != b.ID {
		t.Fatalf("monthly goals=%+v, want only %s", s.Tasks.MonthlyGoals, b.ID)
	}
}

func TestResolveTaskID(t *testing.T) {
	s := newTestState(t)
	a := addTask(t, s, "a", ListHabits, noon(testToday))
	addTask(t, s, "b", ListTodos, noon(testToday))

	id, list, err := ResolveTaskID(s, ShortID(a.ID))
	if err != nil {
		t.Fatalf("ResolveTaskID: %v", err)
	}
	if id != a.ID || list != ListHabits {
		t.Fatalf("got %s in %s, want %s in habits", id, list, a.ID)
	}
	if _, _, err := ResolveTaskID(s, "zzzzzzzz"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestParseListType(t *testing.T) {
	cases := map[string]ListType{
		"habits":       ListHabits,
		"Habit":        ListHabits,
		"weekly":       ListWeeklyGoals,
		"monthlyGoals": ListMonthlyGoals,
		"todos":        ListTodos,
		"whatever":     ListTodos,
		"":             ListTodos,
	}
	for in, want := range cases {
		if got := ParseListType(in); got != want {
			t.Fatalf("ParseListType(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestListTypeIsValid(t *testing.T) {
	for _, l := range AllLists {
		if !l.IsValid() {
			t.Fatalf("%s should be valid", l)
		}
		if got := ParseListType(" " + string(l) + " "); got != l {
			t.Fatalf("ParseListType(%q)=%s", l, got)
		}
	}
	for _, l := range []ListType{"", "Todos", "goals"} {
		if l.IsValid() {
			t.Fatalf("%q should not be valid", l)
		}
	}
}
