package engine

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestRolloverSameDayIsNoop(t *testing.T) {
	s := newTestState(t)
	addTask(t, s, "Stretch", ListHabits, noon(testToday))
	before := s.Clone()

	if events := ProcessRollover(s, testToday); events != nil {
		t.Fatalf("same-day rollover emitted %v", Kinds(events))
	}
	if s.HP != before.HP || s.LoginStreak != before.LoginStreak {
		t.Fatalf("same-day rollover changed state: hp=%d streak=%d", s.HP, s.LoginStreak)
	}
}

func TestRolloverStreak(t *testing.T) {
	s := newTestState(t)
	s.LoginStreak = 4

	ProcessRollover(s, testToday.AddDays(1))
	if s.LoginStreak != 5 {
		t.Fatalf("streak after consecutive day=%d, want 5", s.LoginStreak)
	}
	if s.LastLoginDate != testToday.AddDays(1) {
		t.Fatalf("lastLoginDate=%s, want %s", s.LastLoginDate, testToday.AddDays(1))
	}

	ProcessRollover(s, testToday.AddDays(4))
	if s.LoginStreak != 1 {
		t.Fatalf("streak after 3-day gap=%d, want 1", s.LoginStreak)
	}
}

func TestRolloverBackwardsClockResetsStreak(t *testing.T) {
	s := newTestState(t)
	s.LoginStreak = 3
	ProcessRollover(s, testToday.AddDays(-1))
	if s.LoginStreak != 1 {
		t.Fatalf("streak=%d, want 1", s.LoginStreak)
	}
}

func TestRolloverStreakUnlocksBadge(t *testing.T) {
	s := newTestState(t)
	s.LoginStreak = 2

	events := ProcessRollover(s, testToday.AddDays(1))
	found := false
	for _, e := range events {
		if e.Kind == EventBadgeUnlocked && e.Badge.ID == "streak3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected streak3 unlock, got %v", Kinds(events))
	}
}

func TestRolloverPenalizesIncompleteHabitAndResetsAll(t *testing.T) {
	s := newTestState(t)
	missed := addTask(t, s, "Meditate", ListHabits, noon(testToday))
	done := addTask(t, s, "Walk", ListHabits, noon(testToday))
	ToggleTask(s, done.ID, ListHabits)

	events := ProcessRollover(s, testToday.AddDays(1))
	if s.HP != MaxHP-HPPenalty {
		t.Fatalf("hp=%d, want %d", s.HP, MaxHP-HPPenalty)
	}
	if len(events) != 1 || events[0].Kind != EventWarning || events[0].Message != WarnIncompleteHabit {
		t.Fatalf("events=%+v, want one incomplete-habit warning", events)
	}
	for _, id := range []string{missed.ID, done.ID} {
		if h, _, _ := FindTask(s, id); h.Completed {
			t.Fatalf("habit %s not reset", id)
		}
	}
}

func TestRolloverHabitPenaltyFloorsAtZero(t *testing.T) {
	s := newTestState(t)
	s.HP = 5
	addTask(t, s, "Meditate", ListHabits, noon(testToday))

	ProcessRollover(s, testToday.AddDays(1))
	if s.HP != 0 {
		t.Fatalf("hp=%d, want 0", s.HP)
	}
}

func TestRolloverOverdueTodoPenalizedOnce(t *testing.T) {
	created := testToday.AddDays(-3)
	s := DefaultState(Profile{Name: "Ada", Email: "ada@example.com"}, created)
	todo := addTask(t, s, "File taxes", ListTodos, noon(created))
	fresh := addTask(t, s, "Buy stamps", ListTodos, noon(testToday.AddDays(-1)))

	events := ProcessRollover(s, testToday)
	if s.HP != MaxHP-HPPenalty {
		t.Fatalf("hp=%d, want %d", s.HP, MaxHP-HPPenalty)
	}
	if len(events) != 1 || events[0].Message != WarnOverdueTask {
		t.Fatalf("events=%+v, want one overdue warning", events)
	}
	got, _, _ := FindTask(s, todo.ID)
	if !got.IsOverdue {
		t.Fatalf("expected todo flagged overdue")
	}
	if f, _, _ := FindTask(s, fresh.ID); f.IsOverdue {
		t.Fatalf("one-day-old todo flagged overdue")
	}

	if again := ProcessRollover(s, testToday); again != nil {
		t.Fatalf("second same-day rollover emitted %v", Kinds(again))
	}
	ProcessRollover(s, testToday.AddDays(1))
	if s.HP != MaxHP-2*HPPenalty {
		// The fresh todo is now two days old; the flagged one must not count again.
		t.Fatalf("hp=%d, want %d", s.HP, MaxHP-2*HPPenalty)
	}
}

func TestOverdueFlagSticksAfterCompletion(t *testing.T) {
	created := testToday.AddDays(-3)
	s := DefaultState(Profile{Name: "Ada", Email: "ada@example.com"}, created)
	todo := addTask(t, s, "File taxes", ListTodos, noon(created))
	ProcessRollover(s, testToday)

	ToggleTask(s, todo.ID, ListTodos)
	got, _, _ := FindTask(s, todo.ID)
	if !got.Completed || !got.IsOverdue {
		t.Fatalf("completed=%v overdue=%v, want both true", got.Completed, got.IsOverdue)
	}
}

func TestRolloverKeepsGoals(t *testing.T) {
	// 2026-10-14 is a Wednesday; the later dates cross a week and a month.
	s := newTestState(t)
	weekly := addTask(t, s, "Long run", ListWeeklyGoals, noon(testToday))
	monthly := addTask(t, s, "Read a book", ListMonthlyGoals, noon(testToday))
	open := addTask(t, s, "Plan trip", ListWeeklyGoals, noon(testToday))
	ToggleTask(s, weekly.ID, ListWeeklyGoals)
	ToggleTask(s, monthly.ID, ListMonthlyGoals)
	xp, total := s.XP, s.TotalXPEarned

	for _, d := range []civil.Date{
		testToday.AddDays(1),
		{Year: 2026, Month: time.October, Day: 19},
		{Year: 2026, Month: time.November, Day: 1},
	} {
		events := ProcessRollover(s, d)
		if w, _, _ := FindTask(s, weekly.ID); !w.Completed {
			t.Fatalf("%s: weekly goal lost its completion", d)
		}
		if m, _, _ := FindTask(s, monthly.ID); !m.Completed {
			t.Fatalf("%s: monthly goal lost its completion", d)
		}
		if o, _, _ := FindTask(s, open.ID); o.Completed || o.IsOverdue {
			t.Fatalf("%s: open goal changed: %+v", d, o)
		}
		for _, ev := range events {
			if ev.Kind == EventWarning {
				t.Fatalf("%s: goals produced a penalty: %v", d, events)
			}
		}
	}
	if s.HP != MaxHP || s.XP != xp || s.TotalXPEarned != total {
		t.Fatalf("hp=%d xp=%d total=%d, want %d %d %d", s.HP, s.XP, s.TotalXPEarned, MaxHP, xp, total)
	}
}

func TestDateBoundaries(t *testing.T) {
	if !IsConsecutive(civil.Date{Year: 2026, Month: time.February, Day: 28}, civil.Date{Year: 2026, Month: time.March, Day: 1}) {
		t.Fatalf("Feb 28 -> Mar 1 should be consecutive")
	}
	if IsConsecutive(testToday, testToday) {
		t.Fatalf("same day is not consecutive")
	}
	if !IsConsecutive(civil.Date{Year: 2026, Month: time.December, Day: 31}, civil.Date{Year: 2027, Month: time.January, Day: 1}) {
		t.Fatalf("Dec 31 -> Jan 1 should be consecutive")
	}
	if got := Today(FixedClock{T: time.Date(2026, time.October, 14, 23, 59, 0, 0, time.UTC)}); got != testToday {
		t.Fatalf("Today=%s, want %s", got, testToday)
	}
}
