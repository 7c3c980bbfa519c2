package engine

import "cloud.google.com/go/civil"

const (
	WarnIncompleteHabit = "-HP for incomplete habit"
	WarnOverdueTask     = "-HP for overdue task"

	// OverdueAfterDays is the age in whole days a todo may reach before it is overdue.
	OverdueAfterDays = 1
)

// ProcessRollover applies the once-per-day transition: streak update, habit
// penalties and reset, overdue todo penalties and badge evaluation. Weekly and
// monthly goals are left alone. Calling it again with the same date is a no-op.
func ProcessRollover(s *PlayerState, today civil.Date) []Event {
	last := s.LastLoginDate
	if !IsNewDay(last, today) {
		return nil
	}

	if IsConsecutive(last, today) {
		s.LoginStreak++
	} else {
		s.LoginStreak = 1
	}

	var events []Event

	for i := range s.Tasks.Habits {
		h := &s.Tasks.Habits[i]
		if !h.Completed {
			ApplyHP(s, -HPPenalty)
			events = append(events, Warning(WarnIncompleteHabit))
		}
		h.Completed = false
	}

	for i := range s.Tasks.Todos {
		t := &s.Tasks.Todos[i]
		if t.Completed || t.IsOverdue {
			continue
		}
		if today.DaysSince(civil.DateOf(t.CreatedAt)) > OverdueAfterDays {
			ApplyHP(s, -HPPenalty)
			t.IsOverdue = true
			events = append(events, Warning(WarnOverdueTask))
		}
	}

	s.LastLoginDate = today

	return append(events, EvaluateBadges(s)...)
}
