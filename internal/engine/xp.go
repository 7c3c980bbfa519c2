package engine

// ApplyXP adds amount to the player's XP and resolves level-ups.
// Negative amounts floor both xp and totalXpEarned at 0; a level already
// gained is never taken back.
func ApplyXP(s *PlayerState, amount int) []Event {
	s.XP += amount
	if s.XP < 0 {
		s.XP = 0
	}
	s.TotalXPEarned += amount
	if s.TotalXPEarned < 0 {
		s.TotalXPEarned = 0
	}

	events := EvaluateBadges(s)

	for s.XP >= XPPerLevel {
		s.Level++
		s.XP -= XPPerLevel
		events = append(events, LevelUp(s.Level))
	}
	return events
}

// ApplyHP adds amount to hp, clamped to [0, maxHp].
func ApplyHP(s *PlayerState, amount int) {
	s.HP += amount
	if s.HP < 0 {
		s.HP = 0
	}
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
}

// XPToNextLevel returns how much XP is missing for the next level.
func XPToNextLevel(s *PlayerState) int {
	return XPPerLevel - s.XP
}
