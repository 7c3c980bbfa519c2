package engine

type badgeDef struct {
	ID          string
	Name        string
	Description string
	Type        BadgeType
	Value       int
}

// catalog order is evaluation order.
var catalog = []badgeDef{
	{ID: "xp100", Name: "First Hundred", Description: "Earn 100 XP", Type: BadgeXP, Value: 100},
	{ID: "xp500", Name: "Rising Star", Description: "Earn 500 XP", Type: BadgeXP, Value: 500},
	{ID: "xp1000", Name: "XP Master", Description: "Earn 1000 XP", Type: BadgeXP, Value: 1000},
	{ID: "streak3", Name: "On a Roll", Description: "Log in 3 days in a row", Type: BadgeStreak, Value: 3},
	{ID: "streak7", Name: "Week Warrior", Description: "Log in 7 days in a row", Type: BadgeStreak, Value: 7},
	{ID: "streak30", Name: "Unstoppable", Description: "Log in 30 days in a row", Type: BadgeStreak, Value: 30},
}

// NewBadgeSet returns the full catalog with every badge locked.
func NewBadgeSet() []Badge {
	out := make([]Badge, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.badge())
	}
	return out
}

func (d badgeDef) badge() Badge {
	return Badge{ID: d.ID, Name: d.Name, Description: d.Description, Type: d.Type, Value: d.Value}
}

// reconcileBadges rebuilds a badge list in catalog order, keeping unlocked flags
// from existing. Badges no longer in the catalog are dropped.
func reconcileBadges(existing []Badge) []Badge {
	unlocked := map[string]bool{}
	for _, b := range existing {
		if b.Unlocked {
			unlocked[b.ID] = true
		}
	}
	out := NewBadgeSet()
	for i := range out {
		out[i].Unlocked = unlocked[out[i].ID]
	}
	return out
}

func badgeEarned(s *PlayerState, b Badge) bool {
	switch b.Type {
	case BadgeXP:
		return s.TotalXPEarned >= b.Value
	case BadgeStreak:
		return s.LoginStreak >= b.Value
	default:
		return false
	}
}

// EvaluateBadges unlocks every locked badge whose threshold now holds.
// Unlocks are permanent.
func EvaluateBadges(s *PlayerState) []Event {
	var events []Event
	for i := range s.Badges {
		b := &s.Badges[i]
		if b.Unlocked {
			continue
		}
		if badgeEarned(s, *b) {
			b.Unlocked = true
			events = append(events, BadgeUnlocked(*b))
		}
	}
	return events
}
