package engine

import "fmt"

type EventKind string

const (
	EventReward        EventKind = "reward"
	EventLevelUp       EventKind = "level_up"
	EventBadgeUnlocked EventKind = "badge_unlocked"
	EventWarning       EventKind = "warning"
	EventConfetti      EventKind = "confetti"
)

// Event is a notification for the presentation layer. Events are data only.
type Event struct {
	Kind    EventKind
	Amount  int    // Reward
	Level   int    // LevelUp
	Badge   *Badge // BadgeUnlocked
	Message string // Warning
}

func Reward(amount int) Event { return Event{Kind: EventReward, Amount: amount} }

func LevelUp(level int) Event { return Event{Kind: EventLevelUp, Level: level} }

func BadgeUnlocked(b Badge) Event { return Event{Kind: EventBadgeUnlocked, Badge: &b} }

func Warning(msg string) Event { return Event{Kind: EventWarning, Message: msg} }

func Confetti() Event { return Event{Kind: EventConfetti} }

func (e Event) String() string {
	switch e.Kind {
	case EventReward:
		return fmt.Sprintf("+%d XP", e.Amount)
	case EventLevelUp:
		return fmt.Sprintf("level up: %d", e.Level)
	case EventBadgeUnlocked:
		if e.Badge == nil {
			return "badge unlocked"
		}
		return fmt.Sprintf("badge unlocked: %s", e.Badge.Name)
	case EventWarning:
		return e.Message
	default:
		return string(e.Kind)
	}
}

// Kinds returns the kinds of events in order, mostly useful for assertions and logs.
func Kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}
