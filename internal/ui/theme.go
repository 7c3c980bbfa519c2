package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"habitquest/internal/engine"
)

// HabitQuest theme (CLI + TUI).
// Reusable styles, a few emojis and event rendering.

const (
	IconSparkle  = "✨"
	IconPlus     = "➕"
	IconDone     = "✅"
	IconOpen     = "⬜"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconHeart    = "❤️"
	IconFire     = "🔥"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconLoop     = "🔁"
	IconTodo     = "📝"
	IconWeek     = "📅"
	IconMonth    = "🗓️"
	IconLock     = "🔒"
	IconConfetti = "🎉"
	IconScroll   = "📜"
	IconTrash    = "🗑️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func ListIcon(l engine.ListType) string {
	switch l {
	case engine.ListHabits:
		return IconLoop
	case engine.ListWeeklyGoals:
		return IconWeek
	case engine.ListMonthlyGoals:
		return IconMonth
	default:
		return IconTodo
	}
}

func ListTitle(l engine.ListType) string {
	switch l {
	case engine.ListHabits:
		return "Habits"
	case engine.ListWeeklyGoals:
		return "Weekly goals"
	case engine.ListMonthlyGoals:
		return "Monthly goals"
	default:
		return "Todos"
	}
}

// TaskLine renders one task row without a cursor.
func TaskLine(t engine.Task) string {
	box := IconOpen
	if t.Completed {
		box = IconDone
	}
	line := fmt.Sprintf("%s %s %s", box, Muted.Render(engine.ShortID(t.ID)), t.Title)
	if t.IsOverdue {
		line += " " + Bad.Render("(overdue)")
	}
	return line
}

// Bar renders a fixed-width ASCII progress bar of value out of total.
func Bar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func HPText(s *engine.PlayerState) string {
	text := fmt.Sprintf("%s %d/%d", IconHeart, s.HP, s.MaxHP)
	switch {
	case s.HP*4 <= s.MaxHP:
		return Bad.Render(text)
	case s.HP*2 <= s.MaxHP:
		return Warn.Render(text)
	default:
		return Good.Render(text)
	}
}

// RenderEvent turns an engine event into a single styled line.
func RenderEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventReward:
		return Good.Render(fmt.Sprintf("%s +%d XP", IconBolt, ev.Amount))
	case engine.EventLevelUp:
		return fmt.Sprintf("%s %s %s", IconSparkle, BadgeLevelUp, Gold.Render(fmt.Sprintf("you reached level %d", ev.Level)))
	case engine.EventBadgeUnlocked:
		name, desc := "badge", ""
		if ev.Badge != nil {
			name, desc = ev.Badge.Name, ev.Badge.Description
		}
		line := fmt.Sprintf("%s %s", IconTrophy, Gold.Render("Badge unlocked: "+name))
		if desc != "" {
			line += " " + Muted.Render(desc)
		}
		return line
	case engine.EventWarning:
		return Warn.Render(IconWarn + " " + ev.Message)
	case engine.EventConfetti:
		return IconConfetti
	default:
		return Muted.Render(ev.String())
	}
}
