package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"habitquest/internal/engine"
	"habitquest/internal/session"
	"habitquest/internal/ui"
)

// boardModel renders a clone of the manager's state. All mutations run
// through the manager inside a tea.Cmd, one at a time.
type boardModel struct {
	ctx context.Context
	mgr *session.Manager

	width  int
	height int

	state    *engine.PlayerState
	list     int
	selected int

	keys   keyMap
	help   help.Model
	xpBar  progress.Model
	input  textinput.Model
	adding bool

	lastLog string
	busy    bool
	err     error
}

type loadedMsg struct {
	state *engine.PlayerState
	err   error
}

type actionMsg struct {
	state  *engine.PlayerState
	events []engine.Event
	note   string
	err    error
}

func newBoardModel(ctx context.Context, mgr *session.Manager) boardModel {
	in := textinput.New()
	in.Placeholder = "New task title"
	in.CharLimit = 200

	return boardModel{
		ctx:     ctx,
		mgr:     mgr,
		keys:    defaultKeyMap(),
		help:    help.New(),
		xpBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(30)),
		input:   in,
		busy:    true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) snapshot() *engine.PlayerState {
	if cur := m.mgr.Current(); cur != nil {
		return cur.Clone()
	}
	return nil
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.mgr.Current() == nil {
			if _, _, err := m.mgr.Resume(m.ctx); err != nil {
				return loadedMsg{err: err}
			}
		}
		return loadedMsg{state: m.snapshot()}
	}
}

func (m boardModel) toggleCmd(t engine.Task, list engine.ListType) tea.Cmd {
	return func() tea.Msg {
		events, err := m.mgr.ToggleTask(m.ctx, t.ID, list)
		note := fmt.Sprintf("Toggled %q.", t.Title)
		if err == nil && len(events) == 0 && list == engine.ListHabits && t.Completed {
			note = "Habits stay done until tomorrow."
		}
		return actionMsg{state: m.snapshot(), events: events, note: note, err: err}
	}
}

func (m boardModel) addCmd(title string, list engine.ListType) tea.Cmd {
	return func() tea.Msg {
		t, err := m.mgr.AddTask(m.ctx, title, list)
		note := ""
		if err == nil {
			note = fmt.Sprintf("Added %q to %s.", t.Title, ui.ListTitle(list))
		}
		return actionMsg{state: m.snapshot(), note: note, err: err}
	}
}

func (m boardModel) deleteCmd(t engine.Task, list engine.ListType) tea.Cmd {
	return func() tea.Msg {
		_, err := m.mgr.DeleteTask(m.ctx, t.ID, list)
		return actionMsg{state: m.snapshot(), note: fmt.Sprintf("Deleted %q.", t.Title), err: err}
	}
}

func (m boardModel) currentList() engine.ListType {
	return engine.AllLists[m.list]
}

func (m boardModel) currentTasks() []engine.Task {
	if m.state == nil {
		return nil
	}
	return *m.state.List(m.currentList())
}

func (m *boardModel) clampSelection() {
	n := len(m.currentTasks())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.state = msg.state
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case actionMsg:
		m.busy = false
		if msg.state != nil {
			m.state = msg.state
		}
		m.clampSelection()
		if msg.err != nil {
			m.lastLog = ui.Bad.Render("Failed: " + msg.err.Error())
			return m, nil
		}
		m.lastLog = eventLog(msg.note, msg.events)
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m boardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		m.busy = true
		return m, m.addCmd(title, m.currentList())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m boardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.busy || m.state == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.currentTasks())-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Next):
		m.list = (m.list + 1) % len(engine.AllLists)
		m.selected = 0
	case key.Matches(msg, m.keys.Prev):
		m.list = (m.list + len(engine.AllLists) - 1) % len(engine.AllLists)
		m.selected = 0
	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		focus := m.input.Focus()
		return m, focus
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.toggleCmd(t, m.currentList())
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(t, m.currentList())
	}
	return m, nil
}

func (m boardModel) selectedTask() (engine.Task, bool) {
	tasks := m.currentTasks()
	if m.selected < 0 || m.selected >= len(tasks) {
		return engine.Task{}, false
	}
	return tasks[m.selected], true
}

// eventLog joins rendered events into the footer line.
func eventLog(note string, events []engine.Event) string {
	parts := make([]string, 0, len(events)+1)
	if note != "" {
		parts = append(parts, note)
	}
	for _, ev := range events {
		parts = append(parts, ui.RenderEvent(ev))
	}
	if len(parts) == 0 {
		return "Nothing changed."
	}
	return strings.Join(parts, "  ")
}

func (m boardModel) View() string {
	if m.err != nil {
		hint := ""
		if errors.Is(m.err, session.ErrNoActiveSession) {
			hint = "Run `hq login <email>` first. "
		}
		return "Error: " + m.err.Error() + "\n\n" + hint + "Press q to quit.\n"
	}
	if m.state == nil {
		return "HabitQuest: loading…\n"
	}

	sidebar := m.renderSidebar()
	main := m.renderMain()

	leftW := 28
	if m.width > 0 {
		if maxLeft := m.width / 2; maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return m.renderHeader() + "\n\n" + body.String() + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	s := m.state
	ratio := float64(s.XP) / float64(engine.XPPerLevel)
	return fmt.Sprintf("%s | %s | Level %d | XP %d/%d %s | %s | %s %d",
		ui.Title.Render("HabitQuest"),
		s.Profile.Name,
		s.Level,
		s.XP, engine.XPPerLevel,
		m.xpBar.ViewAs(ratio),
		ui.HPText(s),
		ui.IconFire, s.LoginStreak,
	)
}

func (m boardModel) renderSidebar() string {
	s := m.state
	lines := []string{ui.PanelTitle.Render("Lists")}
	for i, l := range engine.AllLists {
		tasks := *s.List(l)
		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}
		cursor := "  "
		if i == m.list {
			cursor = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %d/%d", cursor, ui.ListIcon(l), ui.ListTitle(l), done, len(tasks)))
	}
	lines = append(lines, "")
	lines = append(lines, ui.PanelTitle.Render(fmt.Sprintf("Badges %d/%d", s.CountUnlocked(), len(s.Badges))))
	for _, b := range s.Badges {
		icon := ui.IconLock
		if b.Unlocked {
			icon = ui.IconTrophy
		}
		lines = append(lines, fmt.Sprintf("%s %s", icon, b.Name))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	l := m.currentList()
	out := []string{ui.PanelTitle.Render(ui.ListIcon(l) + " " + ui.ListTitle(l))}
	tasks := m.currentTasks()
	if len(tasks) == 0 {
		out = append(out, ui.Muted.Render("(empty, press a to add)"))
	}
	for i, t := range tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		out = append(out, cursor+ui.TaskLine(t))
	}
	if m.adding {
		out = append(out, "", m.input.View())
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog + "\n\n" + m.help.View(m.keys)
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
