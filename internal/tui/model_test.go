package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitquest/internal/engine"
	"habitquest/internal/session"
	"habitquest/internal/storage"
)

func newTestBoard(t *testing.T) (boardModel, *session.Manager) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := engine.FixedClock{T: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
	mgr := session.NewManager(storage.NewAccountRepo(db), storage.NewActivityRepo(db), clock, nil)
	_, _, err = mgr.SignUp(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	_, err = mgr.AddTask(ctx, "Write report", engine.ListTodos)
	require.NoError(t, err)

	m := newBoardModel(ctx, mgr)
	return step(t, m, m.Init()), mgr
}

// step runs cmd synchronously and feeds its message back into the model.
func step(t *testing.T, m boardModel, cmd tea.Cmd) boardModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(boardModel)
}

func press(m boardModel, msg tea.KeyMsg) (boardModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(boardModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardLoadsActiveState(t *testing.T) {
	m, _ := newTestBoard(t)
	require.NotNil(t, m.state)
	assert.False(t, m.busy)
	assert.Equal(t, engine.ListHabits, m.currentList())

	m, _ = press(m, runes("l"))
	assert.Equal(t, engine.ListTodos, m.currentList())
	assert.Contains(t, m.View(), "Write report")
	assert.Contains(t, m.View(), "HabitQuest")
}

func TestBoardToggleAwardsXP(t *testing.T) {
	m, mgr := newTestBoard(t)
	m, _ = press(m, runes("l"))

	m, cmd := press(m, runes("c"))
	assert.True(t, m.busy)
	_, ignored := press(m, runes("x"))
	assert.Nil(t, ignored, "keys are ignored while an action is in flight")

	m = step(t, m, cmd)
	assert.False(t, m.busy)
	assert.Equal(t, engine.XPPerTask, m.state.XP)
	assert.Contains(t, m.lastLog, "+10 XP")
	assert.Equal(t, engine.XPPerTask, mgr.Current().XP)
	assert.NotSame(t, mgr.Current(), m.state)
}

func TestBoardAddAndDelete(t *testing.T) {
	m, mgr := newTestBoard(t)
	m, _ = press(m, runes("l"))

	m, _ = press(m, runes("a"))
	require.True(t, m.adding)
	m, _ = press(m, runes("Read"))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)
	m = step(t, m, cmd)
	require.Len(t, m.state.Tasks.Todos, 2)
	assert.Equal(t, "Read", m.state.Tasks.Todos[1].Title)

	m, cmd = press(m, runes("x"))
	m = step(t, m, cmd)
	require.Len(t, m.state.Tasks.Todos, 1)
	assert.Equal(t, "Read", mgr.Current().Tasks.Todos[0].Title)
}

func TestBoardShowsSessionError(t *testing.T) {
	m, mgr := newTestBoard(t)
	require.NoError(t, mgr.Logout(context.Background()))

	m, cmd := press(m, runes("r"))
	m = step(t, m, cmd)
	assert.ErrorIs(t, m.err, session.ErrNoActiveSession)
	assert.Contains(t, m.View(), "hq login")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	assert.Equal(t, "ab", padRight("ab", 0))
}
