package root

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitquest/internal/session"
)

type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	t.Setenv("HABITQUEST_DB", filepath.Join(dir, "hq.db"))
	t.Setenv("HABITQUEST_TZ", "UTC")
	t.Setenv("HABITQUEST_LOG_LEVEL", "error")
	t.Setenv("HABITQUEST_LOG_FILE", "")
	return &cli{t: t, config: filepath.Join(dir, "config.yaml")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "hq %s", strings.Join(args, " "))
	return out
}

func TestCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("list")
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}

func TestSignupAddDoFlow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("signup", "Ada", "ada@example.com")
	assert.Contains(t, out, "Welcome, Ada")

	out = c.mustRun("add", "Buy milk")
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 4)
	short := fields[2]
	assert.Len(t, short, 8)

	out = c.mustRun("list", "-l", "todos")
	assert.Contains(t, out, "Buy milk")

	out = c.mustRun("do", short)
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, "+10 XP")

	out = c.mustRun("status")
	assert.Contains(t, out, "10/100")

	out = c.mustRun("do", short)
	assert.Contains(t, out, "Reopened")

	out = c.mustRun("status")
	assert.Contains(t, out, "XP: 0/100")

	out = c.mustRun("log")
	assert.Contains(t, out, "+10 XP")

	c.mustRun("rm", short)
	out = c.mustRun("list", "-l", "todos")
	assert.NotContains(t, out, "Buy milk")
}

func TestDoRejectsWrongList(t *testing.T) {
	c := newCLI(t)
	c.mustRun("signup", "Ada", "ada@example.com")
	out := c.mustRun("add", "Stretch", "-l", "habits")
	short := strings.Fields(out)[2]

	_, err := c.run("do", short, "-l", "todos")
	assert.Error(t, err)

	out = c.mustRun("do", short)
	assert.Contains(t, out, "Done")
	out = c.mustRun("do", short)
	assert.Contains(t, out, "stay done")
}

func TestLogoutAndLogin(t *testing.T) {
	c := newCLI(t)
	c.mustRun("signup", "Ada", "ada@example.com")
	c.mustRun("logout")

	_, err := c.run("status")
	assert.ErrorIs(t, err, session.ErrNoActiveSession)

	_, err = c.run("signup", "Ada", "ada@example.com")
	assert.ErrorIs(t, err, session.ErrAccountExists)

	out := c.mustRun("login", "ada@example.com")
	assert.Contains(t, out, "Welcome back, Ada")

	out = c.mustRun("badges")
	assert.Contains(t, out, "First Hundred")
}
