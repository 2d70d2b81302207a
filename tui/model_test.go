package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-beatgrid/config"
	"go-beatgrid/engine"
	"go-beatgrid/store"
	"go-beatgrid/theme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	e, err := engine.New(opts)
	require.NoError(t, err)
	return NewModel(e, nil, store.New(t.TempDir()), theme.New(), cfg.Presets)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMouseClickSpawnsPreset(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(100, 0)
	m = update(t, m, frameMsg(start))
	m.View()

	m = update(t, m, tea.MouseMsg{X: 0, Y: m.bounds.gridTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, frameMsg(start.Add(16*time.Millisecond)))
	assert.Equal(t, []int{0}, m.last.Spawned)
	assert.Contains(t, m.View(), "kick01")

	m = update(t, m, tea.MouseMsg{X: 0, Y: m.bounds.gridTop, Action: tea.MouseActionRelease})
	assert.Nil(t, m.held)
	m = update(t, m, frameMsg(start.Add(32*time.Millisecond)))
	assert.Empty(t, m.last.Spawned)
}

func TestTempoKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, frameMsg(time.Unix(100, 0)))

	m = update(t, m, runes("+"))
	m = update(t, m, runes("+"))
	pending, ok := m.Engine.Clock().PendingBPM()
	require.True(t, ok)
	assert.Equal(t, 122.0, pending)

	m = update(t, m, runes("-"))
	pending, _ = m.Engine.Clock().PendingBPM()
	assert.Equal(t, 121.0, pending)
}

func TestPageKeysWrap(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("]"))
	assert.Equal(t, 1, m.Engine.Surface().Page())
	m = update(t, m, runes("]"))
	assert.Equal(t, 0, m.Engine.Surface().Page())
	m = update(t, m, runes("["))
	assert.Equal(t, 1, m.Engine.Surface().Page())
}

func TestSaveAndLoadKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, frameMsg(time.Unix(100, 0)))

	m = update(t, m, runes("L"))
	assert.Equal(t, "nothing to load", m.status)

	m = update(t, m, runes("s"))
	assert.True(t, strings.HasPrefix(m.status, "saved "), m.status)

	m = update(t, m, runes("L"))
	assert.Equal(t, "session loaded", m.status)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Empty(t, next.(Model).View())
}
