package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTTYBuffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestStylesForNonTTY(t *testing.T) {
	styles := StylesFor(&bytes.Buffer{})
	// Plain styles must not inject escape sequences.
	assert.Equal(t, "hello", styles.Header.Render("hello"))
}

func pressKey(t *testing.T, m tea.Model, key tea.KeyMsg) tea.Model {
	t.Helper()
	next, _ := m.Update(key)
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuSelectFirstEntry(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	final, ok := m.(menuModel)
	require.True(t, ok)
	assert.True(t, final.done)
	assert.Equal(t, ActionDiagnose, final.selection.Action)
}

func TestMenuCursorNavigation(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, runes("j"))
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	final := m.(menuModel)
	assert.Equal(t, ActionRepairCache, final.selection.Action)
}

func TestMenuCursorStopsAtBounds(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, runes("k")) // already at top
	for i := 0; i < 20; i++ {
		m = pressKey(t, m, runes("j"))
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	final := m.(menuModel)
	assert.Equal(t, ActionQuit, final.selection.Action)
}

func TestMenuQuitKey(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, runes("q"))

	final := m.(menuModel)
	assert.True(t, final.done)
	assert.Equal(t, ActionQuit, final.selection.Action)
}

func TestMenuInstallFontPromptsForPath(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, runes("j"))
	m = pressKey(t, m, runes("j")) // Install a font
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	mid := m.(menuModel)
	require.False(t, mid.done)
	assert.Contains(t, mid.View(), "Font file to install")

	for _, r := range "/tmp/a.ttf" {
		m = pressKey(t, m, runes(string(r)))
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	final := m.(menuModel)
	assert.True(t, final.done)
	assert.Equal(t, ActionInstallFont, final.selection.Action)
	assert.Equal(t, "/tmp/a.ttf", final.selection.FontPath)
}

func TestMenuViewListsAllEntries(t *testing.T) {
	m := newMenuModel(NoColorStyles())
	view := m.View()
	for _, item := range menuItems {
		assert.True(t, strings.Contains(view, item.label), "menu should list %q", item.label)
	}
}

func TestMenuEscQuits(t *testing.T) {
	var m tea.Model = newMenuModel(NoColorStyles())
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	final := m.(menuModel)
	assert.True(t, final.done)
	assert.Equal(t, ActionQuit, final.selection.Action)
}
