package help

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp_New(t *testing.T) {
	m := New()

	require.NotEmpty(t, m.keys.Help.Keys())
	require.NotEmpty(t, m.keys.Quit.Keys())
}

func TestHelp_SetSize(t *testing.T) {
	m := New().SetSize(120, 40)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 120, m.width, "original model unchanged")
}

func TestHelp_View_ContainsSections(t *testing.T) {
	view := New().SetSize(160, 30).View()

	for _, s := range sections {
		assert.Contains(t, view, s)
	}
	assert.Contains(t, view, "Keybindings")
	assert.Contains(t, view, Footer)
}

func TestHelp_View_ContainsKeybindings(t *testing.T) {
	view := New().SetSize(160, 30).View()

	assert.Contains(t, view, "execute")
	assert.Contains(t, view, "previous command")
	assert.Contains(t, view, "delete word")
	assert.Contains(t, view, "toggle help")
	assert.Contains(t, view, "quit")
}

func TestHelp_Overlay_KeepsBackgroundOutsideBox(t *testing.T) {
	bg := strings.Repeat(strings.Repeat("x", 160)+"\n", 29) + strings.Repeat("x", 160)

	view := New().SetSize(160, 30).Overlay(bg)

	lines := strings.Split(view, "\n")
	require.Len(t, lines, 30)
	assert.Equal(t, strings.Repeat("x", 160), lines[0])
	assert.Contains(t, view, "Keybindings")
}
