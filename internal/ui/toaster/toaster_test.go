package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Hello", StyleInfo, time.Second)

	require.NotNil(t, cmd)
	assert.True(t, m.Visible())
	assert.Equal(t, "Hello", m.Message())
	assert.Contains(t, m.View(), "Hello")
}

func TestHide(t *testing.T) {
	m, _ := New().Show("Hello", StyleInfo, time.Second)
	m = m.Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m, _ := New().Show("First", StyleInfo, time.Second)
	m, _ = m.Show("Second", StyleError, time.Second)

	assert.Contains(t, m.View(), "Second")
	assert.NotContains(t, m.View(), "First")
}

func TestDismiss_OnlyLatest(t *testing.T) {
	m, first := New().Show("First", StyleInfo, time.Millisecond)
	m, second := m.Show("Second", StyleWarn, time.Millisecond)

	m = m.Update(first())
	assert.True(t, m.Visible(), "stale dismissal ignored")

	m = m.Update(second())
	assert.False(t, m.Visible())
}

func TestView_Styles(t *testing.T) {
	for style, icon := range map[Style]string{StyleInfo: "i ", StyleWarn: "! ", StyleError: "x "} {
		m, _ := New().Show("msg", style, time.Second)
		view := m.View()
		assert.Contains(t, view, "msg")
		assert.Contains(t, view, icon)
		assert.Contains(t, view, "╭", "rounded border")
	}
}

func TestOverlay_NotVisibleReturnsBackground(t *testing.T) {
	bg := "line1\nline2"

	assert.Equal(t, bg, New().Overlay(bg, 20, 2))
}

func TestOverlay_BottomCentered(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 40)+"\n", 9) + strings.Repeat(".", 40)
	m, _ := New().Show("saved", StyleInfo, time.Second)

	lines := strings.Split(m.Overlay(bg, 40, 10), "\n")

	require.Len(t, lines, 10)
	assert.Equal(t, strings.Repeat(".", 40), lines[0])
	assert.Contains(t, lines[7], "saved")
	assert.Equal(t, strings.Repeat(".", 40), lines[9], "padding row below the toast")
}
