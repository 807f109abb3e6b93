package shell

import (
	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

// View renders the visible part of the transcript plus the completion popup.
func (m *Model) View() string {
	view := m.vp.View()
	if m.completion != nil {
		view = m.placeCompletion(view)
	}
	return view
}

// Content renders the whole document, scrolled-off lines included.
func (m *Model) Content() string {
	return m.rendered.Content
}

// ScrollOffset returns the first visible row.
func (m *Model) ScrollOffset() int {
	return m.vp.YOffset
}

func (m *Model) refresh() {
	m.rendered = m.doc.Render(editor.RenderOptions{
		Width:      m.width,
		ShowCursor: m.focused,
		Cursor:     m.renderCursor,
		Selection:  styles.SelectionStyle,
		ClassStyle: styles.ClassStyle,
		Widget:     styles.WidgetStyle,
	})
	m.vp.SetContent(m.rendered.Content)

	p, ok := m.doc.TakeScroll()
	if !ok || m.vp.Height <= 0 {
		return
	}
	row := m.rendered.RowOf(p)
	// Keep widgets under the caret's line in view too.
	if p.Line == m.doc.LastLine() {
		row = m.rendered.Rows - 1
	}
	switch {
	case row < m.vp.YOffset:
		m.vp.SetYOffset(row)
	case row >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(row - m.vp.Height + 1)
	}
}

func (m *Model) renderCursor(char string) string {
	m.cursor.SetChar(char)
	return m.cursor.View()
}

// ScrollBy scrolls the transcript by n rows; negative scrolls up.
func (m *Model) ScrollBy(n int) {
	if n < 0 {
		m.vp.ScrollUp(-n)
	} else {
		m.vp.ScrollDown(n)
	}
}
