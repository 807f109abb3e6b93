package shell

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/keys"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/ui/overlay"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

// maxCompletionRows is the height of the completion popup.
const maxCompletionRows = 8

type completion struct {
	all      []string
	items    []string
	selected int
	from     int // column on the last line where the replaced word starts
}

// complete asks the hint function for candidates at the caret. A single
// candidate is applied at once; several open the popup.
func (m *Model) complete() tea.Cmd {
	if m.cfg.Hint == nil || m.state == StateExec {
		return nil
	}
	line, pos := m.CurrentLine()
	if pos < 0 {
		m.doc.SetCursor(m.doc.EndPos())
		line, pos = m.CurrentLine()
	}
	list, start := m.cfg.Hint(m.cfg.Context, line, pos)
	log.Debug(log.CatShell, "completion", "candidates", len(list), "start", start)
	if len(list) == 0 {
		return nil
	}
	from := min(max(start, 0), pos) + m.promptLen
	if len(list) == 1 {
		m.applyCompletion(from, list[0])
		return nil
	}
	m.completion = &completion{all: list, from: from}
	m.refilterCompletion()
	return nil
}

// CompletionItems returns the candidates shown in the popup, if open.
func (m *Model) CompletionItems() []string {
	if m.completion == nil {
		return nil
	}
	return append([]string(nil), m.completion.items...)
}

func (m *Model) closeCompletion() {
	m.completion = nil
}

// refilterCompletion narrows the popup to candidates starting with the text
// typed since it opened. The popup closes when nothing matches or the caret
// left the word.
func (m *Model) refilterCompletion() {
	c := m.completion
	pos := m.doc.Cursor()
	last := m.doc.LastLine()
	if pos.Line != last || pos.Ch < c.from {
		m.closeCompletion()
		return
	}
	typed := editor.SliceGraphemes(m.doc.Line(last), c.from, pos.Ch)
	c.items = c.items[:0]
	for _, item := range c.all {
		if strings.HasPrefix(item, typed) {
			c.items = append(c.items, item)
		}
	}
	if len(c.items) == 0 {
		m.closeCompletion()
		return
	}
	c.selected = min(c.selected, len(c.items)-1)
}

func (m *Model) applyCompletion(from int, text string) {
	last := m.doc.LastLine()
	to := m.doc.Cursor()
	if to.Line != last {
		to = m.doc.EndPos()
	}
	if m.doc.ReplaceRange(text, editor.P(last, from), &to, editor.OriginComplete) {
		m.doc.SetCursor(m.lastChange.End)
	}
	m.closeCompletion()
}

// completionKey handles keys while the popup is open. Keys it doesn't use
// close the popup and fall through to the shell.
func (m *Model) completionKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	c := m.completion
	switch {
	case key.Matches(msg, keys.Completion.Prev):
		c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
		return nil, true
	case key.Matches(msg, keys.Completion.Next):
		c.selected = (c.selected + 1) % len(c.items)
		return nil, true
	case key.Matches(msg, keys.Completion.Accept):
		m.applyCompletion(c.from, c.items[c.selected])
		return nil, true
	case key.Matches(msg, keys.Completion.Close):
		m.closeCompletion()
		return nil, true
	case msg.Type == tea.KeyRunes && !msg.Paste, msg.Type == tea.KeyBackspace:
		return nil, false
	}
	m.closeCompletion()
	return nil, false
}

func (m *Model) itemZone(i int) string {
	return m.zoneID + "completion-" + strconv.Itoa(i)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return cmd
	}
	if m.completion == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	for i, item := range m.completion.items {
		if z := zone.Get(m.itemZone(i)); z != nil && z.InBounds(msg) {
			m.applyCompletion(m.completion.from, item)
			m.refresh()
			return nil
		}
	}
	m.closeCompletion()
	return nil
}

// completionView renders the popup window around the selected candidate.
func (m *Model) completionView() string {
	c := m.completion
	first := 0
	if c.selected >= maxCompletionRows {
		first = c.selected - maxCompletionRows + 1
	}
	end := min(first+maxCompletionRows, len(c.items))

	width := 0
	for _, item := range c.items[first:end] {
		width = max(width, editor.DisplayWidth(item))
	}
	rows := make([]string, 0, end-first)
	for i := first; i < end; i++ {
		style := styles.CompletionItemStyle
		if i == c.selected {
			style = styles.CompletionSelectedStyle
		}
		rows = append(rows, zone.Mark(m.itemZone(i), style.Width(width+2).Render(c.items[i])))
	}
	return styles.CompletionStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) placeCompletion(bg string) string {
	popup := m.completionView()
	last := m.doc.LastLine()
	row, col := m.rendered.CellOf(editor.P(last, m.completion.from), m.doc.Line(last))
	return overlay.Place(overlay.Config{
		Width:    m.vp.Width,
		Height:   m.vp.Height,
		Position: overlay.Anchor,
		X:        col,
		Y:        row - m.vp.YOffset,
	}, popup, bg)
}
