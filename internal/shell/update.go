package shell

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/log"
)

// FunctionKeyMsg is emitted after the function key callback runs so the
// host can react in its own Update.
type FunctionKeyMsg struct {
	Name string
}

// Update handles messages for the shell.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ExecResultMsg:
		cmd := m.handleResult(msg)
		return m, tea.Batch(cmd, m.syncCursor())

	case ResponseMsg:
		m.Response(msg.Text, msg.Class)
		return m, nil

	case pasteNextMsg:
		cmd := m.pasteNext()
		return m, tea.Batch(cmd, m.syncCursor())

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		cmd := m.handleKey(msg)
		m.refresh()
		return m, tea.Batch(cmd, m.syncCursor())
	}

	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.completion != nil {
		if cmd, handled := m.completionKey(msg); handled {
			return cmd
		}
	}

	if msg.Paste {
		m.paste(string(msg.Runes))
		if m.pendingExec {
			m.pendingExec = false
			return m.execLine()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.FunctionKeys):
		return m.functionKey(msg.String())

	case key.Matches(msg, m.keys.Execute):
		return m.execLine()

	case key.Matches(msg, m.keys.Complete):
		return m.complete()

	case key.Matches(msg, m.keys.Cancel):
		return m.Cancel()

	case key.Matches(msg, m.keys.HistoryPrev):
		m.navigateHistory(true)
	case key.Matches(msg, m.keys.HistoryNext):
		m.navigateHistory(false)

	case key.Matches(msg, m.keys.WordLeft):
		m.moveWord(false)
	case key.Matches(msg, m.keys.WordRight):
		m.moveWord(true)
	case key.Matches(msg, m.keys.SelectLeft):
		m.extendSelection(-1)
	case key.Matches(msg, m.keys.SelectRight):
		m.extendSelection(1)
	case key.Matches(msg, m.keys.Left):
		m.moveLeft()
	case key.Matches(msg, m.keys.Right):
		m.moveRight()
	case key.Matches(msg, m.keys.Home):
		m.doc.SetCursor(editor.P(m.doc.LastLine(), m.promptLen))
	case key.Matches(msg, m.keys.End):
		m.doc.SetCursor(m.doc.EndPos())

	case key.Matches(msg, m.keys.Backspace):
		m.deleteBack()
		if m.completion != nil {
			m.refilterCompletion()
		}
	case key.Matches(msg, m.keys.Delete):
		m.deleteForward()
	case key.Matches(msg, m.keys.KillLine):
		m.killLine()
	case key.Matches(msg, m.keys.DeleteWord):
		m.deleteWord()

	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		m.input(string(msg.Runes))
		if m.completion != nil {
			m.refilterCompletion()
		}
	}
	return nil
}

func (m *Model) functionKey(name string) tea.Cmd {
	log.Debug(log.CatShell, "function key", "key", name)
	if m.cfg.FunctionKey != nil {
		m.cfg.FunctionKey(name)
	}
	return func() tea.Msg { return FunctionKeyMsg{Name: name} }
}

// input types text at the caret, replacing the selection. Edits outside
// the editable region land at the end of the last line.
func (m *Model) input(text string) {
	if text == "" {
		return
	}
	from, to := m.selectionRange()
	if m.doc.ReplaceRange(text, from, &to, editor.OriginInput) {
		m.doc.SetCursor(m.lastChange.End)
	}
}

func (m *Model) selectionRange() (editor.Pos, editor.Pos) {
	a, h := m.doc.Anchor(), m.doc.Cursor()
	if h.Before(a) {
		return h, a
	}
	return a, h
}

func (m *Model) deleteBack() {
	from, to := m.selectionRange()
	if from == to {
		last := m.doc.LastLine()
		if to.Line != last || to.Ch <= m.promptLen {
			return
		}
		from = editor.P(last, to.Ch-1)
	}
	m.deleteRange(from, to)
}

func (m *Model) deleteForward() {
	from, to := m.selectionRange()
	if from == to {
		last := m.doc.LastLine()
		if from.Line != last || from.Ch < m.promptLen || from.Ch >= m.doc.LineLen(last) {
			return
		}
		to = editor.P(last, from.Ch+1)
	}
	m.deleteRange(from, to)
}

func (m *Model) killLine() {
	last := m.doc.LastLine()
	m.deleteRange(editor.P(last, m.promptLen), m.doc.EndPos())
}

func (m *Model) deleteWord() {
	pos := m.doc.Cursor()
	last := m.doc.LastLine()
	if pos.Line != last || pos.Ch <= m.promptLen {
		return
	}
	from := max(editor.WordLeft(m.doc.Line(last), pos.Ch), m.promptLen)
	m.deleteRange(editor.P(last, from), pos)
}

func (m *Model) deleteRange(from, to editor.Pos) {
	last := m.doc.LastLine()
	// Only the editable part of a selection reaching above the prompt goes.
	if from.Line != last || from.Ch < m.promptLen {
		if to.Line != last {
			return
		}
		from = editor.P(last, m.promptLen)
	}
	if !from.Before(to) {
		return
	}
	if m.doc.ReplaceRange("", from, &to, editor.OriginDelete) {
		m.doc.SetCursor(m.lastChange.End)
	}
}

func (m *Model) moveLeft() {
	pos := m.doc.Cursor()
	last := m.doc.LastLine()
	switch {
	case pos.Line != last:
		m.doc.SetCursor(m.doc.EndPos())
	case pos.Ch > m.promptLen:
		m.doc.SetCursor(editor.P(last, pos.Ch-1))
	default:
		m.doc.SetCursor(editor.P(last, m.promptLen))
	}
}

func (m *Model) moveRight() {
	pos := m.doc.Cursor()
	last := m.doc.LastLine()
	switch {
	case pos.Line != last:
		m.doc.SetCursor(m.doc.EndPos())
	case pos.Ch < m.promptLen:
		m.doc.SetCursor(editor.P(last, m.promptLen))
	default:
		m.doc.SetCursor(editor.P(last, min(pos.Ch+1, m.doc.LineLen(last))))
	}
}

func (m *Model) moveWord(right bool) {
	pos := m.doc.Cursor()
	last := m.doc.LastLine()
	if pos.Line != last {
		m.doc.SetCursor(m.doc.EndPos())
		return
	}
	line := m.doc.Line(last)
	ch := max(pos.Ch, m.promptLen)
	if right {
		ch = editor.WordRight(line, ch)
	} else {
		ch = max(editor.WordLeft(line, ch), m.promptLen)
	}
	m.doc.SetCursor(editor.P(last, ch))
}

// extendSelection moves the caret keeping the anchor. Selections may reach
// into the transcript; edits are still confined to the prompt line.
func (m *Model) extendSelection(delta int) {
	head := m.doc.Cursor()
	switch {
	case delta < 0 && head.Ch > 0:
		head.Ch--
	case delta < 0 && head.Line > 0:
		head = editor.P(head.Line-1, m.doc.LineLen(head.Line-1))
	case delta > 0 && head.Ch < m.doc.LineLen(head.Line):
		head.Ch++
	case delta > 0 && head.Line < m.doc.LastLine():
		head = editor.P(head.Line+1, 0)
	}
	m.doc.SetSelection(m.doc.Anchor(), head)
}

// navigateHistory swaps the editable region for the previous or next
// history entry. The text being replaced is remembered for the way back.
func (m *Model) navigateHistory(up bool) {
	if m.state == StateExec {
		return
	}
	current, _ := m.CurrentLine()
	text, moved := m.hist.Navigate(up, current)
	if !moved {
		return
	}
	last := m.doc.LastLine()
	end := m.doc.EndPos()
	m.doc.ReplaceRange(text, editor.P(last, m.promptLen), &end, editor.OriginHistory)
	m.doc.SetCursor(m.doc.EndPos())
	m.doc.ScrollIntoView(m.doc.EndPos())
}
