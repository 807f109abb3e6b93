package shell

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/history"
	"github.com/zjrosen/replshell/internal/keys"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/ui/markdown"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

var shellSeq atomic.Int64

// Model is the shell widget. It is a pointer model: hosts call its methods
// from their own Update and keep routing messages to it.
type Model struct {
	cfg    Config
	doc    *editor.Doc
	hist   *history.History
	keys   keys.ShellKeyMap
	cursor cursor.Model
	vp     viewport.Model
	md     *markdown.Pool
	zoneID string

	state     State
	prompt    string
	promptLen int // column where the editable region of the last line starts
	prompted  bool
	focused   bool

	commandBuffer []string
	pasteBuffer   []string
	pendingExec   bool

	completion *completion
	lastChange editor.Change
	rendered   editor.Rendered
	width      int
	height     int
}

// New creates a shell showing the initial prompt. The stored history is
// restored unless cfg.SkipRestore is set.
func New(cfg Config) *Model {
	cfg = cfg.withDefaults()

	m := &Model{
		cfg:    cfg,
		doc:    editor.New(""),
		keys:   keys.Shell.WithFunctionKeys(cfg.FunctionKeys...),
		cursor: cursor.New(),
		md:     markdown.NewPool(cfg.MarkdownStyle),
		zoneID: fmt.Sprintf("shell%d-", shellSeq.Add(1)),
		state:  StateEdit,
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.vp = viewport.New(cfg.Width, cfg.Height)

	m.hist = cfg.History
	if m.hist == nil {
		m.hist = history.New(cfg.HistoryOptions)
	}
	if !cfg.SkipRestore {
		if err := m.hist.Restore(cfg.Context); err != nil {
			log.ErrorErr(log.CatHistory, "restoring history failed", err)
		}
	}

	switch {
	case cfg.Lexer != nil:
		m.doc.SetMode(cfg.Lexer)
	case cfg.Mode != "":
		lexer, err := editor.NewChromaLexer(cfg.Mode, cfg.SyntaxStyle)
		if err != nil {
			log.Warn(log.CatShell, "syntax mode unavailable", "mode", cfg.Mode, "error", err)
		} else {
			m.doc.SetMode(lexer)
		}
	}

	m.doc.OnBeforeChange(m.beforeChange)
	m.doc.OnChange(func(c editor.Change) { m.lastChange = c })
	m.doc.OnCursorActivity(m.cursorActivity)

	m.prompt = cfg.InitialPrompt
	m.writePrompt()
	m.refresh()
	return m
}

// Init focuses the shell and starts the caret blinking.
func (m *Model) Init() tea.Cmd {
	return m.Focus()
}

// Doc exposes the underlying document.
func (m *Model) Doc() *editor.Doc {
	return m.doc
}

// State returns EDIT or EXEC.
func (m *Model) State() State {
	return m.state
}

// Prompt returns the prompt currently shown.
func (m *Model) Prompt() string {
	return m.prompt
}

// History returns the executed commands, oldest first.
func (m *Model) History() []string {
	return m.hist.Entries()
}

// HistoryStore returns the history the shell records into.
func (m *Model) HistoryStore() *history.History {
	return m.hist
}

// SetOption sets a document option such as "readOnly".
func (m *Model) SetOption(name string, value any) {
	log.Debug(log.CatShell, "set option", "name", name, "value", value)
	m.doc.SetOption(name, value)
}

// Focus gives the shell keyboard input.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	cmd := m.cursor.Focus()
	m.refresh()
	return cmd
}

// Blur stops the shell from handling keys.
func (m *Model) Blur() {
	m.focused = false
	m.cursor.Blur()
	m.refresh()
}

// Focused reports whether the shell handles keys.
func (m *Model) Focused() bool {
	return m.focused
}

// SetSize sets the container size in cells.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.vp.Width, m.vp.Height = width, height
	m.doc.ScrollIntoView(m.doc.Cursor())
	m.refresh()
}

// Refresh re-renders the document.
func (m *Model) Refresh() {
	m.refresh()
}

// WidthInChars returns the container width minus the initial prompt.
func (m *Model) WidthInChars() int {
	return m.width - editor.DisplayWidth(m.cfg.InitialPrompt)
}

// CurrentLine returns the text after the prompt and the caret offset in it,
// or -1 when the caret is not on the last line.
func (m *Model) CurrentLine() (string, int) {
	last := m.doc.LastLine()
	text := editor.SliceGraphemes(m.doc.Line(last), m.promptLen, m.doc.LineLen(last))
	pos := m.doc.Cursor()
	if pos.Line != last {
		return text, -1
	}
	return text, pos.Ch - m.promptLen
}

// CaretLine returns the line the caret is on, prompt included, and the
// caret column.
func (m *Model) CaretLine() (string, int) {
	pos := m.doc.Cursor()
	return m.doc.Line(pos.Line), pos.Ch
}

// Selections returns the selected text.
func (m *Model) Selections() []string {
	return m.doc.Selections()
}

// InsertNode shows content below the line preceding the last line.
func (m *Model) InsertNode(content string) editor.LineWidget {
	w := m.doc.AddLineWidget(max(m.doc.LastLine()-1, 0), content, true)
	m.refresh()
	return w
}

// Clear removes everything above the last line.
func (m *Model) Clear() {
	last := m.doc.LastLine()
	if last == 0 {
		return
	}
	end := editor.P(last, 0)
	m.doc.ReplaceRange("", editor.P(0, 0), &end, "")
	m.doc.ScrollIntoView(m.doc.Cursor())
	m.refresh()
}

// Response appends payload at the end of the document without adding a
// newline. A leading "\r" overwrites the current last line. When a prompt
// is already shown the text goes in front of it and the prompt stays
// editable. The inserted range is marked with class.
func (m *Model) Response(payload any, class string) {
	text := stringify(payload)

	last := m.doc.LastLine()
	ch := m.doc.LineLen(last)
	if m.prompted {
		ch = 0
	}
	from := editor.P(last, ch)
	var to *editor.Pos
	if rest, ok := strings.CutPrefix(text, "\r"); ok {
		text = rest
		end := from
		to = &end
		from = editor.P(last, 0)
	}
	if !m.doc.ReplaceRange(text, from, to, editor.OriginCallback) {
		return
	}
	end := m.lastChange.End

	if class != "" {
		m.doc.MarkText(from, end, class)
	}
	lastOut := end.Line
	if end.Ch == 0 && end.Line > from.Line {
		lastOut--
	}
	for l := from.Line; l <= lastOut; l++ {
		m.doc.SuppressTokens(l)
	}
	if m.prompted {
		tail := text[strings.LastIndex(text, "\n")+1:]
		m.promptLen += editor.GraphemeCount(tail)
		m.doc.HighlightFrom(m.doc.LastLine(), m.promptLen)
	}

	// More output may follow while executing; the prompt scrolls later.
	if m.state != StateExec {
		m.doc.ScrollIntoView(m.doc.EndPos())
	}
	m.refresh()
}

// stringify renders a host payload. A panicking String method yields a
// placeholder instead of taking the shell down.
func stringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("Unrenderable message: %v", r)
		}
	}()
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

// writePrompt appends the current prompt to the last line.
func (m *Model) writePrompt() {
	last := m.doc.LastLine()
	start := m.doc.LineLen(last)
	m.promptLen = start + editor.GraphemeCount(m.prompt)
	m.doc.ReplaceRange(m.prompt, editor.P(last, start), nil, editor.OriginPrompt)

	class := styles.ClassPrompt
	if m.prompt != m.cfg.InitialPrompt {
		class = styles.ClassCont
	}
	m.doc.MarkText(editor.P(last, start), editor.P(last, m.promptLen), class)
	m.doc.HighlightFrom(last, m.promptLen)

	m.prompted = true
	caret := editor.P(last, m.promptLen)
	m.doc.SetCursor(caret)
	m.doc.ScrollIntoView(caret)
}

// beforeChange keeps user edits inside the editable region and splits
// multi-line pastes.
func (m *Model) beforeChange(e *editor.ChangeEvent) {
	switch {
	case e.IsInput():
		if m.state == StateExec {
			e.Cancel()
			return
		}
		m.clampChange(e)
	case e.Origin == editor.OriginPaste:
		if m.state == StateExec {
			e.Cancel()
			return
		}
		m.clampChange(e)
		if len(e.Text) == 1 {
			return
		}
		// The first line goes in now; the rest run one per prompt.
		m.pasteBuffer = append([]string(nil), e.Text[1:]...)
		e.Text = e.Text[:1]
		m.pendingExec = true
	}
}

func (m *Model) clampChange(e *editor.ChangeEvent) {
	last := m.doc.LastLine()
	if e.From.Line != last {
		end := editor.P(last, m.doc.LineLen(last))
		e.From, e.To = end, end
	} else if e.From.Ch < m.promptLen {
		e.From.Ch = m.promptLen
		e.To = e.From
	}
}

// cursorActivity blinks the caret only inside the editable region.
func (m *Model) cursorActivity(d *editor.Doc) {
	pos := d.Cursor()
	if pos.Line != d.LastLine() || pos.Ch < m.promptLen || !m.prompted {
		d.SetOption(editor.OptionCursorBlinkRate, time.Duration(0))
		return
	}
	d.SetOption(editor.OptionCursorBlinkRate, editor.DefaultBlinkRate)
}

func (m *Model) syncCursor() tea.Cmd {
	rate := m.doc.BlinkRate()
	mode := cursor.CursorStatic
	if rate > 0 {
		mode = cursor.CursorBlink
		m.cursor.BlinkSpeed = rate
	}
	if mode == m.cursor.Mode() {
		return nil
	}
	return m.cursor.SetMode(mode)
}
