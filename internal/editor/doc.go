// Package editor is a small line-oriented document widget: text, a caret and
// selection, marked ranges, line widgets and a syntax overlay. It has no key
// handling of its own; owners drive it through ReplaceRange and SetSelection
// and observe edits through change hooks.
package editor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Change origins used by the shell. Any string is accepted; origins starting
// with "+" are user input.
const (
	OriginInput    = "+input"
	OriginDelete   = "+delete"
	OriginPaste    = "paste"
	OriginPrompt   = "prompt"
	OriginHistory  = "history"
	OriginCallback = "callback"
	OriginComplete = "complete"
	OriginContinue = "paste-continuation"
)

// ChangeEvent describes a pending replacement. Before-change handlers may
// move it, rewrite its text or cancel it.
type ChangeEvent struct {
	Origin string
	From   Pos
	To     Pos
	Text   []string

	canceled bool
}

// Cancel drops the change.
func (e *ChangeEvent) Cancel() {
	e.canceled = true
}

// Canceled reports whether a handler canceled the change.
func (e *ChangeEvent) Canceled() bool {
	return e.canceled
}

// IsInput reports whether the change came from typing or deleting.
func (e *ChangeEvent) IsInput() bool {
	return strings.HasPrefix(e.Origin, "+")
}

// Change is an applied replacement. End is where the inserted text ends.
type Change struct {
	Origin string
	From   Pos
	To     Pos
	Text   []string
	End    Pos
}

// Mark styles a range with a class name.
type Mark struct {
	From  Pos
	To    Pos
	Class string
}

// LineWidget is extra content rendered below a line.
type LineWidget struct {
	ID          string
	Line        int
	Content     string
	HandleMouse bool
}

type lineMeta struct {
	highlightFrom int // grapheme column where tokenizing starts; -1 disables it
}

// Option names understood by the document.
const (
	OptionCursorBlinkRate = "cursorBlinkRate"
	OptionViewportMargin  = "viewportMargin"
	OptionReadOnly        = "readOnly"
)

// DefaultBlinkRate matches the usual terminal caret blink interval.
const DefaultBlinkRate = 530 * time.Millisecond

// Doc is an editable document. The zero value is not usable; call New.
type Doc struct {
	lines  []string
	meta   []lineMeta
	anchor Pos
	head   Pos

	marks   []*Mark
	widgets []*LineWidget
	lexer   Lexer
	options map[string]any

	beforeChange   []func(*ChangeEvent)
	change         []func(Change)
	cursorActivity []func(*Doc)

	scrollTo *Pos
}

// New creates a document holding text with the caret at the start.
func New(text string) *Doc {
	lines := strings.Split(text, "\n")
	return &Doc{
		lines: lines,
		meta:  make([]lineMeta, len(lines)),
		options: map[string]any{
			OptionCursorBlinkRate: DefaultBlinkRate,
			OptionViewportMargin:  100,
			OptionReadOnly:        false,
		},
	}
}

// LastLine returns the index of the last line.
func (d *Doc) LastLine() int {
	return len(d.lines) - 1
}

// LineCount returns the number of lines.
func (d *Doc) LineCount() int {
	return len(d.lines)
}

// Line returns line n, or "" when out of range.
func (d *Doc) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// LineLen returns the grapheme length of line n.
func (d *Doc) LineLen(n int) int {
	return GraphemeCount(d.Line(n))
}

// Value returns the whole document.
func (d *Doc) Value() string {
	return strings.Join(d.lines, "\n")
}

// EndPos returns the position after the last grapheme.
func (d *Doc) EndPos() Pos {
	last := d.LastLine()
	return Pos{Line: last, Ch: d.LineLen(last)}
}

// ClipPos clamps p into the document. Lines past the end clamp to the end of
// the last line.
func (d *Doc) ClipPos(p Pos) Pos {
	if p.Line < 0 {
		return Pos{}
	}
	if p.Line > d.LastLine() {
		return d.EndPos()
	}
	n := d.LineLen(p.Line)
	return Pos{Line: p.Line, Ch: min(max(p.Ch, 0), n)}
}

// Range returns the text between from and to.
func (d *Doc) Range(from, to Pos) string {
	from, to = d.ClipPos(from), d.ClipPos(to)
	if to.Before(from) {
		from, to = to, from
	}
	if from.Line == to.Line {
		return SliceGraphemes(d.lines[from.Line], from.Ch, to.Ch)
	}
	var sb strings.Builder
	first := d.lines[from.Line]
	sb.WriteString(first[GraphemeToByteOffset(first, from.Ch):])
	for l := from.Line + 1; l < to.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(d.lines[l])
	}
	sb.WriteByte('\n')
	last := d.lines[to.Line]
	sb.WriteString(last[:GraphemeToByteOffset(last, to.Ch)])
	return sb.String()
}

// OnBeforeChange registers a handler run before every replacement.
func (d *Doc) OnBeforeChange(fn func(*ChangeEvent)) {
	d.beforeChange = append(d.beforeChange, fn)
}

// OnChange registers a handler run after every applied replacement.
func (d *Doc) OnChange(fn func(Change)) {
	d.change = append(d.change, fn)
}

// OnCursorActivity registers a handler run whenever the selection is set or
// moved by an edit.
func (d *Doc) OnCursorActivity(fn func(*Doc)) {
	d.cursorActivity = append(d.cursorActivity, fn)
}

// ReplaceRange replaces [from, to) with text. A nil to inserts at from. It
// returns false when a before-change handler canceled the edit.
func (d *Doc) ReplaceRange(text string, from Pos, to *Pos, origin string) bool {
	f := d.ClipPos(from)
	t := f
	if to != nil {
		t = d.ClipPos(*to)
	}
	if t.Before(f) {
		f, t = t, f
	}

	if d.ReadOnly() && strings.HasPrefix(origin, "+") {
		return false
	}

	ev := &ChangeEvent{Origin: origin, From: f, To: t, Text: strings.Split(text, "\n")}
	for _, fn := range d.beforeChange {
		fn(ev)
		if ev.canceled {
			return false
		}
	}

	f, t = d.ClipPos(ev.From), d.ClipPos(ev.To)
	if t.Before(f) {
		f, t = t, f
	}
	if len(ev.Text) == 0 {
		ev.Text = []string{""}
	}

	end := d.apply(f, t, ev.Text)

	change := Change{Origin: ev.Origin, From: f, To: t, Text: ev.Text, End: end}
	for _, fn := range d.change {
		fn(change)
	}
	d.fireCursorActivity()
	return true
}

func (d *Doc) apply(f, t Pos, text []string) Pos {
	first := d.lines[f.Line]
	last := d.lines[t.Line]
	prefix := first[:GraphemeToByteOffset(first, f.Ch)]
	suffix := last[GraphemeToByteOffset(last, t.Ch):]

	repl := make([]string, len(text))
	copy(repl, text)
	endCh := GraphemeCount(repl[len(repl)-1])
	if len(repl) == 1 {
		endCh += f.Ch
	}
	repl[0] = prefix + repl[0]
	repl[len(repl)-1] += suffix
	end := Pos{Line: f.Line + len(repl) - 1, Ch: endCh}

	// A whole-line update removes lines f.Line..t.Line-1 outright and keeps
	// line t; anything else keeps line f and merges the rest into it.
	whole := f.Ch == 0 && t.Ch == 0 && text[len(text)-1] == ""
	meta := make([]lineMeta, len(repl))
	if whole {
		meta[len(meta)-1] = d.meta[t.Line]
	} else {
		meta[0] = d.meta[f.Line]
	}

	lines := make([]string, 0, len(d.lines)-(t.Line-f.Line+1)+len(repl))
	lines = append(lines, d.lines[:f.Line]...)
	lines = append(lines, repl...)
	lines = append(lines, d.lines[t.Line+1:]...)
	metas := make([]lineMeta, 0, len(lines))
	metas = append(metas, d.meta[:f.Line]...)
	metas = append(metas, meta...)
	metas = append(metas, d.meta[t.Line+1:]...)
	d.lines, d.meta = lines, metas

	d.remapMarks(f, t, end)
	d.remapWidgets(f, t, end, whole)
	d.anchor = mapPos(d.anchor, f, t, end, false)
	d.head = mapPos(d.head, f, t, end, false)
	return end
}

// mapPos moves p across the replacement of [f, t) by text ending at end.
// stick controls a position exactly at a pure insertion point: true keeps it
// before the inserted text, false moves it after.
func mapPos(p, f, t, end Pos, stick bool) Pos {
	if p.Before(f) {
		return p
	}
	if p == f && f == t {
		if stick {
			return p
		}
		return end
	}
	if p.Before(t) {
		if stick {
			return f
		}
		return end
	}
	if p.Line == t.Line {
		return Pos{Line: end.Line, Ch: end.Ch + p.Ch - t.Ch}
	}
	return Pos{Line: p.Line + end.Line - t.Line, Ch: p.Ch}
}

func (d *Doc) remapMarks(f, t, end Pos) {
	kept := d.marks[:0]
	for _, m := range d.marks {
		m.From = mapPos(m.From, f, t, end, false)
		m.To = mapPos(m.To, f, t, end, true)
		if m.From.Before(m.To) {
			kept = append(kept, m)
		}
	}
	d.marks = kept
}

// remapWidgets drops widgets attached to removed lines and shifts the rest.
func (d *Doc) remapWidgets(f, t, end Pos, whole bool) {
	delta := end.Line - t.Line
	keepTo, dropTo := f.Line, t.Line
	if whole {
		keepTo, dropTo = f.Line-1, t.Line-1
	}
	kept := d.widgets[:0]
	for _, w := range d.widgets {
		switch {
		case w.Line <= keepTo:
			kept = append(kept, w)
		case w.Line <= dropTo:
		default:
			w.Line += delta
			kept = append(kept, w)
		}
	}
	d.widgets = kept
}

// Cursor returns the caret (selection head).
func (d *Doc) Cursor() Pos {
	return d.head
}

// Anchor returns the fixed end of the selection.
func (d *Doc) Anchor() Pos {
	return d.anchor
}

// SetCursor collapses the selection to p.
func (d *Doc) SetCursor(p Pos) {
	d.SetSelection(p, p)
}

// SetSelection selects from anchor to head; head is the caret.
func (d *Doc) SetSelection(anchor, head Pos) {
	d.anchor = d.ClipPos(anchor)
	d.head = d.ClipPos(head)
	d.fireCursorActivity()
}

// HasSelection reports whether a non-empty range is selected.
func (d *Doc) HasSelection() bool {
	return d.anchor != d.head
}

// Selections returns the selected text, one entry per selection range. An
// empty selection yields one empty string.
func (d *Doc) Selections() []string {
	return []string{d.Range(minPos(d.anchor, d.head), maxPos(d.anchor, d.head))}
}

func (d *Doc) fireCursorActivity() {
	for _, fn := range d.cursorActivity {
		fn(d)
	}
}

// MarkText styles [from, to) with class. Empty ranges are ignored.
func (d *Doc) MarkText(from, to Pos, class string) *Mark {
	from, to = d.ClipPos(from), d.ClipPos(to)
	if !from.Before(to) {
		return nil
	}
	m := &Mark{From: from, To: to, Class: class}
	d.marks = append(d.marks, m)
	return m
}

// Marks returns copies of the current marks.
func (d *Doc) Marks() []Mark {
	out := make([]Mark, len(d.marks))
	for i, m := range d.marks {
		out[i] = *m
	}
	return out
}

// AddLineWidget renders content below line.
func (d *Doc) AddLineWidget(line int, content string, handleMouse bool) LineWidget {
	line = min(max(line, 0), d.LastLine())
	w := &LineWidget{ID: uuid.NewString(), Line: line, Content: content, HandleMouse: handleMouse}
	d.widgets = append(d.widgets, w)
	return *w
}

// RemoveLineWidget deletes the widget with id.
func (d *Doc) RemoveLineWidget(id string) bool {
	for i, w := range d.widgets {
		if w.ID == id {
			d.widgets = append(d.widgets[:i], d.widgets[i+1:]...)
			return true
		}
	}
	return false
}

// LineWidgets returns copies of the widgets in insertion order.
func (d *Doc) LineWidgets() []LineWidget {
	out := make([]LineWidget, len(d.widgets))
	for i, w := range d.widgets {
		out[i] = *w
	}
	return out
}

// SetMode installs the syntax overlay. Nil disables highlighting.
func (d *Doc) SetMode(l Lexer) {
	d.lexer = l
}

// Mode returns the syntax overlay.
func (d *Doc) Mode() Lexer {
	return d.lexer
}

// SuppressTokens turns highlighting off for line.
func (d *Doc) SuppressTokens(line int) {
	d.HighlightFrom(line, -1)
}

// HighlightFrom limits highlighting on line to columns at or after col.
func (d *Doc) HighlightFrom(line, col int) {
	if line < 0 || line >= len(d.meta) {
		return
	}
	d.meta[line].highlightFrom = col
}

// SetOption stores a named option.
func (d *Doc) SetOption(name string, value any) {
	d.options[name] = value
}

// Option returns a named option.
func (d *Doc) Option(name string) any {
	return d.options[name]
}

// BlinkRate returns the cursorBlinkRate option; zero means a steady caret.
func (d *Doc) BlinkRate() time.Duration {
	switch v := d.options[OptionCursorBlinkRate].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Millisecond
	}
	return 0
}

// ReadOnly reports the readOnly option.
func (d *Doc) ReadOnly() bool {
	v, _ := d.options[OptionReadOnly].(bool)
	return v
}

// ScrollIntoView asks the owner to make p visible on the next render.
func (d *Doc) ScrollIntoView(p Pos) {
	p = d.ClipPos(p)
	d.scrollTo = &p
}

// TakeScroll returns and clears the pending scroll request.
func (d *Doc) TakeScroll() (Pos, bool) {
	if d.scrollTo == nil {
		return Pos{}, false
	}
	p := *d.scrollTo
	d.scrollTo = nil
	return p, true
}
