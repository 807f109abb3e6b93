package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_SplitsLines(t *testing.T) {
	d := New("a\nb\nc")
	require.Equal(t, 3, d.LineCount())
	require.Equal(t, 2, d.LastLine())
	require.Equal(t, "b", d.Line(1))
	require.Equal(t, "", d.Line(7))
	require.Equal(t, "a\nb\nc", d.Value())
}

func TestClipPos(t *testing.T) {
	d := New("héllo\nx")
	tests := []struct {
		in, want Pos
	}{
		{P(-1, 3), P(0, 0)},
		{P(0, -2), P(0, 0)},
		{P(0, 99), P(0, 5)},
		{P(5, 0), P(1, 1)},
		{P(1, 1), P(1, 1)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, d.ClipPos(tt.in), tt.in.String())
	}
}

func TestReplaceRange_Insert(t *testing.T) {
	d := New("> ")
	require.True(t, d.ReplaceRange("1+1", P(0, 2), nil, OriginInput))
	require.Equal(t, "> 1+1", d.Value())
}

func TestReplaceRange_NewlinePastEndAppendsLine(t *testing.T) {
	d := New("> x")
	d.ReplaceRange("\n", P(1, 0), nil, OriginPrompt)
	require.Equal(t, []string{"> x", ""}, []string{d.Line(0), d.Line(1)})
}

func TestReplaceRange_MultiLine(t *testing.T) {
	d := New("abc\ndef")
	to := P(1, 1)
	d.ReplaceRange("X\nY", P(0, 1), &to, "")
	require.Equal(t, "aX\nYef", d.Value())
}

func TestReplaceRange_SwapsReversedRange(t *testing.T) {
	d := New("abcdef")
	to := P(0, 1)
	d.ReplaceRange("", P(0, 4), &to, "")
	require.Equal(t, "aef", d.Value())
}

func TestReplaceRange_Graphemes(t *testing.T) {
	d := New("> 👨‍👩‍👧x")
	to := P(0, 3)
	d.ReplaceRange("", P(0, 2), &to, OriginDelete)
	require.Equal(t, "> x", d.Value())
}

func TestBeforeChange_CancelAndRewrite(t *testing.T) {
	d := New("> ")
	d.OnBeforeChange(func(e *ChangeEvent) {
		if e.Origin == "blocked" {
			e.Cancel()
			return
		}
		if e.IsInput() && e.From.Ch < 2 {
			e.From, e.To = P(0, 2), P(0, 2)
		}
	})

	require.False(t, d.ReplaceRange("nope", P(0, 2), nil, "blocked"))
	require.Equal(t, "> ", d.Value())

	d.ReplaceRange("x", P(0, 0), nil, OriginInput)
	require.Equal(t, "> x", d.Value())
}

func TestBeforeChange_TruncateText(t *testing.T) {
	d := New("")
	d.OnBeforeChange(func(e *ChangeEvent) { e.Text = e.Text[:1] })
	d.ReplaceRange("one\ntwo\nthree", P(0, 0), nil, OriginPaste)
	require.Equal(t, "one", d.Value())
}

func TestOnChange_ReportsEnd(t *testing.T) {
	d := New("ab")
	var got Change
	d.OnChange(func(c Change) { got = c })

	d.ReplaceRange("x\nyz", P(0, 1), nil, OriginPaste)

	require.Equal(t, OriginPaste, got.Origin)
	require.Equal(t, P(0, 1), got.From)
	require.Equal(t, P(1, 2), got.End)
	require.Equal(t, []string{"x", "yz"}, got.Text)
}

func TestReadOnly_BlocksInputOnly(t *testing.T) {
	d := New("")
	d.SetOption(OptionReadOnly, true)
	require.False(t, d.ReplaceRange("x", P(0, 0), nil, OriginInput))
	require.True(t, d.ReplaceRange("y", P(0, 0), nil, OriginCallback))
	require.Equal(t, "y", d.Value())
}

func TestCursor_MovesWithEdits(t *testing.T) {
	d := New("> ab")
	d.SetCursor(P(0, 4))
	d.ReplaceRange("zz", P(0, 2), nil, OriginInput)
	require.Equal(t, P(0, 6), d.Cursor())

	d.ReplaceRange("\nout", P(0, 6), nil, OriginCallback)
	require.Equal(t, P(1, 3), d.Cursor())
}

func TestSelections(t *testing.T) {
	d := New("hello\nworld")
	require.Equal(t, []string{""}, d.Selections())

	d.SetSelection(P(1, 3), P(0, 3))
	require.True(t, d.HasSelection())
	require.Equal(t, []string{"lo\nwor"}, d.Selections())
	require.Equal(t, P(0, 3), d.Cursor())
	require.Equal(t, P(1, 3), d.Anchor())
}

func TestCursorActivity(t *testing.T) {
	d := New("abc")
	calls := 0
	d.OnCursorActivity(func(*Doc) { calls++ })

	d.SetCursor(P(0, 1))
	d.ReplaceRange("x", P(0, 0), nil, OriginInput)
	require.Equal(t, 2, calls)
}

func TestMarks_ShiftAndStayExclusive(t *testing.T) {
	d := New("out")
	d.MarkText(P(0, 0), P(0, 3), "error")

	// Text appended at the end of the mark is not absorbed.
	d.ReplaceRange("> ", P(0, 3), nil, OriginPrompt)
	require.Equal(t, []Mark{{From: P(0, 0), To: P(0, 3), Class: "error"}}, d.Marks())

	// Text inserted before the mark shifts it.
	d.ReplaceRange("\n", P(0, 0), nil, "")
	require.Equal(t, []Mark{{From: P(1, 0), To: P(1, 3), Class: "error"}}, d.Marks())
}

func TestMarks_DroppedWithRange(t *testing.T) {
	d := New("one\ntwo\n> ")
	d.MarkText(P(0, 0), P(1, 3), "info")
	to := P(2, 0)
	d.ReplaceRange("", P(0, 0), &to, "")
	require.Empty(t, d.Marks())
	require.Equal(t, "> ", d.Value())
}

func TestMarkText_IgnoresEmpty(t *testing.T) {
	d := New("abc")
	require.Nil(t, d.MarkText(P(0, 2), P(0, 2), "x"))
	require.Nil(t, d.MarkText(P(0, 2), P(0, 1), "x"))
	require.Empty(t, d.Marks())
}

func TestLineWidgets_ShiftAndRemove(t *testing.T) {
	d := New("a\nb\n> ")
	w := d.AddLineWidget(1, "chart", true)
	require.NotEmpty(t, w.ID)
	require.True(t, w.HandleMouse)

	// Appending below keeps the widget on its line.
	d.ReplaceRange("\n", P(9, 0), nil, OriginPrompt)
	require.Equal(t, 1, d.LineWidgets()[0].Line)

	// Inserting a whole line above shifts it down.
	d.ReplaceRange("new\n", P(0, 0), nil, "")
	require.Equal(t, 2, d.LineWidgets()[0].Line)

	// Removing its line removes it.
	to := P(3, 0)
	d.ReplaceRange("", P(0, 0), &to, "")
	require.Empty(t, d.LineWidgets())
}

func TestLineWidget_ClampsLine(t *testing.T) {
	d := New("only")
	w := d.AddLineWidget(-4, "x", false)
	require.Equal(t, 0, w.Line)
	require.True(t, d.RemoveLineWidget(w.ID))
	require.False(t, d.RemoveLineWidget(w.ID))
}

func TestOptions(t *testing.T) {
	d := New("")
	require.Equal(t, DefaultBlinkRate, d.BlinkRate())
	require.Equal(t, 100, d.Option(OptionViewportMargin))

	d.SetOption(OptionCursorBlinkRate, 0)
	require.Zero(t, d.BlinkRate())
}

func TestScrollIntoView(t *testing.T) {
	d := New("a\nb")
	_, ok := d.TakeScroll()
	require.False(t, ok)

	d.ScrollIntoView(P(5, 5))
	p, ok := d.TakeScroll()
	require.True(t, ok)
	require.Equal(t, P(1, 1), p)

	_, ok = d.TakeScroll()
	require.False(t, ok)
}

func TestWordMotion(t *testing.T) {
	line := "> foo.bar  baz"
	require.Equal(t, 11, WordLeft(line, 14))
	require.Equal(t, 6, WordLeft(line, 11))
	require.Equal(t, 5, WordLeft(line, 6))
	require.Equal(t, 6, WordRight(line, 5))
	require.Equal(t, 14, WordRight(line, 10))
	require.Equal(t, 0, WordLeft("", 3))
}

func TestGraphemeHelpers(t *testing.T) {
	s := "a👍🏽b"
	require.Equal(t, 3, GraphemeCount(s))
	require.Equal(t, "👍🏽", SliceGraphemes(s, 1, 2))
	require.Equal(t, 1, ByteToGraphemeOffset(s, 3))
	require.Equal(t, len(s), GraphemeToByteOffset(s, 10))
	require.Equal(t, 2, DisplayWidth("👍"))
}
