package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/history"
	"github.com/zjrosen/replshell/internal/storage/memstore"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newTestShell(t *testing.T, cfg Config) *Model {
	t.Helper()
	if cfg.Width == 0 {
		cfg.Width = 60
	}
	if cfg.Height == 0 {
		cfg.Height = 10
	}
	m := New(cfg)
	m.Focus()
	return m
}

func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		// caret blink ticks
		return nil, false
	}
}

// drain runs cmd and everything it leads to, feeding shell messages back
// into the model. It returns every message produced.
func drain(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok || msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		seen = append(seen, msg)
		switch msg.(type) {
		case ExecResultMsg, pasteNextMsg, ResponseMsg:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
	return seen
}

func send(t *testing.T, m *Model, msg tea.Msg) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(msg)
	return drain(t, m, cmd)
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(t *testing.T, m *Model, kt tea.KeyType) []tea.Msg {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: kt})
}

func enter(t *testing.T, m *Model, s string) {
	t.Helper()
	typeText(t, m, s)
	press(t, m, tea.KeyEnter)
}

func pasteText(t *testing.T, m *Model, s string) {
	t.Helper()
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true})
}

func requireCaretEditable(t require.TestingT, m *Model) {
	pos := m.doc.Cursor()
	require.Equal(t, m.doc.LastLine(), pos.Line)
	require.GreaterOrEqual(t, pos.Ch, m.promptLen)
}

func TestNew_ShowsInitialPrompt(t *testing.T) {
	m := newTestShell(t, Config{})

	require.Equal(t, "> ", m.doc.Value())
	require.Equal(t, StateEdit, m.State())
	require.Equal(t, editor.P(0, 2), m.doc.Cursor())
	require.True(t, m.prompted)
	require.Equal(t, editor.DefaultBlinkRate, m.doc.BlinkRate())

	marks := m.doc.Marks()
	require.Len(t, marks, 1)
	require.Equal(t, styles.ClassPrompt, marks[0].Class)
}

func TestNew_CustomPrompts(t *testing.T) {
	m := newTestShell(t, Config{InitialPrompt: "lua> ", ContinuationPrompt: "...> "})

	enter(t, m, "x _")

	require.Equal(t, "lua> x _\n...> ", m.doc.Value())
	require.Equal(t, "...> ", m.Prompt())
	require.Equal(t, styles.ClassCont, m.doc.Marks()[len(m.doc.Marks())-1].Class)
}

func TestTyping_InsertsAfterPrompt(t *testing.T) {
	m := newTestShell(t, Config{})

	typeText(t, m, "héllo 👋")

	require.Equal(t, "> héllo 👋", m.doc.Value())
	line, pos := m.CurrentLine()
	require.Equal(t, "héllo 👋", line)
	require.Equal(t, 7, pos)
}

func TestExec_EchoesAndPrompts(t *testing.T) {
	m := newTestShell(t, Config{})

	enter(t, m, "hello")

	require.Equal(t, "> hello\nhello\n> ", m.doc.Value())
	require.Equal(t, StateEdit, m.State())
	require.Equal(t, []string{"hello"}, m.History())
	requireCaretEditable(t, m)

	var output bool
	for _, mk := range m.doc.Marks() {
		if mk.Class == styles.ClassOutput {
			output = true
			require.Equal(t, editor.P(1, 0), mk.From)
		}
	}
	require.True(t, output)
}

func TestExec_ReceivesBufferedLines(t *testing.T) {
	var calls [][]string
	m := newTestShell(t, Config{Exec: func(_ context.Context, lines []string) (*engine.Result, error) {
		calls = append(calls, lines)
		if len(lines) < 3 {
			return &engine.Result{Status: engine.StatusIncomplete}, nil
		}
		return &engine.Result{Status: engine.StatusOK}, nil
	}})

	enter(t, m, "one")
	require.Equal(t, "+ ", m.Prompt())
	enter(t, m, "two")
	require.Equal(t, "+ ", m.Prompt())
	enter(t, m, "three")

	require.Equal(t, [][]string{{"one"}, {"one", "two"}, {"one", "two", "three"}}, calls)
	require.Equal(t, "> ", m.Prompt())
	require.Empty(t, m.commandBuffer)

	enter(t, m, "four")
	require.Equal(t, []string{"four"}, calls[3])
}

func TestExec_StateDuringCallback(t *testing.T) {
	var during State
	var m *Model
	m = newTestShell(t, Config{Exec: func(context.Context, []string) (*engine.Result, error) {
		during = m.State()
		return nil, nil
	}})

	enter(t, m, "x")

	require.Equal(t, StateExec, during)
	require.Equal(t, StateEdit, m.State())
	require.Equal(t, "> x\n> ", m.doc.Value())
}

func TestExec_EmptyLineNotInHistory(t *testing.T) {
	m := newTestShell(t, Config{})

	enter(t, m, "")
	enter(t, m, "   ")
	enter(t, m, "x")

	require.Equal(t, []string{"x"}, m.History())
}

func TestExec_DuplicatesKept(t *testing.T) {
	m := newTestShell(t, Config{})

	enter(t, m, "x")
	enter(t, m, "x")

	require.Equal(t, []string{"x", "x"}, m.History())
}

func TestExec_ErrorShownAsResponse(t *testing.T) {
	m := newTestShell(t, Config{Exec: func(context.Context, []string) (*engine.Result, error) {
		return nil, errors.New("boom")
	}})

	enter(t, m, "x")

	require.Equal(t, "> x\nboom\n> ", m.doc.Value())
	var classes []string
	for _, mk := range m.doc.Marks() {
		classes = append(classes, mk.Class)
	}
	require.Contains(t, classes, styles.ClassError)
}

func TestExec_ClearResult(t *testing.T) {
	m := newTestShell(t, Config{Exec: func(_ context.Context, lines []string) (*engine.Result, error) {
		if lines[0] == "cls" {
			return &engine.Result{Clear: true}, nil
		}
		return &engine.Result{Output: lines[0] + "\n"}, nil
	}})

	enter(t, m, "a")
	enter(t, m, "cls")

	require.Equal(t, "> ", m.doc.Value())
}

func TestExec_MarkdownWidget(t *testing.T) {
	m := newTestShell(t, Config{Exec: func(context.Context, []string) (*engine.Result, error) {
		return &engine.Result{Markdown: "# Title"}, nil
	}})

	enter(t, m, "help")

	widgets := m.doc.LineWidgets()
	require.Len(t, widgets, 1)
	require.Equal(t, 0, widgets[0].Line)
	require.Contains(t, widgets[0].Content, "Title")
	require.Contains(t, m.Content(), "Title")
}

func TestExec_IgnoredWhileExecuting(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "x")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateExec, m.State())
	require.Nil(t, m.execLine())

	drain(t, m, cmd)
	require.Equal(t, StateEdit, m.State())
}

func TestInput_CanceledWhileExecuting(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "x")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	pasteText(t, m, "z")
	require.Equal(t, "> x\n", m.doc.Value())

	drain(t, m, cmd)
	require.Equal(t, "> x\nx\n> ", m.doc.Value())
}

func TestInput_RedirectedToLastLine(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "abc")

	m.doc.SetCursor(editor.P(0, 1))
	typeText(t, m, "z")

	require.Equal(t, "> abc\nabc\n> z", m.doc.Value())
	require.Equal(t, editor.P(2, 3), m.doc.Cursor())
}

func TestInput_ReadOnly(t *testing.T) {
	m := newTestShell(t, Config{})
	m.SetOption(editor.OptionReadOnly, true)

	typeText(t, m, "x")

	require.Equal(t, "> ", m.doc.Value())
}

func TestBackspace_StopsAtPrompt(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "ab")

	for range 5 {
		press(t, m, tea.KeyBackspace)
	}

	require.Equal(t, "> ", m.doc.Value())
	requireCaretEditable(t, m)
}

func TestDeleteKeys(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "foo bar")

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	require.Equal(t, "> foo ", m.doc.Value())

	press(t, m, tea.KeyHome)
	press(t, m, tea.KeyDelete)
	require.Equal(t, "> oo ", m.doc.Value())

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	require.Equal(t, "> ", m.doc.Value())
}

func TestCaret_ArrowClamping(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "ab")

	press(t, m, tea.KeyHome)
	require.Equal(t, editor.P(0, 2), m.doc.Cursor())
	press(t, m, tea.KeyLeft)
	require.Equal(t, editor.P(0, 2), m.doc.Cursor())
	press(t, m, tea.KeyRight)
	require.Equal(t, editor.P(0, 3), m.doc.Cursor())
	press(t, m, tea.KeyEnd)
	press(t, m, tea.KeyRight)
	require.Equal(t, editor.P(0, 4), m.doc.Cursor())
}

func TestCaret_FromTranscriptJumpsToEnd(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "abc")
	typeText(t, m, "de")

	m.doc.SetCursor(editor.P(0, 0))
	press(t, m, tea.KeyLeft)
	require.Equal(t, editor.P(2, 4), m.doc.Cursor())

	m.doc.SetCursor(editor.P(1, 1))
	press(t, m, tea.KeyRight)
	require.Equal(t, editor.P(2, 4), m.doc.Cursor())

	m.doc.SetCursor(editor.P(1, 1))
	press(t, m, tea.KeyCtrlLeft)
	require.Equal(t, editor.P(2, 4), m.doc.Cursor())
}

func TestCaret_WordMoves(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "foo bar")

	press(t, m, tea.KeyCtrlLeft)
	require.Equal(t, editor.P(0, 6), m.doc.Cursor())
	press(t, m, tea.KeyCtrlLeft)
	require.Equal(t, editor.P(0, 2), m.doc.Cursor())
	press(t, m, tea.KeyCtrlLeft)
	require.Equal(t, editor.P(0, 2), m.doc.Cursor())
	press(t, m, tea.KeyCtrlRight)
	require.Equal(t, editor.P(0, 5), m.doc.Cursor())
}

func TestCaret_StaysEditable(t *testing.T) {
	actions := []tea.KeyMsg{
		{Type: tea.KeyLeft}, {Type: tea.KeyRight}, {Type: tea.KeyHome}, {Type: tea.KeyEnd},
		{Type: tea.KeyCtrlLeft}, {Type: tea.KeyCtrlRight}, {Type: tea.KeyBackspace},
		{Type: tea.KeyDelete}, {Type: tea.KeyCtrlW}, {Type: tea.KeyCtrlU},
		{Type: tea.KeyUp}, {Type: tea.KeyDown},
		{Type: tea.KeyRunes, Runes: []rune("a")}, {Type: tea.KeySpace, Runes: []rune(" ")},
	}
	rapid.Check(t, func(rt *rapid.T) {
		m := newTestShell(t, Config{})
		m.hist.Replace([]string{"one", "two words"})

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for range steps {
			msg := actions[rapid.IntRange(0, len(actions)-1).Draw(rt, "action")]
			m.Update(msg)
			requireCaretEditable(rt, m)
			require.True(rt, strings.HasPrefix(m.doc.Line(m.doc.LastLine()), "> "))
		}
	})
}

func TestBlinkRate_FollowsEditableRegion(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "abc")

	m.doc.SetCursor(editor.P(0, 1))
	require.Equal(t, time.Duration(0), m.doc.BlinkRate())

	m.doc.SetCursor(editor.P(2, 1))
	require.Equal(t, time.Duration(0), m.doc.BlinkRate())

	m.doc.SetCursor(editor.P(2, 2))
	require.Equal(t, editor.DefaultBlinkRate, m.doc.BlinkRate())
}

func TestHistory_Navigation(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "one")
	enter(t, m, "two")
	typeText(t, m, "live")

	press(t, m, tea.KeyUp)
	line, _ := m.CurrentLine()
	require.Equal(t, "two", line)
	press(t, m, tea.KeyUp)
	line, _ = m.CurrentLine()
	require.Equal(t, "one", line)
	press(t, m, tea.KeyUp)
	line, _ = m.CurrentLine()
	require.Equal(t, "one", line)

	press(t, m, tea.KeyDown)
	press(t, m, tea.KeyDown)
	line, _ = m.CurrentLine()
	require.Equal(t, "live", line)
	requireCaretEditable(t, m)
}

func TestHistory_SoftEditsDiscarded(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "one")
	enter(t, m, "two")

	press(t, m, tea.KeyUp)
	typeText(t, m, "X")
	press(t, m, tea.KeyUp)
	press(t, m, tea.KeyDown)
	line, _ := m.CurrentLine()
	require.Equal(t, "twoX", line)

	press(t, m, tea.KeyEnter)

	require.Equal(t, []string{"one", "two", "twoX"}, m.History())
	press(t, m, tea.KeyUp)
	press(t, m, tea.KeyUp)
	line, _ = m.CurrentLine()
	require.Equal(t, "two", line)
}

func TestHistory_PersistedAndRestored(t *testing.T) {
	store := memstore.New()
	opts := history.Options{Store: store, Key: "test.history", MaxEntries: 2}

	m := newTestShell(t, Config{HistoryOptions: opts})
	enter(t, m, "a")
	enter(t, m, "b")
	enter(t, m, "c")

	raw, ok, err := store.GetItem(context.Background(), "test.history")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `["b","c"]`, raw)

	again := newTestShell(t, Config{HistoryOptions: opts})
	require.Equal(t, []string{"b", "c"}, again.History())
}

func TestPaste_SingleLine(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "ab")
	press(t, m, tea.KeyLeft)

	pasteText(t, m, "XY")

	require.Equal(t, "> aXYb", m.doc.Value())
	require.Equal(t, editor.P(0, 5), m.doc.Cursor())
	require.Equal(t, StateEdit, m.State())
}

func TestPaste_MultiLineRunsInOrder(t *testing.T) {
	var calls []string
	m := newTestShell(t, Config{Exec: func(_ context.Context, lines []string) (*engine.Result, error) {
		calls = append(calls, lines[len(lines)-1])
		return &engine.Result{Output: "ok\n"}, nil
	}})

	pasteText(t, m, "one\r\ntwo\nthree")

	require.Equal(t, []string{"one", "two"}, calls)
	require.Equal(t, "> one\nok\n> two\nok\n> three", m.doc.Value())
	require.Equal(t, []string{"one", "two"}, m.History())
	require.Empty(t, m.pasteBuffer)
	requireCaretEditable(t, m)
}

func TestPaste_TrailingNewlineExecutesAll(t *testing.T) {
	m := newTestShell(t, Config{})

	pasteText(t, m, "a\nb\n")

	require.Equal(t, "> a\na\n> b\nb\n> ", m.doc.Value())
}

func TestPaste_WithContinuation(t *testing.T) {
	m := newTestShell(t, Config{})

	pasteText(t, m, "a _\nb\n")

	require.Equal(t, "> a _\n+ b\na\nb\n> ", m.doc.Value())
}

func TestCancel_DropsBuffers(t *testing.T) {
	m := newTestShell(t, Config{})
	enter(t, m, "a _")
	typeText(t, m, "b")
	require.Equal(t, "+ ", m.Prompt())

	drain(t, m, m.Cancel())

	require.Equal(t, "> a _\n+ b\n> ", m.doc.Value())
	require.Equal(t, "> ", m.Prompt())
	require.Empty(t, m.commandBuffer)
	require.Equal(t, []string{"a _"}, m.History())
}

func TestResponse_AppendsWithoutNewline(t *testing.T) {
	m := newTestShell(t, Config{Exec: func(context.Context, []string) (*engine.Result, error) {
		return nil, nil
	}})
	typeText(t, m, "x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Response("a", "")
	m.Response("b\n", styles.ClassInfo)
	drain(t, m, cmd)

	require.Equal(t, "> x\nab\n> ", m.doc.Value())
}

func TestResponse_CarriageReturnOverwrites(t *testing.T) {
	m := newTestShell(t, Config{Exec: func(context.Context, []string) (*engine.Result, error) {
		return nil, nil
	}})
	typeText(t, m, "x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Response("10%", "")
	m.Response("\r50%", "")
	m.Response("\r100%\n", "")
	drain(t, m, cmd)

	require.Equal(t, "> x\n100%\n> ", m.doc.Value())
}

func TestResponse_WhilePromptedKeepsInput(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "ab")

	m.Response("note\n", styles.ClassWarn)

	require.Equal(t, "note\n> ab", m.doc.Value())
	requireCaretEditable(t, m)
	require.Equal(t, 2, m.promptLen)

	m.Response("tail", "")
	require.Equal(t, "note\ntail> ab", m.doc.Value())
	require.Equal(t, 6, m.promptLen)
	line, _ := m.CurrentLine()
	require.Equal(t, "ab", line)
}

func TestResponse_ClassMark(t *testing.T) {
	m := newTestShell(t, Config{})

	m.Response("warn\n", styles.ClassWarn)

	var found bool
	for _, mk := range m.doc.Marks() {
		if mk.Class == styles.ClassWarn {
			found = true
			require.Equal(t, editor.P(0, 0), mk.From)
		}
	}
	require.True(t, found)
}

type badStringer struct{}

func (badStringer) String() string { panic("nope") }

func TestResponse_Payloads(t *testing.T) {
	require.Equal(t, "", stringify(nil))
	require.Equal(t, "abc", stringify([]byte("abc")))
	require.Equal(t, "e", stringify(errors.New("e")))
	require.Equal(t, `{"a":1}`, stringify(map[string]int{"a": 1}))
	require.Equal(t, "42", stringify(42))
	require.Equal(t, "Unrenderable message: nope", stringify(badStringer{}))
}

func TestResponseMsg(t *testing.T) {
	m := newTestShell(t, Config{})

	send(t, m, ResponseMsg{Text: "bg\n"})

	require.Equal(t, "bg\n> ", m.doc.Value())
}

func TestClear(t *testing.T) {
	m := newTestShell(t, Config{})
	m.Clear()
	require.Equal(t, "> ", m.doc.Value())

	enter(t, m, "a")
	typeText(t, m, "b")
	m.Clear()

	require.Equal(t, "> b", m.doc.Value())
	require.Equal(t, 2, m.promptLen)
	requireCaretEditable(t, m)
}

func TestInsertNode(t *testing.T) {
	m := newTestShell(t, Config{})

	w := m.InsertNode("first")
	require.Equal(t, 0, w.Line)

	enter(t, m, "a")
	w = m.InsertNode("second")
	require.Equal(t, 1, w.Line)
	require.Contains(t, m.Content(), "second")
}

func TestQueries(t *testing.T) {
	m := newTestShell(t, Config{Width: 40})
	enter(t, m, "abc")

	require.Equal(t, 38, m.WidthInChars())

	m.doc.SetSelection(editor.P(0, 2), editor.P(0, 5))
	require.Equal(t, []string{"abc"}, m.Selections())

	line, ch := m.CaretLine()
	require.Equal(t, "> abc", line)
	require.Equal(t, 5, ch)

	_, pos := m.CurrentLine()
	require.Equal(t, -1, pos)
}

func TestSelectionExtends(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "abc")

	send(t, m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	send(t, m, tea.KeyMsg{Type: tea.KeyShiftLeft})

	require.Equal(t, []string{"bc"}, m.Selections())

	typeText(t, m, "Z")
	require.Equal(t, "> aZ", m.doc.Value())
}

func hint(_ context.Context, line string, pos int) ([]string, int) {
	word := line[:pos]
	if i := strings.LastIndex(word, " "); i >= 0 {
		word = word[i+1:]
	}
	var out []string
	for _, c := range []string{"print", "pairs", "pcall", "table"} {
		if strings.HasPrefix(c, word) {
			out = append(out, c)
		}
	}
	return out, pos - len(word)
}

func TestComplete_SingleApplied(t *testing.T) {
	m := newTestShell(t, Config{Hint: hint})
	typeText(t, m, "x ta")

	press(t, m, tea.KeyTab)

	require.Equal(t, "> x table", m.doc.Value())
	require.Nil(t, m.CompletionItems())
}

func TestComplete_PopupSelectAndAccept(t *testing.T) {
	m := newTestShell(t, Config{Hint: hint})
	typeText(t, m, "p")

	press(t, m, tea.KeyTab)
	require.Equal(t, []string{"print", "pairs", "pcall"}, m.CompletionItems())
	require.Contains(t, m.View(), "pcall")

	typeText(t, m, "a")
	require.Equal(t, []string{"pairs"}, m.CompletionItems())

	press(t, m, tea.KeyEnter)
	require.Equal(t, "> pairs", m.doc.Value())
	require.Nil(t, m.CompletionItems())
	require.Empty(t, m.History())
}

func TestComplete_PopupNavigationAndClose(t *testing.T) {
	m := newTestShell(t, Config{Hint: hint})
	typeText(t, m, "p")
	press(t, m, tea.KeyTab)

	press(t, m, tea.KeyDown)
	press(t, m, tea.KeyDown)
	press(t, m, tea.KeyDown)
	require.Equal(t, 0, m.completion.selected)
	press(t, m, tea.KeyUp)
	require.Equal(t, 2, m.completion.selected)

	press(t, m, tea.KeyEsc)
	require.Nil(t, m.CompletionItems())
	require.Equal(t, "> p", m.doc.Value())
}

func TestComplete_NoHint(t *testing.T) {
	m := newTestShell(t, Config{})
	typeText(t, m, "p")

	press(t, m, tea.KeyTab)

	require.Equal(t, "> p", m.doc.Value())
}

func TestFunctionKeys(t *testing.T) {
	var got []string
	m := newTestShell(t, Config{FunctionKey: func(name string) { got = append(got, name) }})

	msgs := press(t, m, tea.KeyF3)
	press(t, m, tea.KeyEsc)

	require.Equal(t, []string{"f3", "esc"}, got)
	require.Contains(t, msgs, tea.Msg(FunctionKeyMsg{Name: "f3"}))
}

func TestBlurIgnoresKeys(t *testing.T) {
	m := newTestShell(t, Config{})
	m.Blur()

	typeText(t, m, "x")

	require.Equal(t, "> ", m.doc.Value())
	require.False(t, m.Focused())
}

func TestDropFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "my notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("print(1)"), 0o600))
	bin := filepath.Join(dir, "blob.png")
	require.NoError(t, os.WriteFile(bin, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	m := newTestShell(t, Config{DropFiles: []string{"text/*"}})

	pasteText(t, m, "'"+txt+"'")
	require.Equal(t, "> print(1)", m.doc.Value())

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	pasteText(t, m, bin)
	require.Equal(t, "> "+bin, m.doc.Value())
}

func TestDropFile_Disabled(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txt, []byte("content"), 0o600))

	m := newTestShell(t, Config{})
	pasteText(t, m, txt)

	require.Equal(t, "> "+txt, m.doc.Value())
}

func TestMatchType(t *testing.T) {
	require.True(t, matchType([]string{"text/plain"}, "text/plain"))
	require.True(t, matchType([]string{"TEXT/*"}, "text/x-lua"))
	require.True(t, matchType([]string{"*/*"}, "image/png"))
	require.False(t, matchType([]string{"text/*"}, "image/png"))
	require.False(t, matchType([]string{"text/*"}, ""))
}

func TestView_ScrollsToPrompt(t *testing.T) {
	m := newTestShell(t, Config{Height: 3})

	for i := range 6 {
		enter(t, m, strings.Repeat("x", i+1))
	}

	require.Positive(t, m.ScrollOffset())
	require.Contains(t, m.View(), "> ")
	require.Contains(t, m.View(), "xxxxxx")
}
