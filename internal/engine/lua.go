package engine

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/log"
)

var (
	identChain = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:[.:][A-Za-z_][A-Za-z0-9_]*)*[.:]?$|[.:]?$`)
	segments   = regexp.MustCompile(`[.:]`)
)

var luaKeywords = []string{
	"and", "break", "do", "else", "elseif", "end", "false", "for", "function",
	"goto", "if", "in", "local", "nil", "not", "or", "repeat", "return", "then",
	"true", "until", "while",
}

// Lua runs commands in one persistent Lua state, so globals survive
// between commands.
type Lua struct {
	mu  sync.Mutex
	l   *lua.State
	out strings.Builder
}

// NewLua creates a Lua engine with the standard libraries and a print that
// writes into the command's output.
func NewLua() *Lua {
	e := &Lua{l: lua.NewState()}
	lua.OpenLibraries(e.l)
	e.l.Register("print", e.print)
	return e
}

// Name implements Engine.
func (e *Lua) Name() string { return "lua" }

func (e *Lua) print(l *lua.State) int {
	n := l.Top()
	for i := 1; i <= n; i++ {
		if i > 1 {
			e.out.WriteByte('\t')
		}
		s, _ := lua.ToStringMeta(l, i)
		l.Pop(1)
		e.out.WriteString(s)
	}
	e.out.WriteByte('\n')
	return 0
}

// Exec implements Engine. The buffered lines form one chunk. Expressions
// are tried first as "return <chunk>" so their values are shown. A syntax
// error at end of input means the chunk is incomplete.
func (e *Lua) Exec(ctx context.Context, lines []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	chunk := joinLines(lines)
	if strings.TrimSpace(chunk) == "" {
		return &Result{Status: StatusOK}, nil
	}
	if rest, ok := strings.CutPrefix(strings.TrimLeft(chunk, " \t"), "="); ok {
		chunk = "return " + rest
	}

	l := e.l
	base := l.Top()
	defer l.SetTop(base)
	e.out.Reset()

	if err := lua.LoadString(l, "return "+chunk); err != nil {
		l.SetTop(base)
		if err := lua.LoadString(l, chunk); err != nil {
			msg := errorText(l)
			if incomplete(msg) {
				return &Result{Status: StatusIncomplete}, nil
			}
			log.Debug(log.CatExec, "lua parse error", "error", msg)
			return &Result{Status: StatusParseError, Output: msg + "\n", Class: "error"}, nil
		}
	}

	if err := l.ProtectedCall(0, lua.MultipleReturns, 0); err != nil {
		msg := errorText(l)
		return &Result{Status: StatusErr, Output: e.out.String() + msg + "\n", Class: "error"}, nil
	}

	var values []string
	for i := base + 1; i <= l.Top(); i++ {
		s, _ := lua.ToStringMeta(l, i)
		l.Pop(1)
		values = append(values, s)
	}
	out := e.out.String()
	if len(values) > 0 {
		out += strings.Join(values, "\t") + "\n"
	}
	return &Result{Status: StatusOK, Output: out}, nil
}

// errorText reads the error message left on top of the stack.
func errorText(l *lua.State) string {
	if msg, ok := l.ToString(-1); ok {
		return msg
	}
	return "(error object is not a string)"
}

func incomplete(msg string) bool {
	return strings.HasSuffix(strings.TrimRight(msg, `'"`), "<eof>")
}

// Complete implements Engine. It completes global names and the fields of
// tables reached through a dotted path, such as "string.f" or "t.inner.".
func (e *Lua) Complete(_ context.Context, line string, pos int) ([]string, int) {
	prefix := editor.SliceGraphemes(line, 0, pos)
	chain := identChain.FindString(prefix)
	parts := segments.Split(chain, -1)
	partial := parts[len(parts)-1]
	path := parts[:len(parts)-1]
	if chain == "" {
		path = nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	l := e.l
	base := l.Top()
	defer l.SetTop(base)

	l.PushGlobalTable()
	for _, seg := range path {
		if seg == "" || !l.IsTable(-1) {
			return nil, 0
		}
		l.Field(-1, seg)
	}
	if !l.IsTable(-1) {
		return nil, 0
	}

	var names []string
	table := l.Top()
	l.PushNil()
	for l.Next(table) {
		if l.TypeOf(-2) == lua.TypeString {
			if k, ok := l.ToString(-2); ok && strings.HasPrefix(k, partial) {
				names = append(names, k)
			}
		}
		l.Pop(1)
	}
	if len(path) == 0 && partial != "" {
		for _, kw := range luaKeywords {
			if strings.HasPrefix(kw, partial) {
				names = append(names, kw)
			}
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)
	return names, pos - len(partial)
}
