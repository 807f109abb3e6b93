package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, e *Lua, lines ...string) *Result {
	t.Helper()
	res, err := e.Exec(context.Background(), lines)
	require.NoError(t, err)
	return res
}

func TestLua_Expression(t *testing.T) {
	e := NewLua()
	res := run(t, e, "1 + 2")
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, "3\n", res.Output)
}

func TestLua_EqualsShorthand(t *testing.T) {
	res := run(t, NewLua(), "= 'a', 'b'")
	require.Equal(t, "a\tb\n", res.Output)
}

func TestLua_GlobalsPersist(t *testing.T) {
	e := NewLua()
	res := run(t, e, "x = 41")
	require.Equal(t, StatusOK, res.Status)
	require.Empty(t, res.Output)

	res = run(t, e, "x + 1")
	require.Equal(t, "42\n", res.Output)
}

func TestLua_PrintCaptured(t *testing.T) {
	res := run(t, NewLua(), "print('hi', 2, nil)")
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, "hi\t2\tnil\n", res.Output)
}

func TestLua_Incomplete(t *testing.T) {
	e := NewLua()
	res := run(t, e, "for i = 1, 2 do")
	require.Equal(t, StatusIncomplete, res.Status)

	res = run(t, e, "for i = 1, 2 do", "print(i)")
	require.Equal(t, StatusIncomplete, res.Status)

	res = run(t, e, "for i = 1, 2 do", "print(i)", "end")
	require.Equal(t, StatusOK, res.Status)
	require.Equal(t, "1\n2\n", res.Output)
}

func TestLua_ParseError(t *testing.T) {
	res := run(t, NewLua(), "x = = 1")
	require.Equal(t, StatusParseError, res.Status)
	require.Equal(t, "error", res.Class)
	require.NotEmpty(t, res.Output)
}

func TestLua_RuntimeError(t *testing.T) {
	res := run(t, NewLua(), "print('before')", "error('boom')")
	require.Equal(t, StatusErr, res.Status)
	require.Contains(t, res.Output, "before\n")
	require.Contains(t, res.Output, "boom")
}

func TestLua_StackBalanced(t *testing.T) {
	e := NewLua()
	for range 5 {
		run(t, e, "1, 2, 3")
		run(t, e, "x = = 1")
		run(t, e, "error('x')")
	}
	require.Equal(t, 0, e.l.Top())
}

func TestLua_Blank(t *testing.T) {
	res := run(t, NewLua(), "")
	require.Equal(t, StatusOK, res.Status)
	require.Empty(t, res.Output)
}

func TestLua_CompleteGlobals(t *testing.T) {
	e := NewLua()
	run(t, e, "prefix_one = 1; prefix_two = 2")

	list, start := e.Complete(context.Background(), "x = prefix_", 11)
	require.Equal(t, []string{"prefix_one", "prefix_two"}, list)
	require.Equal(t, 4, start)
}

func TestLua_CompleteFields(t *testing.T) {
	e := NewLua()
	list, start := e.Complete(context.Background(), "string.up", 9)
	require.Equal(t, []string{"upper"}, list)
	require.Equal(t, 7, start)

	run(t, e, "t = { inner = { alpha = 1, beta = 2 } }")
	list, start = e.Complete(context.Background(), "t.inner.", 8)
	require.Equal(t, []string{"alpha", "beta"}, list)
	require.Equal(t, 8, start)
}

func TestLua_CompleteKeywords(t *testing.T) {
	list, _ := NewLua().Complete(context.Background(), "whi", 3)
	require.Contains(t, list, "while")
}

func TestLua_CompleteMissingPath(t *testing.T) {
	list, _ := NewLua().Complete(context.Background(), "nope.x", 6)
	require.Empty(t, list)
}
