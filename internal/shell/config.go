// Package shell turns the editor document into an interactive console: it
// owns the prompt, keeps the caret inside the editable region, hands command
// lines to an execution callback and renders the responses inline.
package shell

import (
	"context"

	"github.com/zjrosen/replshell/internal/editor"
	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/history"
)

// State is the execution state.
type State string

const (
	// StateEdit accepts input.
	StateEdit State = "EDIT"
	// StateExec waits for the execution callback. Input and pastes are refused.
	StateExec State = "EXEC"
)

// Default prompts.
const (
	DefaultInitialPrompt      = "> "
	DefaultContinuationPrompt = "+ "
)

// ExecFunc runs the buffered command lines. A nil result selects the
// initial prompt without output.
type ExecFunc func(ctx context.Context, lines []string) (*engine.Result, error)

// HintFunc returns completion candidates for line with the caret at pos
// (both relative to the prompt). start is where the replaced text begins.
type HintFunc func(ctx context.Context, line string, pos int) (list []string, start int)

// Config configures a shell.
type Config struct {
	InitialPrompt      string
	ContinuationPrompt string

	// Exec defaults to the echo executor.
	Exec ExecFunc
	// Hint enables tab completion.
	Hint HintFunc

	// FunctionKey is called with the key name for each of FunctionKeys.
	FunctionKey  func(name string)
	FunctionKeys []string

	// Mode names a chroma lexer for the syntax overlay; Lexer overrides it.
	Mode        string
	SyntaxStyle string
	Lexer       editor.Lexer

	// DropFiles lists MIME types (e.g. "text/plain", "text/*") whose files
	// are inserted by content when their path is pasted.
	DropFiles []string

	// History is used as is when set; otherwise one is built from
	// HistoryOptions.
	History        *history.History
	HistoryOptions history.Options
	// SkipRestore leaves the stored history unloaded.
	SkipRestore bool

	// MarkdownStyle is the glamour style for markdown results.
	MarkdownStyle string

	Width  int
	Height int

	Context context.Context
	Debug   bool
}

func (c Config) withDefaults() Config {
	if c.InitialPrompt == "" {
		c.InitialPrompt = DefaultInitialPrompt
	}
	if c.ContinuationPrompt == "" {
		c.ContinuationPrompt = DefaultContinuationPrompt
	}
	if c.Exec == nil {
		c.Exec = engine.Echo{}.Exec
	}
	if len(c.FunctionKeys) == 0 {
		c.FunctionKeys = []string{"esc", "f3"}
	}
	if c.Context == nil {
		c.Context = context.Background()
	}
	return c
}
