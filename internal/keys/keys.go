// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ShellKeyMap defines the keybindings of the shell widget.
type ShellKeyMap struct {
	// History
	HistoryPrev key.Binding
	HistoryNext key.Binding

	// Caret
	Left      key.Binding
	Right     key.Binding
	WordLeft  key.Binding
	WordRight key.Binding
	Home      key.Binding
	End       key.Binding

	// Selection
	SelectLeft  key.Binding
	SelectRight key.Binding

	// Editing
	Backspace  key.Binding
	Delete     key.Binding
	KillLine   key.Binding
	DeleteWord key.Binding

	// Actions
	Execute  key.Binding
	Complete key.Binding
	Cancel   key.Binding

	// Forwarded to the host's function key callback
	FunctionKeys key.Binding
}

// CompletionKeyMap defines the keybindings of the completion popup.
type CompletionKeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Accept key.Binding
	Close  key.Binding
}

// AppKeyMap defines the keybindings of the application frame.
type AppKeyMap struct {
	Help       key.Binding
	ClearLogs  key.Binding
	CloseLogs  key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

// Shell holds the shell keybindings.
var Shell = ShellKeyMap{
	HistoryPrev: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	HistoryNext: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "ctrl+b"),
		key.WithHelp("←", "caret left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "ctrl+f"),
		key.WithHelp("→", "caret right"),
	),
	WordLeft: key.NewBinding(
		key.WithKeys("ctrl+left", "alt+left", "alt+b"),
		key.WithHelp("ctrl+←", "word left"),
	),
	WordRight: key.NewBinding(
		key.WithKeys("ctrl+right", "alt+right", "alt+f"),
		key.WithHelp("ctrl+→", "word right"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "ctrl+a"),
		key.WithHelp("home", "line start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "ctrl+e"),
		key.WithHelp("end", "line end"),
	),
	SelectLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←", "extend selection left"),
	),
	SelectRight: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("shift+→", "extend selection right"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("⌫", "delete back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete"),
		key.WithHelp("del", "delete forward"),
	),
	KillLine: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear line"),
	),
	DeleteWord: key.NewBinding(
		key.WithKeys("ctrl+w", "alt+backspace"),
		key.WithHelp("ctrl+w", "delete word"),
	),
	Execute: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	Complete: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "complete"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "cancel line"),
	),
	FunctionKeys: key.NewBinding(
		key.WithKeys("esc", "f3"),
		key.WithHelp("f3", "logs"),
	),
}

// Completion holds the completion popup keybindings.
var Completion = CompletionKeyMap{
	Prev: key.NewBinding(
		key.WithKeys("up", "ctrl+p", "shift+tab"),
		key.WithHelp("↑", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "tab"),
		key.WithHelp("↓/tab", "next"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "accept"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// App holds the application frame keybindings.
var App = AppKeyMap{
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "toggle help"),
	),
	ClearLogs: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear logs"),
	),
	CloseLogs: key.NewBinding(
		key.WithKeys("esc", "f3", "q"),
		key.WithHelp("esc", "close logs"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup", "shift+up"),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown", "shift+down"),
		key.WithHelp("pgdn", "scroll down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
}

// WithFunctionKeys returns a copy of the map forwarding keys to the host.
func (k ShellKeyMap) WithFunctionKeys(names ...string) ShellKeyMap {
	if len(names) == 0 {
		return k
	}
	k.FunctionKeys = key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(names[0], "function key"),
	)
	return k
}

// ShortHelp returns keybindings for the short help view.
func (k AppKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{Shell.Execute, Shell.Complete, Shell.FunctionKeys, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k AppKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Shell
		{Shell.Execute, Shell.Complete, Shell.Cancel, Shell.HistoryPrev, Shell.HistoryNext},
		// Caret
		{Shell.Left, Shell.Right, Shell.WordLeft, Shell.WordRight, Shell.Home, Shell.End},
		// Editing
		{Shell.Backspace, Shell.Delete, Shell.KillLine, Shell.DeleteWord},
		// General
		{Shell.FunctionKeys, k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
