// Package app contains the root application model: the shell plus its
// status bar, key help, log overlay and cross-instance history sync.
package app

import (
	"context"
	"fmt"

	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/history"
	"github.com/zjrosen/replshell/internal/keys"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/pubsub"
	"github.com/zjrosen/replshell/internal/shell"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/tracing"
	"github.com/zjrosen/replshell/internal/ui/help"
	"github.com/zjrosen/replshell/internal/ui/shared/logoverlay"
	"github.com/zjrosen/replshell/internal/ui/styles"
	"github.com/zjrosen/replshell/internal/ui/toaster"
	"github.com/zjrosen/replshell/internal/watcher"
)

// LogsKey is the function key that toggles the log overlay.
const LogsKey = "f3"

// Config wires the application.
type Config struct {
	// Engine executes commands. Nil uses the echo engine.
	Engine engine.Engine
	// Shell carries prompts, paste and display options. Its Exec, Hint and
	// History fields are filled in by New.
	Shell shell.Config
	// History is shared with the CLI subcommands. Nil keeps history in memory.
	History *history.History
	// Store is invalidated when the watcher reports an external change.
	Store storage.Store
	// WatchPath is the store file to watch. Empty disables syncing.
	WatchPath string

	ShowStatusBar bool
	Debug         bool
}

// Model is the root application state.
type Model struct {
	shell   *shell.Model
	engine  engine.Engine
	hist    *history.History
	store   storage.Store
	spinner spinner.Model
	hints   bubbleshelp.Model
	help    help.Model

	width      int
	height     int
	showHelp   bool
	showStatus bool
	debugMode  bool
	toaster    toaster.Model

	logOverlay  logoverlay.Model
	logListener *log.LogListener

	ctx             context.Context
	cancel          context.CancelFunc
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[string]
}

// New creates the application model.
func New(cfg Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	eng := cfg.Engine
	if eng == nil {
		eng = engine.Echo{}
	}
	hist := cfg.History
	if hist == nil {
		hist = history.New(history.Options{})
	}

	meta := engine.WithMeta(eng, hist.Entries)
	sc := cfg.Shell
	sc.Context = ctx
	sc.History = hist
	sc.Exec = func(ctx context.Context, lines []string) (*engine.Result, error) {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String(tracing.AttrEngine, eng.Name()))
		return meta.Exec(ctx, lines)
	}
	sc.Hint = meta.Complete

	m := Model{
		shell:      shell.New(sc),
		engine:     eng,
		hist:       hist,
		store:      cfg.Store,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.SpinnerStyle)),
		hints:      bubbleshelp.New(),
		help:       help.New(),
		showStatus: cfg.ShowStatusBar,
		debugMode:  cfg.Debug,
		logOverlay: logoverlay.New(0, 0),
		toaster:    toaster.New(),
		ctx:        ctx,
		cancel:     cancel,
	}

	if cfg.Debug {
		m.logListener = log.NewListener(ctx)
	}

	// The app works fine without syncing, so watcher failures only log.
	if cfg.WatchPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(cfg.WatchPath))
		if err == nil {
			m.watcherListener = w.Subscribe(ctx)
			if err := w.Start(); err == nil {
				m.watcherHandle = w
			} else {
				log.ErrorErr(log.CatWatcher, "starting watcher failed", err)
				m.watcherListener = nil
				_ = w.Stop()
			}
		} else {
			log.ErrorErr(log.CatWatcher, "creating watcher failed", err)
		}
	}
	return m
}

// Shell returns the shell widget.
func (m Model) Shell() *shell.Model {
	return m.shell
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.shell.Init()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.hints.Width = msg.Width / 2
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case pubsub.Event[string]:
		// Log entries and store events share the event payload type.
		if msg.Type == pubsub.LogAppended {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			if m.logListener != nil {
				cmd = tea.Batch(cmd, m.logListener.Listen())
			}
			return m, cmd
		}
		cmd := m.handleStoreEvent(msg)
		if m.watcherListener != nil {
			cmd = tea.Batch(cmd, m.watcherListener.Listen())
		}
		return m, cmd

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil

	case shell.FunctionKeyMsg:
		if msg.Name == LogsKey {
			m.logOverlay.Toggle()
		}
		return m, nil

	case shell.HistorySavedMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show("History not saved: "+msg.Err.Error(), toaster.StyleError, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if m.shell.State() != shell.StateExec {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			switch {
			case key.Matches(msg, keys.App.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.App.Help), msg.Type == tea.KeyEsc:
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.App.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.App.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, keys.App.ScrollUp):
			m.shell.ScrollBy(-max(m.shellHeight()/2, 1))
			return m, nil
		case key.Matches(msg, keys.App.ScrollDown):
			m.shell.ScrollBy(max(m.shellHeight()/2, 1))
			return m, nil
		}
	}

	before := m.shell.State()
	var cmd tea.Cmd
	m.shell, cmd = m.shell.Update(msg)
	if before == shell.StateEdit && m.shell.State() == shell.StateExec {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// handleStoreEvent reloads history another instance wrote.
func (m *Model) handleStoreEvent(ev pubsub.Event[string]) tea.Cmd {
	var cmd tea.Cmd
	switch ev.Type {
	case pubsub.StoreChanged:
		if m.store == nil {
			return nil
		}
		// The queued save writes our newer list over whatever is stored.
		if m.hist.Pending() {
			log.Debug(log.CatWatcher, "history save pending; skipping reload", "path", ev.Payload)
			return nil
		}
		if c, ok := m.store.(*storage.Cached); ok {
			c.Invalidate(m.ctx)
		}
		entries, err := history.Load(m.ctx, m.store, m.hist.Key())
		if err != nil {
			log.ErrorErr(log.CatHistory, "reloading history failed", err)
			return nil
		}
		// Our own saves come back through the watcher too.
		if m.hist.InSync(entries) {
			return nil
		}
		m.hist.Replace(entries)
		log.Info(log.CatWatcher, "history reloaded", "path", ev.Payload, "entries", m.hist.Len())
		m.toaster, cmd = m.toaster.Show(fmt.Sprintf("History reloaded (%d entries)", m.hist.Len()), toaster.StyleInfo, toaster.DefaultDuration)
	case pubsub.StoreRemoved:
		log.Warn(log.CatWatcher, "history file removed; keeping in-memory history", "path", ev.Payload)
		m.toaster, cmd = m.toaster.Show("History file removed; keeping this session's history", toaster.StyleWarn, toaster.DefaultDuration)
	}
	return cmd
}

func (m *Model) layout() {
	m.shell.SetSize(m.width, m.shellHeight())
}

func (m Model) shellHeight() int {
	h := m.height
	if m.showStatus {
		h--
	}
	return max(h, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.shell.View()
	if m.showStatus {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.statusBar())
	}
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	view = m.toaster.Overlay(view, m.width, m.height)
	view = m.logOverlay.Overlay(view)
	return zone.Scan(view)
}

func (m Model) statusBar() string {
	state := string(m.shell.State())
	if m.shell.State() == shell.StateExec {
		state = m.spinner.View() + " " + state
	}
	left := styles.StatusBarStyle.Render(fmt.Sprintf(" %s  %s ", state, m.engine.Name()))

	right := styles.MutedStyle.Render(fmt.Sprintf("history %d  ", m.hist.Len())) + m.hints.View(keys.App)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.TruncateString(left+fmt.Sprintf("%*s", gap, "")+right, max(m.width, 1))
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
