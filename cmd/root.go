package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/replshell/internal/app"
	"github.com/zjrosen/replshell/internal/config"
	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/history"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/shell"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/storage/backend"
	"github.com/zjrosen/replshell/internal/tracing"
	"github.com/zjrosen/replshell/internal/ui/styles"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// reply cannot race Bubble Tea's input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".replshell/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	configPath string
	v          = newViper()
)

var rootCmd = &cobra.Command{
	Use:   "replshell",
	Short: "An interactive console with persistent history",
	Long: `replshell is a terminal console: type a command at the prompt, press enter
and the result appears inline. History is persisted between sessions and
shared with other replshell windows.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runApp,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/replshell/config.yaml)")
	pf.String("history-backend", "", "history store: file, sqlite or memory")
	pf.String("history-path", "", "history file or database path")
	pf.Bool("debug", false, "write a debug log and enable the log viewer (f3)")

	rootCmd.Flags().StringP("engine", "e", "", "execution engine: lua or echo")
	rootCmd.Flags().String("prompt", "", "initial prompt")
	rootCmd.Flags().String("continuation", "", "continuation prompt")

	bindFlags(v, rootCmd)
}

// newViper returns a viper instance using "::" as key delimiter so dotted
// theme color keys stay flat, with REPLSHELL_ environment overrides.
func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetEnvPrefix("REPLSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))
	v.AutomaticEnv()
	return v
}

func bindFlags(v *viper.Viper, c *cobra.Command) {
	_ = v.BindPFlag("engine", c.Flags().Lookup("engine"))
	_ = v.BindPFlag("prompt::initial", c.Flags().Lookup("prompt"))
	_ = v.BindPFlag("prompt::continuation", c.Flags().Lookup("continuation"))
	_ = v.BindPFlag("history::backend", c.PersistentFlags().Lookup("history-backend"))
	_ = v.BindPFlag("history::path", c.PersistentFlags().Lookup("history-path"))
	_ = v.BindPFlag("debug", c.PersistentFlags().Lookup("debug"))
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("engine", d.Engine)
	v.SetDefault("prompt::initial", d.Prompt.Initial)
	v.SetDefault("prompt::continuation", d.Prompt.Continuation)
	v.SetDefault("history::backend", d.History.Backend)
	v.SetDefault("history::path", d.History.Path)
	v.SetDefault("history::key", d.History.Key)
	v.SetDefault("history::max_entries", d.History.MaxEntries)
	v.SetDefault("history::cache_ttl", d.History.CacheTTL)
	v.SetDefault("history::watch", d.History.Watch)
	v.SetDefault("ui::show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui::markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui::syntax_style", d.UI.SyntaxStyle)
	v.SetDefault("ui::mouse", d.UI.Mouse)
	v.SetDefault("drop_files", d.DropFiles)
	v.SetDefault("function_keys", d.FunctionKeys)
	v.SetDefault("tracing::enabled", d.Tracing.Enabled)
	v.SetDefault("tracing::exporter", d.Tracing.Exporter)
	v.SetDefault("tracing::file_path", d.Tracing.FilePath)
	v.SetDefault("tracing::otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing::sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing::service_name", d.Tracing.ServiceName)
	v.SetDefault("debug", false)
}

// resolveConfigPath picks the config file when none was given:
// .replshell/config.yaml, then ~/.config/replshell/config.yaml, which is
// created with the commented defaults when missing. Empty means defaults only.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(localConfigPath); err == nil {
		return localConfigPath
	}
	dir := config.DefaultConfigDir()
	if dir == "" {
		return ""
	}
	path = filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.WriteDefaultConfig(path); err != nil {
			return ""
		}
	}
	return path
}

// loadConfig reads and validates the config. The returned path is the file
// that was read, if any.
func loadConfig(v *viper.Viper, path string) (config.Config, string, error) {
	setDefaults(v)

	path = resolveConfigPath(path)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return config.Config{}, path, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, path, fmt.Errorf("decoding config: %w", err)
	}
	if c.Tracing.FilePath == "" {
		c.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	if err := config.Validate(c); err != nil {
		return config.Config{}, path, err
	}
	return c, path, nil
}

func initConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, configPath, err = loadConfig(v, cfgFile)
	return err
}

// openHistory opens the configured store and history list.
func openHistory(c config.Config) (*history.History, storage.Store, string, error) {
	store, watch, err := backend.Open(backend.Options{
		Backend:  c.History.Backend,
		Path:     c.HistoryPath(),
		CacheTTL: c.History.CacheTTL,
	})
	if err != nil {
		return nil, nil, "", fmt.Errorf("opening history store: %w", err)
	}
	hist := history.New(history.Options{
		Store:      store,
		Key:        c.History.Key,
		MaxEntries: c.History.MaxEntries,
	})
	return hist, store, watch, nil
}

func initDebugLog() (func(), error) {
	path := "debug.log"
	if dir := config.DefaultConfigDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err == nil {
			path = filepath.Join(dir, "debug.log")
		}
	}
	return log.InitWithTeaLog(path, "replshell")
}

func runApp(_ *cobra.Command, _ []string) (err error) {
	debug := v.GetBool("debug")
	if debug {
		cleanup, logErr := initDebugLog()
		if logErr != nil {
			return fmt.Errorf("opening debug log: %w", logErr)
		}
		defer cleanup()
	} else {
		// Keep the ring buffer for the log viewer without a file
		log.InitWriter(nil, log.DefaultBufferSize)
	}

	log.Info(log.CatConfig, "config loaded", "path", configPath, "engine", cfg.Engine, "history", cfg.History.Backend)

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", shutdownErr)
		}
	}()

	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return err
	}

	hist, store, watch, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if !cfg.History.Watch {
		watch = ""
	}

	model := app.New(app.Config{
		Engine:    eng,
		History:   hist,
		Store:     store,
		WatchPath: watch,
		Shell: shell.Config{
			InitialPrompt:      cfg.Prompt.Initial,
			ContinuationPrompt: cfg.Prompt.Continuation,
			FunctionKeys:       cfg.FunctionKeys,
			Mode:               engineMode(eng),
			SyntaxStyle:        cfg.UI.SyntaxStyle,
			DropFiles:          cfg.DropFiles,
			MarkdownStyle:      cfg.UI.MarkdownStyle,
			Debug:              debug,
		},
		ShowStatusBar: cfg.UI.ShowStatusBar,
		Debug:         debug,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// engineMode names the syntax highlighting lexer for input.
func engineMode(e engine.Engine) string {
	if e.Name() == "lua" {
		return "lua"
	}
	return ""
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
