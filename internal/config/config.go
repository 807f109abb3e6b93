// Package config provides configuration types and defaults for replshell.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/zjrosen/replshell/internal/engine"
	"github.com/zjrosen/replshell/internal/history"
	"github.com/zjrosen/replshell/internal/log"
	"github.com/zjrosen/replshell/internal/storage"
	"github.com/zjrosen/replshell/internal/tracing"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for replshell.
type Config struct {
	Engine       string         `mapstructure:"engine"`
	Prompt       PromptConfig   `mapstructure:"prompt"`
	History      HistoryConfig  `mapstructure:"history"`
	UI           UIConfig       `mapstructure:"ui"`
	Theme        ThemeConfig    `mapstructure:"theme"`
	DropFiles    []string       `mapstructure:"drop_files"`
	FunctionKeys []string       `mapstructure:"function_keys"`
	Tracing      tracing.Config `mapstructure:"tracing"`
}

// PromptConfig holds the two prompts.
type PromptConfig struct {
	Initial      string `mapstructure:"initial"`
	Continuation string `mapstructure:"continuation"`
}

// HistoryConfig selects where command history is persisted.
type HistoryConfig struct {
	// Backend is "file" (default), "sqlite" or "memory".
	Backend string `mapstructure:"backend"`
	// Path is the history file or database. Empty derives one from the
	// config directory.
	Path       string        `mapstructure:"path"`
	Key        string        `mapstructure:"key"`
	MaxEntries int           `mapstructure:"max_entries"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	// Watch reloads history written by other replshell instances.
	Watch bool `mapstructure:"watch"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	SyntaxStyle   string `mapstructure:"syntax_style"`   // chroma style for input highlighting
	Mouse         bool   `mapstructure:"mouse"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "dracula", "nord"
	Preset string `mapstructure:"preset"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     shell:
	//       prompt: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "shell.prompt": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DefaultConfigDir returns ~/.config/replshell, or "" if the home directory
// is unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "replshell")
}

// DefaultHistoryPath returns the history location for backend inside the
// config directory.
func DefaultHistoryPath(backend string) string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	if backend == storage.BackendSQLite {
		return filepath.Join(dir, "history.db")
	}
	return filepath.Join(dir, "history.json")
}

// DefaultTracesFilePath returns ~/.config/replshell/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// HistoryPath returns the configured path or the backend default.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return DefaultHistoryPath(c.History.Backend)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Engine: "lua",
		Prompt: PromptConfig{
			Initial:      "> ",
			Continuation: "+ ",
		},
		History: HistoryConfig{
			Backend:    storage.BackendFile,
			Key:        history.DefaultKey,
			MaxEntries: history.DefaultMaxEntries,
			CacheTTL:   0,
			Watch:      true,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			SyntaxStyle:   "monokai",
			Mouse:         true,
		},
		DropFiles:    []string{"text/*", "application/json"},
		FunctionKeys: []string{"esc", "f3"},
		Tracing:      tracing.DefaultConfig(),
	}
}

// Validate checks every section.
func Validate(c Config) error {
	return errors.Join(
		ValidateEngine(c.Engine),
		ValidatePrompt(c.Prompt),
		ValidateHistory(c.History),
		ValidateTracing(c.Tracing),
	)
}

// ValidateEngine checks that name is a known engine. Empty means the default.
func ValidateEngine(name string) error {
	if name == "" || slices.Contains(engine.Names(), name) {
		return nil
	}
	return fmt.Errorf("%w: engine must be one of %v, got %q", ErrInvalid, engine.Names(), name)
}

// ValidatePrompt rejects prompts spanning lines.
func ValidatePrompt(p PromptConfig) error {
	for name, v := range map[string]string{"initial": p.Initial, "continuation": p.Continuation} {
		for _, r := range v {
			if r == '\n' || r == '\r' {
				return fmt.Errorf("%w: prompt.%s must be a single line", ErrInvalid, name)
			}
		}
	}
	return nil
}

// ValidateHistory checks the history section.
func ValidateHistory(h HistoryConfig) error {
	if h.Backend != "" && !storage.ValidBackend(h.Backend) {
		return fmt.Errorf("%w: history.backend must be \"file\", \"sqlite\" or \"memory\", got %q", ErrInvalid, h.Backend)
	}
	if h.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries must not be negative, got %d", ErrInvalid, h.MaxEntries)
	}
	if h.CacheTTL < 0 {
		return fmt.Errorf("%w: history.cache_ttl must not be negative, got %s", ErrInvalid, h.CacheTTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalid, t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", ErrInvalid, t.Exporter)
		}
	}

	// Paths only matter when tracing is on
	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalid)
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# replshell configuration

# Execution engine: "lua" (default) or "echo"
engine: lua

# Prompts shown before a new command and before continuation lines
prompt:
  initial: "> "
  continuation: "+ "

# Command history
history:
  backend: file          # file (default), sqlite or memory
  # path: ~/.config/replshell/history.json
  key: shell.history     # store key the history list is saved under
  max_entries: 2500      # oldest entries are dropped beyond this
  # cache_ttl: 30s       # read-through cache for file/sqlite backends
  watch: true            # pick up history written by other replshell windows

# UI settings
ui:
  show_status_bar: true
  markdown_style: dark   # markdown rendering style: "dark" (default) or "light"
  syntax_style: monokai  # chroma style used to highlight input
  mouse: true

# Pasting the path of a file with one of these types inserts its content
drop_files:
  - text/*
  - application/json

# Keys forwarded to the function key handler (f3 toggles the log viewer)
function_keys: [esc, f3]

# Theme configuration
theme:
  # preset: catppuccin-mocha
  #
  # Available presets: default, catppuccin-mocha, dracula, nord
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   shell.prompt: "#89B4FA"
  #   status.error: "#FF0000"

# Tracing (OpenTelemetry), one span per executed command and history save
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/replshell/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
