package styles

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback run after ApplyTheme updates colors.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration: defaults, then the
// preset, then individual overrides.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	targets := map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:        &TextPrimaryColor,
		TokenTextSecondary:      &TextSecondaryColor,
		TokenTextMuted:          &TextMutedColor,
		TokenBorderDefault:      &BorderDefaultColor,
		TokenBorderFocus:        &BorderFocusColor,
		TokenStatusSuccess:      &StatusSuccessColor,
		TokenStatusWarning:      &StatusWarningColor,
		TokenStatusError:        &StatusErrorColor,
		TokenStatusInfo:         &StatusInfoColor,
		TokenPrompt:             &PromptColor,
		TokenContinuation:       &ContinuationColor,
		TokenOutput:             &OutputColor,
		TokenSelectionBg:        &SelectionBgColor,
		TokenWidget:             &WidgetColor,
		TokenCompletionBg:       &CompletionBgColor,
		TokenCompletionSelected: &CompletionSelectedColor,
		TokenOverlayTitle:       &OverlayTitleColor,
		TokenOverlayBorder:      &OverlayBorderColor,
		TokenSpinner:            &SpinnerColor,
	}
	for token, hex := range colors {
		if dst, ok := targets[token]; ok {
			*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}

func rebuildStyles() {
	PromptStyle = lipgloss.NewStyle().Foreground(PromptColor).Bold(true)
	ContinuationStyle = lipgloss.NewStyle().Foreground(ContinuationColor)
	SelectionStyle = lipgloss.NewStyle().Background(SelectionBgColor)
	WidgetStyle = lipgloss.NewStyle().Foreground(WidgetColor)

	CompletionStyle = lipgloss.NewStyle().
		Background(CompletionBgColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayBorderColor)
	CompletionItemStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Padding(0, 1)
	CompletionSelectedStyle = lipgloss.NewStyle().
		Foreground(CompletionSelectedColor).
		Bold(true).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	WarnStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	InfoStyle = lipgloss.NewStyle().Foreground(StatusInfoColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	OutputStyle = lipgloss.NewStyle().Foreground(OutputColor)

	for _, fn := range styleRebuilders {
		fn()
	}
}

// isValidHexColor accepts #RGB and #RRGGBB.
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
