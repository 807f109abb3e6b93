// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"
	TokenStatusInfo    ColorToken = "status.info"

	// Shell
	TokenPrompt       ColorToken = "shell.prompt"
	TokenContinuation ColorToken = "shell.continuation"
	TokenOutput       ColorToken = "shell.output"
	TokenSelectionBg  ColorToken = "shell.selection"
	TokenWidget       ColorToken = "shell.widget"

	// Completion popup
	TokenCompletionBg       ColorToken = "completion.bg"
	TokenCompletionSelected ColorToken = "completion.selected"

	// Overlays
	TokenOverlayTitle  ColorToken = "overlay.title"
	TokenOverlayBorder ColorToken = "overlay.border"

	// Spinner
	TokenSpinner ColorToken = "spinner"
)

// AllTokens lists every token, in config documentation order.
var AllTokens = []ColorToken{
	TokenTextPrimary, TokenTextSecondary, TokenTextMuted,
	TokenBorderDefault, TokenBorderFocus,
	TokenStatusSuccess, TokenStatusWarning, TokenStatusError, TokenStatusInfo,
	TokenPrompt, TokenContinuation, TokenOutput, TokenSelectionBg, TokenWidget,
	TokenCompletionBg, TokenCompletionSelected,
	TokenOverlayTitle, TokenOverlayBorder,
	TokenSpinner,
}

func isValidToken(t ColorToken) bool {
	for _, known := range AllTokens {
		if known == t {
			return true
		}
	}
	return false
}
