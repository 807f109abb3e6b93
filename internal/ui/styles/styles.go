package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"} // Hints, help text, footers

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#D69E00", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D63031", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Shell
	PromptColor       = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	ContinuationColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}
	OutputColor       = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#CCCCCC"}
	SelectionBgColor  = lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#45475A"}
	WidgetColor       = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}

	// Completion popup
	CompletionBgColor       = lipgloss.AdaptiveColor{Light: "#EFF1F5", Dark: "#313244"}
	CompletionSelectedColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}
)

// Styles built from the colors above. Rebuilt by ApplyTheme.
var (
	PromptStyle       lipgloss.Style
	ContinuationStyle lipgloss.Style
	SelectionStyle    lipgloss.Style
	WidgetStyle       lipgloss.Style

	CompletionStyle         lipgloss.Style
	CompletionItemStyle     lipgloss.Style
	CompletionSelectedStyle lipgloss.Style

	StatusBarStyle lipgloss.Style
	SpinnerStyle   lipgloss.Style

	// Response classes
	ErrorStyle   lipgloss.Style
	WarnStyle    lipgloss.Style
	InfoStyle    lipgloss.Style
	SuccessStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	OutputStyle  lipgloss.Style
)

func init() {
	rebuildStyles()
}

// Response class names understood by ClassStyle.
const (
	ClassError   = "error"
	ClassWarn    = "warn"
	ClassInfo    = "info"
	ClassSuccess = "success"
	ClassMuted   = "muted"
	ClassOutput  = "output"
	ClassPrompt  = "prompt"
	ClassCont    = "continuation"
)

// ClassStyle returns the style for a response class. Unknown classes are
// left unstyled.
func ClassStyle(class string) (lipgloss.Style, bool) {
	switch class {
	case ClassError:
		return ErrorStyle, true
	case ClassWarn:
		return WarnStyle, true
	case ClassInfo:
		return InfoStyle, true
	case ClassSuccess:
		return SuccessStyle, true
	case ClassMuted:
		return MutedStyle, true
	case ClassOutput:
		return OutputStyle, true
	case ClassPrompt:
		return PromptStyle, true
	case ClassCont:
		return ContinuationStyle, true
	}
	return lipgloss.Style{}, false
}
