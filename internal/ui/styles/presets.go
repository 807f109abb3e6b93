package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"dracula":          DraculaPreset,
	"nord":             NordPreset,
}

// DefaultPreset matches the Dark values in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default replshell theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CCCCCC",
		TokenTextSecondary: "#BBBBBB",
		TokenTextMuted:     "#696969",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",
		TokenStatusInfo:    "#54A0FF",

		TokenPrompt:       "#CBA6F7",
		TokenContinuation: "#6C7086",
		TokenOutput:       "#CCCCCC",
		TokenSelectionBg:  "#45475A",
		TokenWidget:       "#94E2D5",

		TokenCompletionBg:       "#313244",
		TokenCompletionSelected: "#89B4FA",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenSpinner: "#FFFFFF",
	},
}

// CatppuccinMochaPreset uses the Catppuccin Mocha palette.
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Soothing pastel theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:        "#CDD6F4",
		TokenTextSecondary:      "#BAC2DE",
		TokenTextMuted:          "#6C7086",
		TokenBorderDefault:      "#45475A",
		TokenBorderFocus:        "#89B4FA",
		TokenStatusSuccess:      "#A6E3A1",
		TokenStatusWarning:      "#F9E2AF",
		TokenStatusError:        "#F38BA8",
		TokenStatusInfo:         "#89DCEB",
		TokenPrompt:             "#CBA6F7",
		TokenContinuation:       "#7F849C",
		TokenOutput:             "#CDD6F4",
		TokenSelectionBg:        "#585B70",
		TokenWidget:             "#94E2D5",
		TokenCompletionBg:       "#313244",
		TokenCompletionSelected: "#F5C2E7",
		TokenOverlayTitle:       "#CDD6F4",
		TokenOverlayBorder:      "#6C7086",
		TokenSpinner:            "#F5C2E7",
	},
}

// DraculaPreset uses the Dracula palette.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:        "#F8F8F2",
		TokenTextSecondary:      "#E2E2DC",
		TokenTextMuted:          "#6272A4",
		TokenBorderDefault:      "#44475A",
		TokenBorderFocus:        "#BD93F9",
		TokenStatusSuccess:      "#50FA7B",
		TokenStatusWarning:      "#F1FA8C",
		TokenStatusError:        "#FF5555",
		TokenStatusInfo:         "#8BE9FD",
		TokenPrompt:             "#FF79C6",
		TokenContinuation:       "#6272A4",
		TokenOutput:             "#F8F8F2",
		TokenSelectionBg:        "#44475A",
		TokenWidget:             "#8BE9FD",
		TokenCompletionBg:       "#282A36",
		TokenCompletionSelected: "#BD93F9",
		TokenOverlayTitle:       "#F8F8F2",
		TokenOverlayBorder:      "#6272A4",
		TokenSpinner:            "#FF79C6",
	},
}

// NordPreset uses the Nord palette.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:        "#ECEFF4",
		TokenTextSecondary:      "#E5E9F0",
		TokenTextMuted:          "#4C566A",
		TokenBorderDefault:      "#434C5E",
		TokenBorderFocus:        "#88C0D0",
		TokenStatusSuccess:      "#A3BE8C",
		TokenStatusWarning:      "#EBCB8B",
		TokenStatusError:        "#BF616A",
		TokenStatusInfo:         "#81A1C1",
		TokenPrompt:             "#88C0D0",
		TokenContinuation:       "#4C566A",
		TokenOutput:             "#ECEFF4",
		TokenSelectionBg:        "#434C5E",
		TokenWidget:             "#8FBCBB",
		TokenCompletionBg:       "#3B4252",
		TokenCompletionSelected: "#88C0D0",
		TokenOverlayTitle:       "#ECEFF4",
		TokenOverlayBorder:      "#4C566A",
		TokenSpinner:            "#88C0D0",
	},
}
