package ui

// Theme is a named color palette. Colors are hex strings for lipgloss.
type Theme struct {
	Primary    string
	Secondary  string
	Subtle     string
	Background string
	Foreground string
	Error      string
	Success    string
	Warning    string
}

// Themes holds every built-in palette by name.
var Themes = map[string]Theme{
	"default": {
		Primary:    "#7D56F4",
		Secondary:  "#04B575",
		Subtle:     "#737373",
		Background: "#1A1A1A",
		Foreground: "#FAFAFA",
		Error:      "#FF5F87",
		Success:    "#04B575",
		Warning:    "#FFB86C",
	},
	"catppuccin": {
		Primary:    "#CBA6F7",
		Secondary:  "#94E2D5",
		Subtle:     "#6C7086",
		Background: "#1E1E2E",
		Foreground: "#CDD6F4",
		Error:      "#F38BA8",
		Success:    "#A6E3A1",
		Warning:    "#F9E2AF",
	},
	"dracula": {
		Primary:    "#BD93F9",
		Secondary:  "#8BE9FD",
		Subtle:     "#6272A4",
		Background: "#282A36",
		Foreground: "#F8F8F2",
		Error:      "#FF5555",
		Success:    "#50FA7B",
		Warning:    "#FFB86C",
	},
	"nord": {
		Primary:    "#88C0D0",
		Secondary:  "#A3BE8C",
		Subtle:     "#4C566A",
		Background: "#2E3440",
		Foreground: "#ECEFF4",
		Error:      "#BF616A",
		Success:    "#A3BE8C",
		Warning:    "#EBCB8B",
	},
	"gruvbox": {
		Primary:    "#FE8019",
		Secondary:  "#B8BB26",
		Subtle:     "#928374",
		Background: "#282828",
		Foreground: "#EBDBB2",
		Error:      "#FB4934",
		Success:    "#B8BB26",
		Warning:    "#FABD2F",
	},
}

var themeOrder = []string{"default", "catppuccin", "dracula", "nord", "gruvbox"}

// GetThemeNames returns theme names in cycling order.
func GetThemeNames() []string {
	names := make([]string, len(themeOrder))
	copy(names, themeOrder)
	return names
}
