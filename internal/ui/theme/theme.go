package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Value colors, one per plist kind
	Key       lipgloss.Color
	String    lipgloss.Color
	Number    lipgloss.Color
	Boolean   lipgloss.Color
	Data      lipgloss.Color
	Date      lipgloss.Color
	Container lipgloss.Color

	// Tree colors
	Disclosure lipgloss.Color
	TypeBadge  lipgloss.Color
	Metadata   lipgloss.Color

	// SyntaxStyle is the chroma style used for the XML preview
	SyntaxStyle string
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}

// Names lists the selectable themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}
