package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Value colors
		Key:       lipgloss.Color("117"),
		String:    lipgloss.Color("180"),
		Number:    lipgloss.Color("150"),
		Boolean:   lipgloss.Color("75"),
		Data:      lipgloss.Color("176"),
		Date:      lipgloss.Color("216"),
		Container: lipgloss.Color("244"),

		// Tree colors
		Disclosure: lipgloss.Color("62"),
		TypeBadge:  lipgloss.Color("103"),
		Metadata:   lipgloss.Color("244"),

		SyntaxStyle: "monokai",
	}
}
