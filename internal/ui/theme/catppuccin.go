package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// A soothing pastel theme for cozy TUIs
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Value colors
		Key:       lipgloss.Color("#89b4fa"), // Blue
		String:    lipgloss.Color("#a6e3a1"), // Green
		Number:    lipgloss.Color("#fab387"), // Peach
		Boolean:   lipgloss.Color("#f9e2af"), // Yellow
		Data:      lipgloss.Color("#cba6f7"), // Mauve
		Date:      lipgloss.Color("#94e2d5"), // Teal
		Container: lipgloss.Color("#6c7086"), // Overlay0

		// Tree colors
		Disclosure: lipgloss.Color("#89b4fa"), // Blue
		TypeBadge:  lipgloss.Color("#a6adc8"), // Subtext0
		Metadata:   lipgloss.Color("#6c7086"), // Overlay0

		SyntaxStyle: "catppuccin-mocha",
	}
}

// Additional Catppuccin colors available for future use:
// Rosewater: #f5e0dc
// Flamingo:  #f2cdcd
// Pink:      #f5c2e7
// Mauve:     #cba6f7
// Red:       #f38ba8
// Maroon:    #eba0ac
// Peach:     #fab387
// Yellow:    #f9e2af
// Green:     #a6e3a1
// Teal:      #94e2d5
// Sky:       #89dceb
// Sapphire:  #74c7ec
// Blue:      #89b4fa
// Lavender:  #b4befe
// Text:      #cdd6f4
// Subtext1:  #bac2de
// Subtext0:  #a6adc8
// Overlay2:  #9399b2
// Overlay1:  #7f849c
// Overlay0:  #6c7086
// Surface2:  #585b70
// Surface1:  #45475a
// Surface0:  #313244
// Base:      #1e1e2e
// Mantle:    #181825
// Crust:     #11111b
