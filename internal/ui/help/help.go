package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit (press twice with unsaved changes)"},
		{"Esc/Enter", "Dismiss notice"},
		{"Ctrl+S", "Save"},
		{"Ctrl+W", "Save as"},
		{"Ctrl+E", "Export as JSON or CSV"},
		{"Ctrl+O", "Open file"},
		{"Ctrl+R", "Recent files"},
		{"Ctrl+L", "Reload from disk"},
		{"p", "Toggle XML preview"},
		{"J/K", "Scroll XML preview"},
		{"c", "Copy XML preview"},
	}
}

// GetNavigationKeys returns navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"g/G", "Jump to first/last row"},
		{"←/h", "Collapse"},
		{"→/l", "Expand"},
		{"PgUp/PgDn", "Page up/down"},
		{"Space", "Toggle expansion"},
		{"/", "Search (prefix with string:, int:, dict: ... to filter by type, ! to negate)"},
		{"n/N", "Next/previous match"},
	}
}

// GetEditingKeys returns value editing key bindings
func GetEditingKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter, e", "Edit value (toggles booleans)"},
		{"r, F2", "Rename key"},
		{"+/-", "Step real value"},
		{"t", "Change type"},
		{"Enter", "Commit edit (blocked while invalid)"},
		{"Esc", "Cancel edit"},
		{"y", "Copy value"},
		{"Y", "Copy path"},
	}
}

// GetStructureKeys returns structural editing key bindings
func GetStructureKeys() []KeyBinding {
	return []KeyBinding{
		{"m, .", "Open context menu"},
		{"a", "Add child"},
		{"s", "Sort keys"},
		{"d", "Duplicate"},
		{"x, Delete", "Remove"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Editing", GetEditingKeys()},
		{"Structure", GetStructureKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("lazyplist - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
