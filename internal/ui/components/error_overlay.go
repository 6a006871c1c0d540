package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
)

// ErrorOverlay is a modal notice for failures such as unparsable files or
// failed saves
type ErrorOverlay struct {
	Title   string
	Message string
	Width   int
	Theme   theme.Theme
}

// NewErrorOverlay creates an empty overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Width: 60, Theme: th}
}

// SetError sets the notice content
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay box
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Error).
		Bold(true)
	msgStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(e.Width - 6)
	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ " + e.Title))
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(e.Message))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Press Esc or Enter to dismiss"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(b.String())
}
