package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Panel represents a bordered UI panel with a title line
type Panel struct {
	Title   string
	Status  string // right-aligned on the title line
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// InnerSize returns the content area left inside borders and the title line
func (p *Panel) InnerSize() (int, int) {
	w := p.Width - 2
	h := p.Height - 2
	if p.Title != "" || p.Status != "" {
		h--
	}
	return max(w, 0), max(h, 0)
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	style := p.Style.
		Width(p.Width - 2).
		Height(p.Height - 2).
		Border(lipgloss.RoundedBorder())

	content := p.Content
	if p.Title != "" || p.Status != "" {
		innerWidth := p.Width - 2
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		title := titleStyle.Render(p.Title)
		status := lipgloss.NewStyle().Faint(true).Render(p.Status)
		gap := innerWidth - lipgloss.Width(title) - runewidth.StringWidth(p.Status)
		if gap < 1 {
			gap = 1
		}
		content = title + strings.Repeat(" ", gap) + status + "\n" + content
	}

	return style.Render(content)
}
