package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyplist/internal/ui/help"
)

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.showHelp {
		return help.Render(a.width, a.height, a.theme)
	}

	if a.popup != nil {
		return zone.Scan(lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.popup.View(),
		))
	}

	return zone.Scan(a.renderNormalView())
}

// renderNormalView renders the tree with its bars, preview and prompt
func (a *App) renderNormalView() string {
	// Top bar: file name, dirty marker and format
	name := a.doc.Name()
	if a.doc.Dirty() {
		name += " ●"
	}
	topBarRight := a.doc.Format().String()
	if a.watcher != nil {
		topBarRight += " · watching"
	}
	topBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Bold(true).
		Padding(0, 2).
		Render(a.formatStatusBar("lazyplist  "+name, topBarRight))

	// Bottom bar: status message or key hints
	bottomLeft := a.status
	if bottomLeft == "" {
		bottomLeft = "[?] Help | [m] Menu | [t] Type | [Ctrl+S] Save | [q] Quit"
	}
	if a.editing != nil {
		bottomLeft = "[Enter] Commit | [Esc] Cancel"
		if a.status != "" {
			bottomLeft = a.status + " | " + bottomLeft
		}
	}
	bottomRight := ""
	if len(a.treeView.Rows) > 0 {
		bottomRight = fmt.Sprintf("%d/%d", a.treeView.CursorIndex+1, len(a.treeView.Rows))
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomLeft, bottomRight))

	// Tree panel
	if a.editing != nil {
		e := *a.editing
		e.View = a.editInput.View()
		a.treeView.Edit = &e
	} else {
		a.treeView.Edit = nil
	}
	a.treePanel.Title = a.doc.Name()
	if row, ok := a.treeView.CurrentRow(); ok {
		a.treePanel.Status = row.Path.String()
	}
	a.treePanel.Content = a.treeView.View()

	parts := []string{topBar, a.treePanel.View()}
	if a.preview.Visible {
		parts = append(parts, a.preview.View())
	}
	if a.prompt.Visible {
		parts = append(parts, a.prompt.View())
	}
	parts = append(parts, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// promptHeight is the height of the prompt box when visible
const promptHeight = 4

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.width <= 0 || a.height <= 0 {
		return
	}

	a.preview.Width = a.width
	a.preview.MaxHeight = a.height / 3
	a.prompt.Width = a.width - 2

	// Reserve space for top and bottom bars
	contentHeight := a.height - 2 - a.preview.Height()
	if a.prompt.Visible {
		contentHeight -= promptHeight
	}
	if contentHeight < 5 {
		contentHeight = 5
	}

	a.treePanel.Width = a.width
	a.treePanel.Height = contentHeight
	a.treePanel.Title = a.doc.Name()

	w, h := a.treePanel.InnerSize()
	a.treeView.Width = w
	a.treeView.Height = h
	a.editInput.Width = w / 2
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side)
	availableWidth := a.width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen+1 > availableWidth {
		return runewidth.Truncate(left, availableWidth, "…")
	}

	return left + strings.Repeat(" ", availableWidth-leftLen-rightLen) + right
}
