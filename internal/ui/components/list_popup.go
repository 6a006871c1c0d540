package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
)

// ListChosenMsg is sent when an entry of a popup is picked
type ListChosenMsg struct {
	Popup string // popup identifier
	Index int
}

// CloseListMsg is sent when a popup is dismissed
type CloseListMsg struct {
	Popup string
}

// ListPopup is a small modal list used for context menus, type selection
// and recent files
type ListPopup struct {
	ID       string
	Title    string
	Items    []string
	Selected int
	Width    int
	Theme    theme.Theme

	zonePrefix string
}

// NewListPopup creates a popup listing items. selected is the initially
// highlighted entry.
func NewListPopup(id, title string, items []string, selected int, th theme.Theme) *ListPopup {
	if selected < 0 || selected >= len(items) {
		selected = 0
	}
	return &ListPopup{
		ID:         id,
		Title:      title,
		Items:      items,
		Selected:   selected,
		Width:      40,
		Theme:      th,
		zonePrefix: zone.NewPrefix(),
	}
}

// MoveSelection moves the selection by delta, wrapping around
func (p *ListPopup) MoveSelection(delta int) {
	if len(p.Items) == 0 {
		return
	}
	p.Selected = (p.Selected + delta) % len(p.Items)
	if p.Selected < 0 {
		p.Selected += len(p.Items)
	}
}

func (p *ListPopup) chosen(i int) tea.Cmd {
	id := p.ID
	return func() tea.Msg { return ListChosenMsg{Popup: id, Index: i} }
}

// Update handles key input
func (p *ListPopup) Update(msg tea.KeyMsg) (*ListPopup, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "shift+tab":
		p.MoveSelection(-1)
	case "down", "j", "tab":
		p.MoveSelection(1)
	case "enter":
		if len(p.Items) > 0 {
			return p, p.chosen(p.Selected)
		}
	case "esc", "q":
		id := p.ID
		return p, func() tea.Msg { return CloseListMsg{Popup: id} }
	default:
		// 1-9 pick directly
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(p.Items) {
				p.Selected = i
				return p, p.chosen(i)
			}
		}
	}
	return p, nil
}

// HandleMouse picks the clicked entry
func (p *ListPopup) HandleMouse(msg tea.MouseMsg) (*ListPopup, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return p, nil
	}
	for i := range p.Items {
		if zone.Get(p.itemZone(i)).InBounds(msg) {
			p.Selected = i
			return p, p.chosen(i)
		}
	}
	return p, nil
}

func (p *ListPopup) itemZone(i int) string {
	return fmt.Sprintf("%sitem-%d", p.zonePrefix, i)
}

// View renders the popup box
func (p *ListPopup) View() string {
	innerWidth := p.Width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.BorderFocused).
		Bold(true)
	itemStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Foreground).
		Width(innerWidth)
	selectedStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Background).
		Background(p.Theme.Selection).
		Bold(true).
		Width(innerWidth)
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n\n")

	if len(p.Items) == 0 {
		b.WriteString(helpStyle.Render("(empty)"))
		b.WriteString("\n")
	}
	for i, item := range p.Items {
		var label string
		if i < 9 {
			label = fmt.Sprintf("%d  %s", i+1, item)
		} else {
			label = "   " + item
		}
		label = runewidth.Truncate(label, innerWidth, "…")

		style := itemStyle
		if i == p.Selected {
			style = selectedStyle
		}
		b.WriteString(zone.Mark(p.itemZone(i), style.Render(label)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑↓: Select │ Enter: Choose │ Esc: Cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Padding(0, 1).
		Width(p.Width).
		Render(b.String())
}
