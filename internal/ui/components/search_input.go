package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
)

// PromptMode selects what a prompt's answer is used for
type PromptMode string

const (
	PromptSearch PromptMode = "search"
	PromptOpen   PromptMode = "open"
	PromptSaveAs PromptMode = "save"
	PromptExport PromptMode = "export"
)

// PromptSubmitMsg is sent when the prompt is confirmed with a non-empty value
type PromptSubmitMsg struct {
	Mode  PromptMode
	Value string
}

// ClosePromptMsg is sent when the prompt should be closed
type ClosePromptMsg struct{}

// SearchInput is a one-line prompt box used for search queries and file
// paths
type SearchInput struct {
	Input   textinput.Model
	Mode    PromptMode
	Theme   theme.Theme
	Width   int
	Visible bool
}

// NewSearchInput creates a new prompt
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 1024
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Mode:  PromptSearch,
		Theme: th,
	}
}

// Open shows the prompt in mode, pre-filled with value
func (s *SearchInput) Open(mode PromptMode, value string) tea.Cmd {
	s.Mode = mode
	s.Visible = true
	switch mode {
	case PromptOpen:
		s.Input.Placeholder = "Path to open..."
	case PromptSaveAs:
		s.Input.Placeholder = "Save as..."
	case PromptExport:
		s.Input.Placeholder = "Export to (.json or .csv)..."
	default:
		s.Input.Placeholder = "Search keys and values (s: i: r: b: d: date: a: dict: !negate)"
	}
	s.Input.SetValue(value)
	s.Input.CursorEnd()
	return s.Input.Focus()
}

// Reset clears and hides the prompt
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.Input.Blur()
	s.Visible = false
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := s.Input.Value()
			mode := s.Mode
			if value != "" {
				return s, func() tea.Msg {
					return PromptSubmitMsg{Mode: mode, Value: value}
				}
			}
			return s, nil
		case "esc":
			return s, func() tea.Msg {
				return ClosePromptMsg{}
			}
		}
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the prompt
func (s *SearchInput) View() string {
	label := "Search"
	labelColor := s.Theme.Success
	switch s.Mode {
	case PromptOpen:
		label, labelColor = "Open", s.Theme.Info
	case PromptSaveAs:
		label, labelColor = "Save as", s.Theme.Warning
	case PromptExport:
		label, labelColor = "Export", s.Theme.Info
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(labelColor).
		Bold(true)

	inputWidth := s.Width - 20 // label and borders
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	content := modeStyle.Render("["+label+"]") + " " + s.Input.View()
	helpText := helpStyle.Render("Enter: confirm │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
