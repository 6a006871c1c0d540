package components

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
)

// PreviewPane shows the XML serialization of the selected subtree
type PreviewPane struct {
	Width     int
	MaxHeight int    // Maximum height (screen 1/3)
	Content   string // Raw XML to display
	Title     string // Path of the previewed node

	Visible bool

	// Scrolling
	scrollY      int
	contentLines []string // Highlighted content split into lines

	// Styling
	Theme theme.Theme
	style lipgloss.Style

	chromaStyle     *chroma.Style
	chromaFormatter chroma.Formatter
}

// NewPreviewPane creates a new preview pane, hidden until toggled
func NewPreviewPane(th theme.Theme) *PreviewPane {
	p := &PreviewPane{
		Width:     80,
		MaxHeight: 10,
		Theme:     th,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
	p.initChroma()
	return p
}

// initChroma initializes the syntax highlighter from the theme
func (p *PreviewPane) initChroma() {
	p.chromaStyle = styles.Get(p.Theme.SyntaxStyle)
	if p.chromaStyle == nil {
		p.chromaStyle = styles.Fallback
	}

	p.chromaFormatter = formatters.Get("terminal256")
	if p.chromaFormatter == nil {
		p.chromaFormatter = formatters.Fallback
	}
}

// SetContent sets the XML to display
func (p *PreviewPane) SetContent(content, title string) {
	// Skip if content hasn't changed
	if p.Content == content && p.Title == title {
		return
	}

	p.Content = content
	p.Title = title
	p.scrollY = 0
	p.contentLines = nil // formatted on demand
}

// formatContent highlights the raw content for display
func (p *PreviewPane) formatContent() {
	if p.Content == "" {
		p.contentLines = []string{}
		return
	}
	text := strings.TrimRight(p.Content, "\n")
	lines := strings.Split(p.highlight(text), "\n")

	// the formatter may leave a trailing reset sequence on its own line
	for len(lines) > 1 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	p.contentLines = lines
}

// highlight applies XML syntax highlighting, returning text unchanged on
// failure
func (p *PreviewPane) highlight(text string) string {
	lexer := lexers.Get("xml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := p.chromaFormatter.Format(&buf, p.chromaStyle, iterator); err != nil {
		return text
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Toggle toggles the preview pane visibility
func (p *PreviewPane) Toggle() {
	p.Visible = !p.Visible
	if p.Visible {
		p.formatContent()
	} else {
		p.contentLines = nil
	}
}

// Height returns the rendered height including borders, 0 when hidden
func (p *PreviewPane) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

func (p *PreviewPane) visibleLines() int {
	n := p.MaxHeight - p.style.GetVerticalFrameSize() - 2 // header and footer
	if n < 1 {
		n = 1
	}
	return n
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	return len(p.contentLines) > p.visibleLines()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	maxScroll := len(p.contentLines) - p.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// CopyContent copies the preview content to clipboard
func (p *PreviewPane) CopyContent() error {
	return clipboard.WriteAll(p.Content)
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}

	if p.contentLines == nil {
		p.formatContent()
	}

	contentWidth := p.Width - p.style.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)

	header := "XML"
	if p.Title != "" {
		header = "XML: " + p.Title
	}
	if runewidth.StringWidth(header) > contentWidth {
		header = runewidth.Truncate(header, contentWidth, "...")
	}

	startLine := p.scrollY
	endLine := startLine + p.visibleLines()
	if endLine > len(p.contentLines) {
		endLine = len(p.contentLines)
	}

	parts := []string{titleStyle.Render(header)}
	for i := startLine; i < endLine; i++ {
		parts = append(parts, ansi.Truncate(p.contentLines[i], contentWidth, "…"))
	}

	helpParts := []string{}
	if p.IsScrollable() {
		helpParts = append(helpParts, "J/K: Scroll")
	}
	helpParts = append(helpParts, "c: Copy XML", "p: Toggle")

	helpText := strings.Join(helpParts, " │ ")
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true)

	// right-aligned footer
	footerPadding := contentWidth - runewidth.StringWidth(helpText)
	if footerPadding < 0 {
		footerPadding = 0
	}
	parts = append(parts, strings.Repeat(" ", footerPadding)+helpStyle.Render(helpText))

	innerHeight := p.MaxHeight - p.style.GetVerticalFrameSize()
	if innerHeight < 3 {
		innerHeight = 3
	}

	return p.style.
		Width(contentWidth).
		Height(innerHeight).
		MaxHeight(innerHeight + p.style.GetVerticalFrameSize()).
		Render(strings.Join(parts, "\n"))
}
