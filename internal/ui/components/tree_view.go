package components

// TreeView renders the rows recorded by a TerminalFrame pass and turns
// keyboard and mouse input into Input values for the next pass.
//
// Features:
//   - Disclosure icons (▾ expanded, ▸ collapsed, • leaf)
//   - Keyboard navigation (↑↓/jk, →←/hl, g/G, PgUp/PgDn)
//   - Aligned key, type and value columns
//   - In-place editor for the row being edited
//   - Mouse selection and disclosure clicks through bubblezone
//
// Usage:
//
//	f := components.NewTerminalFrame(input, step)
//	walker.Walk(f)
//	treeView.SetRows(f.Rows)
//
//	// In your Update method:
//	treeView, cmd := treeView.Update(msg)
//
//	// In your View method:
//	content := treeView.View()

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// TreeView represents the document tree
type TreeView struct {
	Rows         []RowView   // Rows of the last pass in display order
	CursorIndex  int         // Current cursor position in Rows
	Width        int         // Display width
	Height       int         // Display height
	Theme        theme.Theme // Color theme
	ScrollOffset int         // Vertical scroll offset for viewport

	// Edit is the row field currently edited in place, nil when none
	Edit *EditTarget

	zonePrefix string
}

// EditTarget identifies the field shown with a live text input
type EditTarget struct {
	ID    uistate.ID
	Field frame.Field
	View  string // rendered input, replaces the field's text
}

// TreeInputMsg carries an input for the next walker pass
type TreeInputMsg struct {
	Input Input
}

// OpenMenuMsg asks for the context menu of a row
type OpenMenuMsg struct {
	Row RowView
}

// OpenTypeMsg asks for the type selector of a row
type OpenTypeMsg struct {
	Row RowView
}

// CopyMsg asks for text to be put on the clipboard
type CopyMsg struct {
	Text string
	What string // "value" or "path"
}

// NewTreeView creates a new tree view component
func NewTreeView(th theme.Theme) *TreeView {
	return &TreeView{
		Width:      40,
		Height:     20,
		Theme:      th,
		zonePrefix: zone.NewPrefix(),
	}
}

// SetRows replaces the rows after a pass, keeping the cursor on the same
// node when it is still visible
func (tv *TreeView) SetRows(rows []RowView) {
	current, had := tv.CurrentRow()
	tv.Rows = rows
	if had && tv.SetCursorToID(current.ID) {
		return
	}
	tv.clampCursor()
}

// CurrentRow returns the row under the cursor
func (tv *TreeView) CurrentRow() (RowView, bool) {
	if tv.CursorIndex < 0 || tv.CursorIndex >= len(tv.Rows) {
		return RowView{}, false
	}
	return tv.Rows[tv.CursorIndex], true
}

// SetCursorToID moves the cursor to the row with the given identity
func (tv *TreeView) SetCursorToID(id uistate.ID) bool {
	for i, r := range tv.Rows {
		if r.ID == id {
			tv.CursorIndex = i
			return true
		}
	}
	return false
}

// SetCursorToPath moves the cursor to the row rendered for path
func (tv *TreeView) SetCursorToPath(path plist.Path) bool {
	for i, r := range tv.Rows {
		if r.Path.Equal(path) {
			tv.CursorIndex = i
			return true
		}
	}
	return false
}

func (tv *TreeView) clampCursor() {
	if tv.CursorIndex >= len(tv.Rows) {
		tv.CursorIndex = len(tv.Rows) - 1
	}
	if tv.CursorIndex < 0 {
		tv.CursorIndex = 0
	}
}

func (tv *TreeView) zoneID(kind string, i int) string {
	return fmt.Sprintf("%s%s-%d", tv.zonePrefix, kind, i)
}

// View renders the tree as a string
func (tv *TreeView) View() string {
	if len(tv.Rows) == 0 {
		return tv.emptyState()
	}

	tv.clampCursor()

	viewHeight := tv.Height
	if viewHeight < 1 {
		viewHeight = 1
	}

	// Auto-scroll to keep cursor visible
	tv.adjustScrollOffset(len(tv.Rows), viewHeight)

	startIdx := tv.ScrollOffset
	endIdx := tv.ScrollOffset + viewHeight
	if endIdx > len(tv.Rows) {
		endIdx = len(tv.Rows)
	}

	keyWidth := tv.keyColumnWidth(startIdx, endIdx)

	var lines []string
	for i := startIdx; i < endIdx; i++ {
		lines = append(lines, tv.renderRow(i, keyWidth))
	}

	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// keyColumnWidth is the widest indent+icon+key prefix among visible rows,
// capped at half the view
func (tv *TreeView) keyColumnWidth(start, end int) int {
	w := 0
	for i := start; i < end; i++ {
		if pw := runewidth.StringWidth(tv.prefix(tv.Rows[i])); pw > w {
			w = pw
		}
	}
	if limit := tv.Width / 2; limit > 0 && w > limit {
		w = limit
	}
	return w
}

func (tv *TreeView) prefix(r RowView) string {
	return strings.Repeat("  ", r.Depth) + tv.getIcon(r) + " " + r.KeyText()
}

// getIcon returns the disclosure icon for a row
func (tv *TreeView) getIcon(r RowView) string {
	if !r.Expandable {
		return "•"
	}
	if r.Expanded {
		return "▾"
	}
	return "▸"
}

// renderRow renders a single row with aligned columns
func (tv *TreeView) renderRow(i, keyWidth int) string {
	r := tv.Rows[i]
	selected := i == tv.CursorIndex
	maxWidth := tv.Width
	if maxWidth < 1 {
		maxWidth = 1
	}

	plain := !selected
	style := func(c lipgloss.Color) lipgloss.Style {
		if !plain {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	indent := strings.Repeat("  ", r.Depth)
	icon := zone.Mark(tv.zoneID("disc", i), style(tv.Theme.Disclosure).Render(tv.getIcon(r)))

	key := style(tv.Theme.Key).Render(r.KeyText())
	if r.Depth == 0 || r.Key == nil {
		key = style(tv.Theme.Metadata).Render(r.KeyText())
	}
	if tv.editing(r, frame.FieldKey) {
		key = tv.Edit.View
	}

	pad := keyWidth - runewidth.StringWidth(tv.prefix(r))
	if pad < 0 {
		pad = 0
	}

	badge := style(tv.Theme.TypeBadge).Render(fmt.Sprintf("%-10s", r.Kind.String()))

	content := indent + icon + " " + key + strings.Repeat(" ", pad) + "  " + badge + " " + tv.renderValue(r, style)
	content = ansi.Truncate(content, maxWidth, "…")

	if selected {
		content = lipgloss.NewStyle().
			Background(tv.Theme.Selection).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Width(maxWidth).
			Render(content)
	} else {
		content = lipgloss.NewStyle().Width(maxWidth).Render(content)
	}

	return zone.Mark(tv.zoneID("row", i), content)
}

func (tv *TreeView) renderValue(r RowView, style func(lipgloss.Color) lipgloss.Style) string {
	if tv.editing(r, frame.FieldValue) {
		return tv.Edit.View + tv.invalidNote(r.Value, style)
	}

	var text string
	var color lipgloss.Color
	switch r.Kind {
	case plist.KindString:
		text, color = r.ValueText(), tv.Theme.String
	case plist.KindInteger, plist.KindReal:
		text, color = r.ValueText(), tv.Theme.Number
	case plist.KindBoolean:
		text, color = r.ValueText(), tv.Theme.Boolean
	case plist.KindData:
		text, color = "<"+r.ValueText()+">", tv.Theme.Data
	case plist.KindDate:
		text, color = r.ValueText(), tv.Theme.Date
	default:
		text, color = r.ValueText(), tv.Theme.Container
	}
	out := style(color).Render(text)

	// An abandoned edit keeps its buffer until committed or cancelled
	if r.Value != nil && r.Value.Editing {
		out += style(tv.Theme.Warning).Render(" ✎ " + r.Value.Buffer)
		out += tv.invalidNote(r.Value, style)
	}
	if tv.editing(r, frame.FieldKey) {
		out += tv.invalidNote(r.Key, style)
	}
	return out
}

func (tv *TreeView) invalidNote(st *frame.TextState, style func(lipgloss.Color) lipgloss.Style) string {
	if st == nil || st.Invalid == nil {
		return ""
	}
	return " " + style(tv.Theme.Error).Render("✗ "+st.Invalid.Error())
}

func (tv *TreeView) editing(r RowView, field frame.Field) bool {
	return tv.Edit != nil && tv.Edit.ID == r.ID && tv.Edit.Field == field
}

// Update handles keyboard input for tree navigation and row actions
func (tv *TreeView) Update(msg tea.KeyMsg) (*TreeView, tea.Cmd) {
	if len(tv.Rows) == 0 {
		return tv, nil
	}
	tv.clampCursor()
	row := tv.Rows[tv.CursorIndex]

	send := func(in Input) tea.Cmd {
		in.Target = row.ID
		return func() tea.Msg { return TreeInputMsg{Input: in} }
	}
	menu := func(item frame.MenuItem) tea.Cmd {
		if !row.Offers(item) {
			return nil
		}
		return send(Input{Menu: item, HasMenu: true})
	}

	var cmd tea.Cmd

	switch msg.String() {
	case "up", "k":
		if tv.CursorIndex > 0 {
			tv.CursorIndex--
		}

	case "down", "j":
		if tv.CursorIndex < len(tv.Rows)-1 {
			tv.CursorIndex++
		}

	case "pgup", "ctrl+u":
		tv.CursorIndex -= tv.pageSize()
		tv.clampCursor()

	case "pgdown", "ctrl+d":
		tv.CursorIndex += tv.pageSize()
		tv.clampCursor()

	case "g", "home":
		tv.CursorIndex = 0
		tv.ScrollOffset = 0

	case "G", "end":
		tv.CursorIndex = len(tv.Rows) - 1

	case "right", "l":
		// Expand, or step into an expanded node
		if row.Expandable && !row.Expanded {
			cmd = send(Input{Disclose: true})
		} else if row.Expanded && tv.CursorIndex+1 < len(tv.Rows) &&
			tv.Rows[tv.CursorIndex+1].Depth == row.Depth+1 {
			tv.CursorIndex++
		}

	case "left", "h":
		// Collapse, or move to parent
		if row.Expanded {
			cmd = send(Input{Disclose: true})
		} else if parent := tv.findParentIndex(tv.CursorIndex); parent >= 0 {
			tv.CursorIndex = parent
		}

	case " ":
		if row.Expandable {
			cmd = send(Input{Disclose: true})
		}

	case "enter", "e":
		switch {
		case row.Bool != nil:
			cmd = send(Input{Toggle: true})
		case row.Value != nil:
			cmd = send(Input{Field: frame.FieldValue, Text: frame.TextEvent{Type: frame.TextActivate}})
		case row.Expandable:
			cmd = send(Input{Disclose: true})
		}

	case "r", "f2":
		if row.Key != nil {
			cmd = send(Input{Field: frame.FieldKey, Text: frame.TextEvent{Type: frame.TextActivate}})
		}

	case "+", "=":
		if row.Real != nil {
			cmd = send(Input{Step: 1})
		}

	case "-", "_":
		if row.Real != nil {
			cmd = send(Input{Step: -1})
		}

	case "m", ".":
		if len(row.Menu) > 0 {
			cmd = func() tea.Msg { return OpenMenuMsg{Row: row} }
		}

	case "t":
		if len(row.Types) > 0 {
			cmd = func() tea.Msg { return OpenTypeMsg{Row: row} }
		}

	case "a":
		cmd = menu(frame.MenuAddChild)

	case "s":
		cmd = menu(frame.MenuSort)

	case "d":
		cmd = menu(frame.MenuDuplicate)

	case "x", "delete":
		cmd = menu(frame.MenuRemove)

	case "y":
		text := row.ValueText()
		cmd = func() tea.Msg { return CopyMsg{Text: text, What: "value"} }

	case "Y":
		text := row.Path.String()
		cmd = func() tea.Msg { return CopyMsg{Text: text, What: "path"} }
	}

	return tv, cmd
}

// HandleMouse selects the clicked row; a click on a disclosure icon also
// toggles the node. The wheel moves the cursor.
func (tv *TreeView) HandleMouse(msg tea.MouseMsg) (*TreeView, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if tv.CursorIndex > 0 {
			tv.CursorIndex--
		}
		return tv, nil
	case tea.MouseButtonWheelDown:
		if tv.CursorIndex < len(tv.Rows)-1 {
			tv.CursorIndex++
		}
		return tv, nil
	case tea.MouseButtonLeft:
	default:
		return tv, nil
	}
	if msg.Action != tea.MouseActionRelease {
		return tv, nil
	}

	end := tv.ScrollOffset + tv.Height
	if end > len(tv.Rows) {
		end = len(tv.Rows)
	}
	for i := tv.ScrollOffset; i < end; i++ {
		if tv.Rows[i].Expandable && zone.Get(tv.zoneID("disc", i)).InBounds(msg) {
			tv.CursorIndex = i
			id := tv.Rows[i].ID
			return tv, func() tea.Msg {
				return TreeInputMsg{Input: Input{Target: id, Disclose: true}}
			}
		}
		if zone.Get(tv.zoneID("row", i)).InBounds(msg) {
			tv.CursorIndex = i
			return tv, nil
		}
	}
	return tv, nil
}

func (tv *TreeView) pageSize() int {
	if tv.Height > 1 {
		return tv.Height - 1
	}
	return 1
}

// findParentIndex returns the index of the nearest row above i that is one
// level shallower, or -1
func (tv *TreeView) findParentIndex(i int) int {
	depth := tv.Rows[i].Depth
	for j := i - 1; j >= 0; j-- {
		if tv.Rows[j].Depth < depth {
			return j
		}
	}
	return -1
}

// adjustScrollOffset adjusts the scroll offset to keep the cursor visible
func (tv *TreeView) adjustScrollOffset(totalRows, viewHeight int) {
	if tv.CursorIndex < tv.ScrollOffset {
		tv.ScrollOffset = tv.CursorIndex
	}
	if tv.CursorIndex >= tv.ScrollOffset+viewHeight {
		tv.ScrollOffset = tv.CursorIndex - viewHeight + 1
	}

	if tv.ScrollOffset < 0 {
		tv.ScrollOffset = 0
	}
	maxScroll := totalRows - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if tv.ScrollOffset > maxScroll {
		tv.ScrollOffset = maxScroll
	}
}

// emptyState returns the empty state view
func (tv *TreeView) emptyState() string {
	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Width(tv.Width).
		Align(lipgloss.Center)

	return style.Render("No document loaded")
}
