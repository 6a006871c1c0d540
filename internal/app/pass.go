package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/components"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
	"github.com/rebeliceyang/lazyplist/internal/walker"
)

// refresh runs a pass without input and shows its rows
func (a *App) refresh() {
	f := components.NewTerminalFrame(components.Input{}, a.config.Editor.RealStep)
	a.walker.Walk(f)
	a.treeView.SetRows(f.Rows)
	a.syncEdit()
	a.updatePreview()
}

// apply runs one pass delivering in, then refreshes. Every user action on
// the tree goes through here.
func (a *App) apply(in components.Input) walker.Outcome {
	f := components.NewTerminalFrame(in, a.config.Editor.RealStep)
	out := a.walker.Walk(f)
	a.refresh()

	if f.Delivered() && in.Text.Type == frame.TextActivate {
		a.beginEdit(in.Target, in.Field)
	}
	return out
}

// beginEdit opens the in-place input on a field that the last pass showed
// as editing
func (a *App) beginEdit(id uistate.ID, field frame.Field) {
	for _, r := range a.treeView.Rows {
		if r.ID != id {
			continue
		}
		st := r.EditState(field)
		if st == nil || !st.Editing {
			return
		}
		a.editing = &components.EditTarget{ID: id, Field: field}
		a.editInput.SetValue(st.Buffer)
		a.editInput.CursorEnd()
		a.editInput.Width = a.treeView.Width / 2
		a.editInput.Focus()
		a.treeView.SetCursorToID(id)
		return
	}
}

// endEdit closes the in-place input. Any buffer stays in the store.
func (a *App) endEdit() {
	a.editing = nil
	a.editInput.Blur()
	a.treeView.Edit = nil
}

// syncEdit closes the input once its field is no longer editing, which is
// how a commit, a cancel, a rename or a removal ends an edit
func (a *App) syncEdit() {
	if a.editing == nil {
		return
	}
	for _, r := range a.treeView.Rows {
		if r.ID == a.editing.ID {
			if st := r.EditState(a.editing.Field); st != nil && st.Editing {
				return
			}
			break
		}
	}
	a.endEdit()
}

// handleEditKey feeds key presses to the in-place input. Each change is a
// pass so validation is shown as the user types.
func (a *App) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	target := *a.editing
	send := func(typ frame.TextEventType) {
		a.apply(components.Input{
			Target: target.ID,
			Field:  target.Field,
			Text:   frame.TextEvent{Type: typ, Text: a.editInput.Value()},
		})
	}

	switch msg.String() {
	case "enter":
		send(frame.TextConfirm)
		if a.editing != nil {
			a.status = "Value is invalid: fix it or press Esc to cancel"
		} else {
			a.status = ""
		}
		return nil
	case "esc":
		send(frame.TextCancel)
		// a stale row leaves the input open, close it regardless
		a.endEdit()
		return nil
	}

	before := a.editInput.Value()
	var cmd tea.Cmd
	a.editInput, cmd = a.editInput.Update(msg)
	if a.editInput.Value() != before {
		send(frame.TextChange)
	}
	return cmd
}

// openPopup shows a list popup for row
func (a *App) openPopup(id, title string, items []string, selected int, row components.RowView) {
	a.popup = components.NewListPopup(id, title, items, selected, a.theme)
	a.popup.Width = max(40, min(a.width-10, 90))
	a.popupRow = row
}

// choose applies the entry picked in a popup
func (a *App) choose(msg components.ListChosenMsg) tea.Cmd {
	a.popup = nil
	row := a.popupRow

	switch msg.Popup {
	case "menu":
		if msg.Index >= len(row.Menu) {
			return nil
		}
		item := row.Menu[msg.Index]
		if a.apply(components.Input{Target: row.ID, Menu: item, HasMenu: true}) != walker.Unchanged {
			a.status = fmt.Sprintf("%s: %s", item, row.Path)
		}
	case "type":
		if msg.Index >= len(row.Types) {
			return nil
		}
		kind := row.Types[msg.Index]
		if a.apply(components.Input{Target: row.ID, Kind: kind, HasKind: true}) != walker.Unchanged {
			a.status = fmt.Sprintf("%s is now %s", row.Path, kind)
		}
	case "recent":
		if msg.Index >= len(a.recent) {
			return nil
		}
		return a.Open(a.recent[msg.Index].Path)
	}
	return nil
}

func (a *App) openPrompt(mode components.PromptMode, value string) tea.Cmd {
	cmd := a.prompt.Open(mode, value)
	a.updatePanelDimensions()
	return cmd
}

func (a *App) closePrompt() {
	a.prompt.Reset()
	a.updatePanelDimensions()
}

// search finds every node matching query, collapsed ones included, and
// jumps to the first
func (a *App) search(query string) {
	q := components.ParseSearchQuery(query)
	a.doc.View(func(root *plist.Value) {
		a.matches = components.FilterTree(root, q)
	})
	a.matchIdx = 0
	if len(a.matches) == 0 {
		a.status = fmt.Sprintf("No matches for %q", query)
		return
	}
	a.jumpTo(a.matches[0])
}

// nextMatch moves to the next or previous search result
func (a *App) nextMatch(delta int) {
	if len(a.matches) == 0 {
		return
	}
	a.matchIdx = (a.matchIdx + delta + len(a.matches)) % len(a.matches)
	a.jumpTo(a.matches[a.matchIdx])
}

// jumpTo expands the ancestors of path and puts the cursor on it
func (a *App) jumpTo(path plist.Path) {
	for i := 0; i < len(path); i++ {
		a.store.SetExpanded(uistate.IDOf(path[:i]), true)
	}
	a.refresh()
	if a.treeView.SetCursorToPath(path) {
		a.status = fmt.Sprintf("Match %d/%d: %s", a.matchIdx+1, len(a.matches), path)
	} else {
		a.status = fmt.Sprintf("%s no longer exists", path)
	}
	a.updatePreview()
}

// updatePreview shows the XML of the node under the cursor
func (a *App) updatePreview() {
	if !a.preview.Visible {
		return
	}
	row, ok := a.treeView.CurrentRow()
	if !ok {
		a.preview.SetContent("", "")
		return
	}
	var content string
	a.doc.View(func(root *plist.Value) {
		node, ok := plist.Get(root, row.Path)
		if !ok {
			return
		}
		data, err := plist.SerializeXML(node)
		if err != nil {
			content = err.Error()
			return
		}
		content = string(data)
	})
	a.preview.SetContent(content, row.Path.String())
}
