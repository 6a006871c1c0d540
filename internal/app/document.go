package app

import (
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyplist/internal/document"
	"github.com/rebeliceyang/lazyplist/internal/export"
	"github.com/rebeliceyang/lazyplist/internal/history"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/components"
	"github.com/rebeliceyang/lazyplist/internal/walker"
	"github.com/rebeliceyang/lazyplist/internal/watch"
)

// setDocument replaces the open document and resets all per-document state
func (a *App) setDocument(doc *document.Document) {
	a.doc = doc
	a.store.Reset()
	a.walker = walker.New(doc, a.store, walker.Options{
		AllowScalarRoot: a.config.Editor.AllowScalarRoot,
	})
	a.endEdit()
	a.matches = nil
	a.treeView.CursorIndex = 0
	a.treeView.ScrollOffset = 0
	a.treeView.Rows = nil
	a.refresh()
}

// Open loads the file at path, replacing the current document. A file that
// cannot be parsed leaves an empty untitled document and a notice.
func (a *App) Open(path string) tea.Cmd {
	a.rememberSession()
	a.stopWatching()

	doc, err := document.Open(path)
	a.setDocument(doc)
	if err != nil {
		log.Printf("open %s: %v", path, err)
		a.ShowError("Could not open file",
			fmt.Sprintf("%v\n\nAn empty document was opened instead. The file was not modified.", err))
		return nil
	}

	a.restoreSession()
	a.refresh()
	a.recordHistory(history.ActionOpen)
	a.status = "Opened " + doc.Name()
	return a.startWatching()
}

// save writes the document to path, or to its current path when empty
func (a *App) save(path string) tea.Cmd {
	oldPath := a.doc.Path()
	format := document.ResolveFormat(a.config.Document.SaveFormat, a.doc.Format())
	if err := a.doc.Save(path, format); err != nil {
		log.Printf("save %s: %v", path, err)
		a.ShowError("Save failed", fmt.Sprintf("%v\n\nYour changes are still in the editor.", err))
		return nil
	}

	a.status = fmt.Sprintf("Saved %s (%s)", a.doc.Name(), format)
	a.recordHistory(history.ActionSave)
	a.rememberSession()
	if a.doc.Path() != oldPath {
		a.stopWatching()
		return a.startWatching()
	}
	return nil
}

// export writes the whole document as JSON or CSV without changing it
func (a *App) export(path string) {
	var err error
	a.doc.View(func(root *plist.Value) {
		err = export.Export(root, path)
	})
	if err != nil {
		log.Printf("export %s: %v", path, err)
		a.ShowError("Export failed", err.Error())
		return
	}
	a.status = "Exported to " + path
}

// reload replaces the tree with the file contents, discarding edits
func (a *App) reload() {
	if a.doc.Path() == "" {
		a.status = "Nothing to reload"
		return
	}
	if err := a.doc.Reload(); err != nil {
		log.Printf("reload %s: %v", a.doc.Path(), err)
		a.ShowError("Reload failed", err.Error())
		return
	}
	a.clearEditBuffers()
	a.refresh()
	a.status = "Reloaded " + a.doc.Name()
}

// externalChange reacts to another program writing the open file. Clean
// documents follow the file; dirty ones keep the user's edits.
func (a *App) externalChange() {
	changed, err := a.doc.ChangedOnDisk()
	if err != nil {
		log.Printf("stat %s: %v", a.doc.Path(), err)
		return
	}
	if !changed {
		return
	}
	if a.doc.Dirty() {
		a.status = "File changed on disk: Ctrl+L reloads it and discards your changes"
		return
	}
	a.reload()
}

func (a *App) clearEditBuffers() {
	for _, id := range a.store.ActiveEdits() {
		a.store.ClearEditBuffer(id)
	}
	a.endEdit()
}

// startWatching begins watching the document's file if enabled
func (a *App) startWatching() tea.Cmd {
	path := a.doc.Path()
	if !a.config.Document.Watch || path == "" {
		return nil
	}
	w, err := watch.New(path)
	if err != nil {
		log.Printf("watch %s: %v", path, err)
		return nil
	}
	a.watcher = w
	return waitForChange(w)
}

func (a *App) stopWatching() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		log.Printf("watch %s: %v", a.watcher.Path(), err)
	}
	a.watcher = nil
}

// waitForChange blocks until the watcher reports something
func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return nil
			}
			return FileChangedMsg{Path: w.Path()}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return WatchErrorMsg{Path: w.Path(), Err: err}
		}
	}
}

// rememberSession stores the expansion flags of the open document
func (a *App) rememberSession() {
	if a.services.Sessions == nil || !a.config.Session.PersistExpansion {
		return
	}
	if err := a.services.Sessions.Remember(a.doc.Path(), a.store.ExpandedIDs()); err != nil {
		log.Printf("session: %v", err)
	}
}

// restoreSession applies stored expansion flags to the open document
func (a *App) restoreSession() {
	if a.services.Sessions == nil || !a.config.Session.PersistExpansion {
		return
	}
	a.store.RestoreExpanded(a.services.Sessions.Expanded(a.doc.Path()))
}

func (a *App) recordHistory(action history.Action) {
	h := a.services.History
	path := a.doc.Path()
	if h == nil || !a.config.History.Enabled || path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	err := h.Record(history.Entry{Path: path, Format: a.doc.Format().String(), Action: action})
	if err == nil {
		err = h.Trim(a.config.History.MaxEntries)
	}
	if err != nil {
		log.Printf("history: %v", err)
	}
}

// openRecent shows the recent documents popup
func (a *App) openRecent() {
	h := a.services.History
	if h == nil || !a.config.History.Enabled {
		a.status = "History is disabled"
		return
	}
	entries, err := h.GetRecent(a.config.History.MaxEntries)
	if err != nil {
		log.Printf("history: %v", err)
		a.ShowError("History unavailable", err.Error())
		return
	}
	a.recent = entries
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = fmt.Sprintf("%s  (%s %s)", e.Path, e.Action, e.UsedAt.Local().Format("2006-01-02 15:04"))
	}
	a.openPopup("recent", "Recent files", labels, 0, components.RowView{})
}

// submitPrompt acts on a confirmed prompt
func (a *App) submitPrompt(msg components.PromptSubmitMsg) tea.Cmd {
	switch msg.Mode {
	case components.PromptOpen:
		return a.Open(msg.Value)
	case components.PromptSaveAs:
		return a.save(msg.Value)
	case components.PromptExport:
		a.export(msg.Value)
		return nil
	default:
		a.search(msg.Value)
		return nil
	}
}
