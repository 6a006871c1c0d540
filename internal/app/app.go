package app

import (
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyplist/internal/config"
	"github.com/rebeliceyang/lazyplist/internal/document"
	"github.com/rebeliceyang/lazyplist/internal/history"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/session"
	"github.com/rebeliceyang/lazyplist/internal/ui/components"
	"github.com/rebeliceyang/lazyplist/internal/ui/theme"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
	"github.com/rebeliceyang/lazyplist/internal/walker"
	"github.com/rebeliceyang/lazyplist/internal/watch"
)

// Services are the optional persistent stores. Nil members are skipped.
type Services struct {
	Sessions *session.Manager
	History  *history.Store
}

// App is the main application model
type App struct {
	config *config.Config
	theme  theme.Theme
	width  int
	height int

	doc    *document.Document
	store  *uistate.Store
	walker *walker.Walker

	treePanel components.Panel
	treeView  *components.TreeView
	preview   *components.PreviewPane

	// In-place editing of a key or value
	editing   *components.EditTarget
	editInput textinput.Model

	// Popups
	popup    *components.ListPopup
	popupRow components.RowView
	recent   []history.Entry

	// Prompt for search and file paths
	prompt   *components.SearchInput
	matches  []plist.Path
	matchIdx int

	showHelp     bool
	showError    bool
	errorOverlay *components.ErrorOverlay

	status string
	// armed names an action waiting for a second key press because it
	// would discard unsaved changes
	armed string

	services Services
	watcher  *watch.Watcher
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// FileChangedMsg is sent when the open file was modified by another program
type FileChangedMsg struct {
	Path string
}

// WatchErrorMsg is sent when the file watcher fails
type WatchErrorMsg struct {
	Path string
	Err  error
}

// New creates a new App holding an empty untitled document
func New(cfg *config.Config, svc Services) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	th := theme.GetTheme(cfg.UI.Theme)

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0

	a := &App{
		config:       cfg,
		theme:        th,
		store:        uistate.NewStore(),
		treeView:     components.NewTreeView(th),
		preview:      components.NewPreviewPane(th),
		prompt:       components.NewSearchInput(th),
		errorOverlay: components.NewErrorOverlay(th),
		editInput:    ti,
		services:     svc,
		treePanel: components.Panel{
			Style: lipgloss.NewStyle().BorderForeground(th.BorderFocused),
		},
	}
	if cfg.UI.ShowPreview {
		a.preview.Toggle()
	}
	a.setDocument(document.New())
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.watcher != nil {
		return waitForChange(a.watcher)
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case components.TreeInputMsg:
		a.apply(msg.Input)
		return a, nil

	case components.OpenMenuMsg:
		labels := make([]string, len(msg.Row.Menu))
		for i, item := range msg.Row.Menu {
			labels[i] = item.String()
		}
		a.openPopup("menu", "Actions: "+msg.Row.Path.String(), labels, 0, msg.Row)
		return a, nil

	case components.OpenTypeMsg:
		labels := make([]string, len(msg.Row.Types))
		selected := 0
		for i, k := range msg.Row.Types {
			labels[i] = k.String()
			if k == msg.Row.Kind {
				selected = i
			}
		}
		a.openPopup("type", "Type of "+msg.Row.Path.String(), labels, selected, msg.Row)
		return a, nil

	case components.ListChosenMsg:
		return a, a.choose(msg)

	case components.CloseListMsg:
		a.popup = nil
		return a, nil

	case components.CopyMsg:
		if err := clipboard.WriteAll(msg.Text); err != nil {
			log.Printf("clipboard: %v", err)
			a.status = fmt.Sprintf("Copy failed: %v", err)
		} else {
			a.status = "Copied " + msg.What
		}
		return a, nil

	case components.PromptSubmitMsg:
		a.closePrompt()
		return a, a.submitPrompt(msg)

	case components.ClosePromptMsg:
		a.closePrompt()
		return a, nil

	case FileChangedMsg:
		if a.watcher == nil || msg.Path != a.watcher.Path() {
			// watcher of a document that is no longer open
			return a, nil
		}
		a.externalChange()
		return a, waitForChange(a.watcher)

	case WatchErrorMsg:
		log.Printf("watch %s: %v", msg.Path, msg.Err)
		if a.watcher == nil || msg.Path != a.watcher.Path() {
			return a, nil
		}
		return a, waitForChange(a.watcher)
	}

	// Cursor blink and other input updates for the edit field
	if a.editing != nil {
		var cmd tea.Cmd
		a.editInput, cmd = a.editInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey routes a key press to the topmost layer
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Error overlay first
	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "ctrl+c":
			return a, a.quit()
		}
		return a, nil
	}

	if a.showHelp {
		switch key {
		case "?", "esc", "q":
			a.showHelp = false
		case "ctrl+c":
			return a, a.quit()
		}
		return a, nil
	}

	if a.popup != nil {
		var cmd tea.Cmd
		a.popup, cmd = a.popup.Update(msg)
		return a, cmd
	}

	if a.prompt.Visible {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}

	if a.editing != nil {
		return a, a.handleEditKey(msg)
	}

	// A second press of the armed key confirms it; anything else disarms
	armed := a.armed
	a.armed = ""

	switch key {
	case "q", "ctrl+c":
		if a.doc.Dirty() && armed != "quit" {
			a.arm("quit", "Unsaved changes: press q again to quit without saving")
			return a, nil
		}
		return a, a.quit()

	case "?":
		a.showHelp = true

	case "esc":
		a.status = ""
		a.matches = nil

	case "ctrl+s":
		if a.doc.Path() == "" {
			return a, a.openPrompt(components.PromptSaveAs, "")
		}
		return a, a.save("")

	case "ctrl+w":
		return a, a.openPrompt(components.PromptSaveAs, a.doc.Path())

	case "ctrl+e":
		return a, a.openPrompt(components.PromptExport, "")

	case "ctrl+o":
		if a.doc.Dirty() && armed != "open" {
			a.arm("open", "Unsaved changes: press Ctrl+O again to open another file anyway")
			return a, nil
		}
		return a, a.openPrompt(components.PromptOpen, "")

	case "ctrl+r":
		if a.doc.Dirty() && armed != "recent" {
			a.arm("recent", "Unsaved changes: press Ctrl+R again to pick another file anyway")
			return a, nil
		}
		a.openRecent()

	case "ctrl+l":
		if a.doc.Dirty() && armed != "reload" {
			a.arm("reload", "Unsaved changes: press Ctrl+L again to reload and discard them")
			return a, nil
		}
		a.reload()

	case "p":
		a.preview.Toggle()
		a.updatePanelDimensions()
		a.updatePreview()

	case "c":
		if a.preview.Visible {
			if err := a.preview.CopyContent(); err != nil {
				log.Printf("clipboard: %v", err)
				a.status = fmt.Sprintf("Copy failed: %v", err)
			} else {
				a.status = "Copied XML"
			}
		}

	case "J":
		a.preview.ScrollDown()

	case "K":
		a.preview.ScrollUp()

	case "/":
		return a, a.openPrompt(components.PromptSearch, "")

	case "n":
		a.nextMatch(1)

	case "N":
		a.nextMatch(-1)

	default:
		var cmd tea.Cmd
		a.treeView, cmd = a.treeView.Update(msg)
		a.updatePreview()
		return a, cmd
	}
	return a, nil
}

// handleMouse forwards clicks to the popup or the tree
func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showError || a.showHelp || a.prompt.Visible || a.editing != nil {
		return a, nil
	}
	var cmd tea.Cmd
	if a.popup != nil {
		a.popup, cmd = a.popup.HandleMouse(msg)
		return a, cmd
	}
	a.treeView, cmd = a.treeView.HandleMouse(msg)
	a.updatePreview()
	return a, cmd
}

func (a *App) arm(action, message string) {
	a.armed = action
	a.status = message
}

// quit saves session state, stops the watcher and ends the program
func (a *App) quit() tea.Cmd {
	a.rememberSession()
	a.stopWatching()
	return tea.Quit
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}

// Document returns the open document
func (a *App) Document() *document.Document {
	return a.doc
}

// Status returns the status bar message
func (a *App) Status() string {
	return a.status
}
