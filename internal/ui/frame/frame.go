// Package frame defines the immediate-mode toolkit boundary the tree walker
// renders through. A Frame both displays controls and reports the input
// that targeted them during the current pass.
package frame

import (
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// Field names a text control within a row
type Field int

const (
	FieldKey Field = iota
	FieldValue
)

// MenuItem is a structural operation offered by a row's context menu
type MenuItem int

const (
	MenuAddChild MenuItem = iota
	MenuSort
	MenuDuplicate
	MenuRemove
)

// String returns the menu label
func (m MenuItem) String() string {
	switch m {
	case MenuAddChild:
		return "Add child"
	case MenuSort:
		return "Sort"
	case MenuDuplicate:
		return "Duplicate"
	case MenuRemove:
		return "Remove"
	default:
		return "?"
	}
}

// TextEventType is the kind of input a text field received
type TextEventType int

const (
	TextNone     TextEventType = iota
	TextActivate               // user asked to start editing
	TextChange                 // buffer content changed
	TextConfirm                // user pressed enter
	TextCancel                 // user abandoned the edit
)

// TextEvent is the input delivered to a text field in one pass
type TextEvent struct {
	Type TextEventType
	Text string
}

// TextState is what a text field should display
type TextState struct {
	Committed string // current value of the node
	Editing   bool
	Buffer    string // in-progress text while Editing
	Invalid   error  // validation failure of Buffer, nil when valid
}

// Row describes the node a row is being rendered for
type Row struct {
	ID    uistate.ID
	Path  plist.Path
	Depth int
	Kind  plist.Kind
}

// Frame is the per-pass rendering and input surface. Every control method
// draws the control for the current row and returns any input that was
// directed at it.
type Frame interface {
	BeginRow(row Row)
	// Disclosure draws the expand toggle and reports whether it was toggled
	Disclosure(expanded bool) bool
	// Label draws display-only key text
	Label(text string)
	TextField(field Field, state TextState) TextEvent
	// Menu offers items and returns the one chosen in this pass
	Menu(items []MenuItem) (MenuItem, bool)
	// TypeSelect offers kinds and returns a newly selected one
	TypeSelect(current plist.Kind, options []plist.Kind) (plist.Kind, bool)
	// Summary draws the child count of a container
	Summary(text string)
	// Stepper draws a numeric control and returns the stepped value
	Stepper(value float64) (float64, bool)
	// Toggle draws a checkbox and returns the flipped value
	Toggle(value bool) (bool, bool)
	EndRow()
}
