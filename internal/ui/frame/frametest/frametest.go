// Package frametest provides a scripted Frame for driving the tree walker
// and editors without a terminal.
package frametest

import (
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// Target addresses one text field
type Target struct {
	ID    uistate.ID
	Field frame.Field
}

// Row is what a pass drew for one node
type Row struct {
	frame.Row
	Label    string
	HasKey   bool
	Key      frame.TextState
	HasValue bool
	Value    frame.TextState
	Summary  string
	Menu     []frame.MenuItem
	Types    []plist.Kind
	Stepper  *float64
	Toggle   *bool
	Expanded *bool
}

// Frame records every row drawn and delivers scripted input. Each scripted
// event is delivered at most once.
type Frame struct {
	Rows []*Row

	text       map[Target]frame.TextEvent
	disclosure map[uistate.ID]bool
	menu       map[uistate.ID]frame.MenuItem
	types      map[uistate.ID]plist.Kind
	steps      map[uistate.ID]float64
	toggles    map[uistate.ID]bool

	cur *Row
}

// New creates a frame with no scripted input
func New() *Frame {
	return &Frame{
		text:       make(map[Target]frame.TextEvent),
		disclosure: make(map[uistate.ID]bool),
		menu:       make(map[uistate.ID]frame.MenuItem),
		types:      make(map[uistate.ID]plist.Kind),
		steps:      make(map[uistate.ID]float64),
		toggles:    make(map[uistate.ID]bool),
	}
}

// Text scripts an event for a text field
func (f *Frame) Text(id uistate.ID, field frame.Field, typ frame.TextEventType, text string) *Frame {
	f.text[Target{ID: id, Field: field}] = frame.TextEvent{Type: typ, Text: text}
	return f
}

// Disclose scripts a click on the row's disclosure toggle
func (f *Frame) Disclose(id uistate.ID) *Frame {
	f.disclosure[id] = true
	return f
}

// Choose scripts a context menu choice
func (f *Frame) Choose(id uistate.ID, item frame.MenuItem) *Frame {
	f.menu[id] = item
	return f
}

// Retype scripts a type selection
func (f *Frame) Retype(id uistate.ID, kind plist.Kind) *Frame {
	f.types[id] = kind
	return f
}

// Step scripts a new stepper value
func (f *Frame) Step(id uistate.ID, value float64) *Frame {
	f.steps[id] = value
	return f
}

// Flip scripts a checkbox click
func (f *Frame) Flip(id uistate.ID) *Frame {
	f.toggles[id] = true
	return f
}

// Find returns the recorded row for id
func (f *Frame) Find(id uistate.ID) (*Row, bool) {
	for _, r := range f.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Paths lists the path of every recorded row in drawing order
func (f *Frame) Paths() []string {
	out := make([]string, 0, len(f.Rows))
	for _, r := range f.Rows {
		out = append(out, r.Path.String())
	}
	return out
}

func (f *Frame) BeginRow(row frame.Row) {
	f.cur = &Row{Row: row}
	f.Rows = append(f.Rows, f.cur)
}

func (f *Frame) Disclosure(expanded bool) bool {
	f.cur.Expanded = &expanded
	if f.disclosure[f.cur.ID] {
		delete(f.disclosure, f.cur.ID)
		return true
	}
	return false
}

func (f *Frame) Label(text string) {
	f.cur.Label = text
}

func (f *Frame) TextField(field frame.Field, state frame.TextState) frame.TextEvent {
	switch field {
	case frame.FieldKey:
		f.cur.HasKey = true
		f.cur.Key = state
	case frame.FieldValue:
		f.cur.HasValue = true
		f.cur.Value = state
	}
	t := Target{ID: f.cur.ID, Field: field}
	ev, ok := f.text[t]
	if !ok {
		return frame.TextEvent{}
	}
	delete(f.text, t)
	return ev
}

func (f *Frame) Menu(items []frame.MenuItem) (frame.MenuItem, bool) {
	f.cur.Menu = append([]frame.MenuItem(nil), items...)
	item, ok := f.menu[f.cur.ID]
	if !ok {
		return 0, false
	}
	delete(f.menu, f.cur.ID)
	for _, offered := range items {
		if offered == item {
			return item, true
		}
	}
	return 0, false
}

func (f *Frame) TypeSelect(current plist.Kind, options []plist.Kind) (plist.Kind, bool) {
	f.cur.Types = append([]plist.Kind(nil), options...)
	kind, ok := f.types[f.cur.ID]
	if !ok {
		return current, false
	}
	delete(f.types, f.cur.ID)
	if kind == current {
		return current, false
	}
	for _, offered := range options {
		if offered == kind {
			return kind, true
		}
	}
	return current, false
}

func (f *Frame) Summary(text string) {
	f.cur.Summary = text
}

func (f *Frame) Stepper(value float64) (float64, bool) {
	f.cur.Stepper = &value
	next, ok := f.steps[f.cur.ID]
	if !ok {
		return value, false
	}
	delete(f.steps, f.cur.ID)
	return next, true
}

func (f *Frame) Toggle(value bool) (bool, bool) {
	f.cur.Toggle = &value
	if !f.toggles[f.cur.ID] {
		return value, false
	}
	delete(f.toggles, f.cur.ID)
	return !value, true
}

func (f *Frame) EndRow() {
	f.cur = nil
}

var _ frame.Frame = (*Frame)(nil)
