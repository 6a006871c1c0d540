package components

import (
	"strconv"

	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// Input is one user action addressed to a row. The zero Input targets
// nothing and renders a pass without side effects.
type Input struct {
	Target uistate.ID

	Disclose bool

	Field frame.Field
	Text  frame.TextEvent

	Menu    frame.MenuItem
	HasMenu bool

	Kind    plist.Kind
	HasKind bool

	Step   int // -1 or +1 stepper clicks
	Toggle bool
}

// Empty reports whether the input carries no action
func (in Input) Empty() bool {
	return !in.Disclose && in.Text.Type == frame.TextNone && !in.HasMenu &&
		!in.HasKind && in.Step == 0 && !in.Toggle
}

// RowView is everything a pass drew for one row
type RowView struct {
	frame.Row

	Expandable bool
	Expanded   bool

	Label string           // display-only key
	Key   *frame.TextState // editable key, nil when Label is used
	Value *frame.TextState // click-to-edit value

	Summary string
	Real    *float64
	Bool    *bool

	Menu  []frame.MenuItem
	Types []plist.Kind
}

// KeyText returns the committed key or label
func (r RowView) KeyText() string {
	if r.Key != nil {
		return r.Key.Committed
	}
	return r.Label
}

// ValueText returns the committed value as displayed
func (r RowView) ValueText() string {
	switch {
	case r.Value != nil:
		return r.Value.Committed
	case r.Real != nil:
		return formatReal(*r.Real)
	case r.Bool != nil:
		return strconv.FormatBool(*r.Bool)
	default:
		return r.Summary
	}
}

// Offers reports whether the row's context menu contains item
func (r RowView) Offers(item frame.MenuItem) bool {
	for _, m := range r.Menu {
		if m == item {
			return true
		}
	}
	return false
}

// EditState returns the text state of a field, or nil if the row has no
// editable text there
func (r RowView) EditState(field frame.Field) *frame.TextState {
	if field == frame.FieldKey {
		return r.Key
	}
	return r.Value
}

// TerminalFrame is the frame.Frame used by the terminal UI. It records each
// row for TreeView and hands the pending Input to the first row whose
// identity matches its target.
type TerminalFrame struct {
	Rows []RowView

	input     Input
	step      float64
	delivered bool
	cur       int
}

// NewTerminalFrame creates a frame for one pass. step is the real stepper
// increment.
func NewTerminalFrame(input Input, step float64) *TerminalFrame {
	if step <= 0 {
		step = 1
	}
	return &TerminalFrame{input: input, step: step, cur: -1}
}

// Delivered reports whether the input reached its row
func (f *TerminalFrame) Delivered() bool {
	return f.delivered
}

func (f *TerminalFrame) row() *RowView {
	return &f.Rows[f.cur]
}

// takes reports whether the current row is the input's target, and marks
// the input delivered when ok is true
func (f *TerminalFrame) takes(ok bool) bool {
	if !ok || f.delivered || f.input.Empty() || f.row().ID != f.input.Target {
		return false
	}
	f.delivered = true
	return true
}

func (f *TerminalFrame) BeginRow(row frame.Row) {
	f.Rows = append(f.Rows, RowView{Row: row})
	f.cur = len(f.Rows) - 1
}

func (f *TerminalFrame) Disclosure(expanded bool) bool {
	r := f.row()
	r.Expandable = true
	r.Expanded = expanded
	if f.takes(f.input.Disclose) {
		r.Expanded = !expanded
		return true
	}
	return false
}

func (f *TerminalFrame) Label(text string) {
	f.row().Label = text
}

func (f *TerminalFrame) TextField(field frame.Field, state frame.TextState) frame.TextEvent {
	st := state
	if field == frame.FieldKey {
		f.row().Key = &st
	} else {
		f.row().Value = &st
	}
	if f.takes(f.input.Text.Type != frame.TextNone && f.input.Field == field) {
		return f.input.Text
	}
	return frame.TextEvent{}
}

func (f *TerminalFrame) Menu(items []frame.MenuItem) (frame.MenuItem, bool) {
	r := f.row()
	r.Menu = append([]frame.MenuItem(nil), items...)
	if !f.input.HasMenu || !r.Offers(f.input.Menu) {
		return 0, false
	}
	if f.takes(true) {
		return f.input.Menu, true
	}
	return 0, false
}

func (f *TerminalFrame) TypeSelect(current plist.Kind, options []plist.Kind) (plist.Kind, bool) {
	f.row().Types = append([]plist.Kind(nil), options...)
	if !f.input.HasKind || f.input.Kind == current {
		return current, false
	}
	offered := false
	for _, k := range options {
		if k == f.input.Kind {
			offered = true
		}
	}
	if f.takes(offered) {
		return f.input.Kind, true
	}
	return current, false
}

func (f *TerminalFrame) Summary(text string) {
	f.row().Summary = text
}

func (f *TerminalFrame) Stepper(value float64) (float64, bool) {
	v := value
	f.row().Real = &v
	if f.takes(f.input.Step != 0) {
		next := value + float64(f.input.Step)*f.step
		f.row().Real = &next
		return next, true
	}
	return value, false
}

func (f *TerminalFrame) Toggle(value bool) (bool, bool) {
	v := value
	f.row().Bool = &v
	if f.takes(f.input.Toggle) {
		next := !value
		f.row().Bool = &next
		return next, true
	}
	return value, false
}

func (f *TerminalFrame) EndRow() {}

var _ frame.Frame = (*TerminalFrame)(nil)

func formatReal(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
