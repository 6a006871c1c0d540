package editor

import (
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// ClickEdit drives a click-to-edit text control for one pass.
//
// The committed text is shown inert until the frame reports activation.
// While editing, the buffer lives in store under id and is revalidated every
// pass. Confirming a valid buffer calls commit and ends the edit; an invalid
// buffer stays open so the user can correct it. Cancel reverts to the
// committed text. It returns true when commit ran.
func ClickEdit(
	f frame.Frame,
	store *uistate.Store,
	id uistate.ID,
	field frame.Field,
	committed string,
	validate func(string) error,
	commit func(string) error,
) bool {
	buf, editing := store.EditBuffer(id)
	state := frame.TextState{Committed: committed, Editing: editing, Buffer: buf}
	if editing {
		state.Invalid = validate(buf)
	}

	ev := f.TextField(field, state)
	switch ev.Type {
	case frame.TextActivate:
		if !editing {
			store.SetEditBuffer(id, committed)
		}
	case frame.TextChange:
		if editing {
			store.SetEditBuffer(id, ev.Text)
		}
	case frame.TextConfirm:
		if !editing {
			return false
		}
		store.SetEditBuffer(id, ev.Text)
		if validate(ev.Text) != nil {
			return false
		}
		if ev.Text == committed {
			store.ClearEditBuffer(id)
			return false
		}
		if err := commit(ev.Text); err != nil {
			return false
		}
		store.ClearEditBuffer(id)
		return true
	case frame.TextCancel:
		store.ClearEditBuffer(id)
	}
	return false
}
