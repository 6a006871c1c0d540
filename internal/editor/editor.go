// Package editor renders and edits scalar plist values. Each scalar kind has
// an Editor; containers have none and are summarized by the tree walker.
package editor

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

var (
	ErrInvalidInteger = errors.New("not a signed 64-bit integer")
	ErrOddHexLength   = errors.New("hex must have an even number of digits")
	ErrInvalidHex     = errors.New("not valid hexadecimal")
	ErrInvalidDate    = errors.New("not an RFC 3339 date")
)

// Editor shows the value control for one scalar node and applies any input
// the frame reports. Show returns true when the node's value changed.
type Editor interface {
	Show(f frame.Frame, store *uistate.Store, id uistate.ID, node *plist.Value) bool
}

// For returns the editor for kind, or nil for containers
func For(kind plist.Kind) Editor {
	switch kind {
	case plist.KindString:
		return String
	case plist.KindInteger:
		return Integer
	case plist.KindData:
		return Data
	case plist.KindDate:
		return Date
	case plist.KindReal:
		return Real{}
	case plist.KindBoolean:
		return Boolean{}
	default:
		return nil
	}
}

// Text is a click-to-edit editor converting between display text and a
// typed value
type Text struct {
	Format   func(v *plist.Value) string
	Validate func(text string) error
	Parse    func(text string) *plist.Value // only called with validated text
}

// Show implements Editor
func (e Text) Show(f frame.Frame, store *uistate.Store, id uistate.ID, node *plist.Value) bool {
	return ClickEdit(f, store, id, frame.FieldValue, e.Format(node), e.Validate, func(text string) error {
		node.Set(e.Parse(text))
		return nil
	})
}

var (
	// String accepts any text verbatim
	String = Text{
		Format: func(v *plist.Value) string {
			s, _ := v.StringValue()
			return s
		},
		Validate: func(string) error { return nil },
		Parse:    func(text string) *plist.Value { return plist.String(text) },
	}

	// Integer edits the decimal form of a signed 64-bit integer
	Integer = Text{
		Format: func(v *plist.Value) string {
			i, _ := v.IntegerValue()
			return strconv.FormatInt(i, 10)
		},
		Validate: ValidateInteger,
		Parse: func(text string) *plist.Value {
			i, _ := strconv.ParseInt(text, 10, 64)
			return plist.Integer(i)
		},
	}

	// Data edits bytes as uppercase hexadecimal
	Data = Text{
		Format: func(v *plist.Value) string {
			b, _ := v.DataValue()
			return FormatData(b)
		},
		Validate: ValidateData,
		Parse: func(text string) *plist.Value {
			b, _ := hex.DecodeString(text)
			return plist.Data(b)
		},
	}

	// Date edits an RFC 3339 timestamp
	Date = Text{
		Format: func(v *plist.Value) string {
			t, _ := v.DateValue()
			return t.UTC().Format(time.RFC3339)
		},
		Validate: ValidateDate,
		Parse: func(text string) *plist.Value {
			t, _ := time.Parse(time.RFC3339, strings.TrimSpace(text))
			return plist.Date(t)
		},
	}
)

// ValidateInteger accepts decimal signed 64-bit integers
func ValidateInteger(text string) error {
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return fmt.Errorf("%q: %w", text, ErrInvalidInteger)
	}
	return nil
}

// ValidateData accepts an even number of hex digits
func ValidateData(text string) error {
	if len(text)%2 != 0 {
		return fmt.Errorf("%q: %w", text, ErrOddHexLength)
	}
	if _, err := hex.DecodeString(text); err != nil {
		return fmt.Errorf("%q: %w", text, ErrInvalidHex)
	}
	return nil
}

// ValidateDate accepts RFC 3339 timestamps
func ValidateDate(text string) error {
	if _, err := time.Parse(time.RFC3339, strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("%q: %w", text, ErrInvalidDate)
	}
	return nil
}

// FormatData renders bytes as uppercase hexadecimal
func FormatData(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Real is a stepper; every step commits immediately. The step size belongs
// to the frame.
type Real struct{}

// Show implements Editor
func (Real) Show(f frame.Frame, _ *uistate.Store, _ uistate.ID, node *plist.Value) bool {
	cur, _ := node.RealValue()
	next, ok := f.Stepper(cur)
	if !ok || next == cur {
		return false
	}
	node.Set(plist.Real(next))
	return true
}

// Boolean is a checkbox; every click commits immediately
type Boolean struct{}

// Show implements Editor
func (Boolean) Show(f frame.Frame, _ *uistate.Store, _ uistate.ID, node *plist.Value) bool {
	cur, _ := node.BooleanValue()
	next, ok := f.Toggle(cur)
	if !ok || next == cur {
		return false
	}
	node.Set(plist.Boolean(next))
	return true
}
