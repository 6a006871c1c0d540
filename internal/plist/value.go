package plist

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindReal
	KindBoolean
	KindData
	KindDate
	KindArray
	KindDictionary
)

// String returns the display name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindBoolean:
		return "Boolean"
	case KindData:
		return "Data"
	case KindDate:
		return "Date"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsContainer reports whether values of this kind have children
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindDictionary
}

// Value is a single node of a property list tree.
//
// Values are mutated in place: a *Value obtained from Resolve stays valid
// until its parent container drops it.
type Value struct {
	kind    Kind
	str     string
	integer int64
	real    float64
	boolean bool
	data    []byte
	date    time.Time
	array   []*Value
	dict    *Dictionary
}

// String creates a string value
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Integer creates an integer value
func Integer(i int64) *Value { return &Value{kind: KindInteger, integer: i} }

// Real creates a real value
func Real(f float64) *Value { return &Value{kind: KindReal, real: f} }

// Boolean creates a boolean value
func Boolean(b bool) *Value { return &Value{kind: KindBoolean, boolean: b} }

// Data creates a data value. The slice is not copied.
func Data(b []byte) *Value {
	if b == nil {
		b = []byte{}
	}
	return &Value{kind: KindData, data: b}
}

// Date creates a date value, truncated to whole seconds in UTC
func Date(t time.Time) *Value {
	return &Value{kind: KindDate, date: t.UTC().Truncate(time.Second)}
}

// NewArray creates an array holding the given elements
func NewArray(elems ...*Value) *Value {
	return &Value{kind: KindArray, array: append([]*Value{}, elems...)}
}

// NewDictionary creates an empty dictionary value
func NewDictionary() *Value {
	return &Value{kind: KindDictionary, dict: newDictionary()}
}

// Default returns the fresh value a node takes when retyped to kind
func Default(kind Kind) *Value {
	switch kind {
	case KindInteger:
		return Integer(0)
	case KindReal:
		return Real(0)
	case KindBoolean:
		return Boolean(false)
	case KindData:
		return Data(nil)
	case KindDate:
		return Date(time.Unix(0, 0))
	case KindArray:
		return NewArray()
	case KindDictionary:
		return NewDictionary()
	default:
		return String("")
	}
}

// Kind returns the variant of v
func (v *Value) Kind() Kind { return v.kind }

// StringValue returns the string payload and whether v is a string
func (v *Value) StringValue() (string, bool) { return v.str, v.kind == KindString }

// IntegerValue returns the integer payload and whether v is an integer
func (v *Value) IntegerValue() (int64, bool) { return v.integer, v.kind == KindInteger }

// RealValue returns the real payload and whether v is a real
func (v *Value) RealValue() (float64, bool) { return v.real, v.kind == KindReal }

// BooleanValue returns the boolean payload and whether v is a boolean
func (v *Value) BooleanValue() (bool, bool) { return v.boolean, v.kind == KindBoolean }

// DataValue returns the data payload and whether v is data
func (v *Value) DataValue() ([]byte, bool) { return v.data, v.kind == KindData }

// DateValue returns the date payload and whether v is a date
func (v *Value) DateValue() (time.Time, bool) { return v.date, v.kind == KindDate }

// Array returns the elements of an array value, or nil
func (v *Value) Array() []*Value {
	if v.kind != KindArray {
		return nil
	}
	return v.array
}

// Dictionary returns the dictionary of a dictionary value, or nil
func (v *Value) Dictionary() *Dictionary {
	if v.kind != KindDictionary {
		return nil
	}
	return v.dict
}

// Len returns the number of children of a container, 0 for scalars
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.array)
	case KindDictionary:
		return v.dict.Len()
	default:
		return 0
	}
}

// Set overwrites v in place with a copy of other's contents.
// Pointers to v stay valid; other should not be used afterwards.
func (v *Value) Set(other *Value) {
	*v = *other
}

// Push appends elem to an array value
func (v *Value) Push(elem *Value) error {
	if v.kind != KindArray {
		return fmt.Errorf("push onto %s: %w", v.kind, ErrNotContainer)
	}
	v.array = append(v.array, elem)
	return nil
}

// RemoveIndex deletes the element at i from an array value
func (v *Value) RemoveIndex(i int) error {
	if v.kind != KindArray {
		return fmt.Errorf("remove index from %s: %w", v.kind, ErrNotContainer)
	}
	if i < 0 || i >= len(v.array) {
		return fmt.Errorf("index %d of %d: %w", i, len(v.array), ErrNotFound)
	}
	v.array = append(v.array[:i], v.array[i+1:]...)
	return nil
}

// Clone returns a deep copy of v
func (v *Value) Clone() *Value {
	c := *v
	switch v.kind {
	case KindData:
		c.data = bytes.Clone(v.data)
		if c.data == nil {
			c.data = []byte{}
		}
	case KindArray:
		c.array = make([]*Value, len(v.array))
		for i, e := range v.array {
			c.array[i] = e.Clone()
		}
	case KindDictionary:
		c.dict = v.dict.clone()
	}
	return &c
}

// Equal reports deep equality, including dictionary key order
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInteger:
		return v.integer == o.integer
	case KindReal:
		return v.real == o.real || (math.IsNaN(v.real) && math.IsNaN(o.real))
	case KindBoolean:
		return v.boolean == o.boolean
	case KindData:
		return bytes.Equal(v.data, o.data)
	case KindDate:
		return v.date.Equal(o.date)
	case KindArray:
		if len(v.array) != len(o.array) {
			return false
		}
		for i := range v.array {
			if !v.array[i].Equal(o.array[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		return v.dict.equal(o.dict)
	}
	return false
}

// GoString renders v compactly for test failures and debug logs
func (v *Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("String(%q)", v.str)
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", v.integer)
	case KindReal:
		return fmt.Sprintf("Real(%g)", v.real)
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", v.boolean)
	case KindData:
		return fmt.Sprintf("Data(%X)", v.data)
	case KindDate:
		return fmt.Sprintf("Date(%s)", v.date.Format(time.RFC3339))
	case KindArray:
		var b bytes.Buffer
		b.WriteString("Array[")
		for i, e := range v.array {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.GoString())
		}
		b.WriteString("]")
		return b.String()
	case KindDictionary:
		var b bytes.Buffer
		b.WriteString("Dictionary{")
		for i, k := range v.dict.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%q: %s", k, v.dict.values[k].GoString())
		}
		b.WriteString("}")
		return b.String()
	}
	return "Invalid"
}
