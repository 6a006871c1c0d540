package plist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func dictWithKeys(keys ...string) *Value {
	v := NewDictionary()
	for _, k := range keys {
		v.Dictionary().Set(k, String(k))
	}
	return v
}

func TestUniqueKey(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		base string
		want string
	}{
		{"empty dictionary", nil, "New Child", "New Child"},
		{"base free", []string{"A"}, "New Child", "New Child"},
		{"base taken", []string{"New Child"}, "New Child", "New Child Duplicate"},
		{"first duplicate", []string{"A"}, "A", "A Duplicate"},
		{"second duplicate", []string{"A", "A Duplicate"}, "A", "A Duplicate Duplicate"},
		{"highest wins", []string{"A Duplicate Duplicate", "A", "A Duplicate"}, "A", "A Duplicate Duplicate Duplicate"},
		{"ignores other prefixes", []string{"A", "AB Duplicate"}, "A", "A Duplicate"},
		{"duplicate of duplicate", []string{"A", "A Duplicate"}, "A Duplicate", "A Duplicate Duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueKey(dictWithKeys(tt.keys...).Dictionary(), tt.base)
			if got != tt.want {
				t.Errorf("UniqueKey(%v, %q) = %q, want %q", tt.keys, tt.base, got, tt.want)
			}
		})
	}
}

func TestDuplicateChild_Naming(t *testing.T) {
	root := dictWithKeys("A")

	first, err := DuplicateChild(root, "A")
	if err != nil {
		t.Fatalf("DuplicateChild failed: %v", err)
	}
	if first != "A Duplicate" {
		t.Errorf("Expected 'A Duplicate', got %q", first)
	}

	second, err := DuplicateChild(root, "A")
	if err != nil {
		t.Fatalf("DuplicateChild failed: %v", err)
	}
	if second != "A Duplicate Duplicate" {
		t.Errorf("Expected 'A Duplicate Duplicate', got %q", second)
	}

	third, err := DuplicateChild(root, "A")
	if err != nil {
		t.Fatalf("DuplicateChild failed: %v", err)
	}
	if third == first || third == second || third == "A" {
		t.Errorf("Third duplicate %q collides with an existing key", third)
	}
	if root.Len() != 4 {
		t.Errorf("Expected 4 entries, got %d", root.Len())
	}
}

func TestDuplicateChild_PlacedAfterOriginal(t *testing.T) {
	root := dictWithKeys("A", "B", "C")
	if _, err := DuplicateChild(root, "B"); err != nil {
		t.Fatalf("DuplicateChild failed: %v", err)
	}
	want := []string{"A", "B", "B Duplicate", "C"}
	if diff := cmp.Diff(want, root.Dictionary().Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	orig, _ := root.Dictionary().Get("B")
	dup, _ := root.Dictionary().Get("B Duplicate")
	if orig == dup {
		t.Error("Duplicate shares the original node")
	}
	if !orig.Equal(dup) {
		t.Errorf("Duplicate %#v differs from original %#v", dup, orig)
	}
}

func TestDuplicateChild_ArrayAppends(t *testing.T) {
	root := NewArray(Integer(1), Integer(2))
	seg, err := DuplicateChild(root, "0")
	if err != nil {
		t.Fatalf("DuplicateChild failed: %v", err)
	}
	if seg != "2" {
		t.Errorf("Expected new index 2, got %q", seg)
	}
	if !root.Equal(NewArray(Integer(1), Integer(2), Integer(1))) {
		t.Errorf("Unexpected array %#v", root)
	}
}

func TestKeyUniquenessAfterMixedOperations(t *testing.T) {
	root := NewDictionary()
	d := root.Dictionary()
	for i := 0; i < 3; i++ {
		if _, err := AddChild(root); err != nil {
			t.Fatalf("AddChild failed: %v", err)
		}
	}
	for _, k := range d.Keys() {
		if _, err := DuplicateChild(root, k); err != nil {
			t.Fatalf("DuplicateChild(%q) failed: %v", k, err)
		}
	}
	if err := d.Rename("New Child", "New Child Duplicate"); !errors.Is(err, ErrKeyExists) {
		t.Errorf("Expected ErrKeyExists, got %v", err)
	}

	seen := map[string]bool{}
	for _, k := range d.Keys() {
		if seen[k] {
			t.Errorf("Duplicate key %q", k)
		}
		seen[k] = true
	}
	if len(seen) != 6 {
		t.Errorf("Expected 6 keys, got %d", len(seen))
	}
}

func TestAddChild(t *testing.T) {
	dict := NewDictionary()
	key, err := AddChild(dict)
	if err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	if key != NewChildKey {
		t.Errorf("Expected %q, got %q", NewChildKey, key)
	}
	child, _ := dict.Dictionary().Get(key)
	if s, ok := child.StringValue(); !ok || s != "" {
		t.Errorf("Expected empty string child, got %#v", child)
	}

	arr := NewArray(Boolean(true))
	idx, err := AddChild(arr)
	if err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	if idx != "1" || arr.Len() != 2 {
		t.Errorf("Expected append at index 1, got %q (len %d)", idx, arr.Len())
	}

	if _, err := AddChild(Integer(3)); !errors.Is(err, ErrNotContainer) {
		t.Errorf("Expected ErrNotContainer, got %v", err)
	}
}

func TestRemoveChild(t *testing.T) {
	root := dictWithKeys("a", "b")
	if err := RemoveChild(root, "a"); err != nil {
		t.Fatalf("RemoveChild failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, root.Dictionary().Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if err := RemoveChild(root, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	arr := NewArray(Integer(0), Integer(1), Integer(2))
	if err := RemoveChild(arr, "1"); err != nil {
		t.Fatalf("RemoveChild failed: %v", err)
	}
	if !arr.Equal(NewArray(Integer(0), Integer(2))) {
		t.Errorf("Unexpected array %#v", arr)
	}
	if err := RemoveChild(arr, "x"); !errors.Is(err, ErrBadIndex) {
		t.Errorf("Expected ErrBadIndex, got %v", err)
	}
}

func TestSortKeys(t *testing.T) {
	root := dictWithKeys("Zebra", "Alpha", "Mike")
	if err := SortKeys(root); err != nil {
		t.Fatalf("SortKeys failed: %v", err)
	}
	keys, err := ChildKeys(root, nil)
	if err != nil {
		t.Fatalf("ChildKeys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Alpha", "Mike", "Zebra"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := SortKeys(NewArray()); !errors.Is(err, ErrNotContainer) {
		t.Errorf("Expected ErrNotContainer, got %v", err)
	}
}

func TestDictionaryRename(t *testing.T) {
	root := dictWithKeys("a", "b", "c")
	d := root.Dictionary()

	if err := d.Rename("b", "z"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "z", "c"}, d.Keys()); diff != "" {
		t.Errorf("Rename should keep position (-want +got):\n%s", diff)
	}

	before := root.Clone()
	if err := d.Rename("a", "c"); !errors.Is(err, ErrKeyExists) {
		t.Fatalf("Expected ErrKeyExists, got %v", err)
	}
	if !root.Equal(before) {
		t.Errorf("Rejected rename modified the dictionary: %#v", root)
	}
}

func TestDefault(t *testing.T) {
	for _, kind := range []Kind{KindString, KindInteger, KindReal, KindBoolean, KindData, KindDate, KindArray, KindDictionary} {
		v := Default(kind)
		if v.Kind() != kind {
			t.Errorf("Default(%s) has kind %s", kind, v.Kind())
		}
		if kind.IsContainer() && v.Len() != 0 {
			t.Errorf("Default(%s) is not empty", kind)
		}
	}
}

func TestTypeChangeDiscardsChildren(t *testing.T) {
	root := NewDictionary()
	root.Dictionary().Set("d", dictWithKeys("x", "y", "z"))

	if err := Replace(root, Path{"d"}, Default(KindBoolean)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	got, _ := Get(root, Path{"d"})
	if b, ok := got.BooleanValue(); !ok || b {
		t.Errorf("Expected Boolean(false), got %#v", got)
	}

	if err := Replace(root, Path{"d"}, Default(KindDictionary)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	got, _ = Get(root, Path{"d"})
	if got.Kind() != KindDictionary || got.Len() != 0 {
		t.Errorf("Expected empty Dictionary, got %#v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewArray(Data([]byte{1, 2}), dictWithKeys("k"))
	c := orig.Clone()

	data, _ := c.Array()[0].DataValue()
	data[0] = 9
	c.Array()[1].Dictionary().Set("new", Integer(1))

	if b, _ := orig.Array()[0].DataValue(); b[0] != 1 {
		t.Error("Clone shares data bytes")
	}
	if orig.Array()[1].Len() != 1 {
		t.Error("Clone shares dictionary")
	}
}
