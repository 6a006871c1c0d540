package plist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a key or index does not exist
	ErrNotFound = errors.New("no such node")
	// ErrBadIndex is returned when an array segment is not a decimal index
	ErrBadIndex = errors.New("invalid array index")
	// ErrNotContainer is returned when a path walks through a scalar
	ErrNotContainer = errors.New("not a container")
	// ErrKeyExists is returned when a dictionary key would be duplicated
	ErrKeyExists = errors.New("key already exists")
)

// Path locates a node from the root. Array segments are decimal indices,
// dictionary segments are literal keys. The empty path is the root.
type Path []string

// IsRoot reports whether p addresses the root
func (p Path) IsRoot() bool { return len(p) == 0 }

// Child returns a new path extended by seg
func (p Path) Child(seg string) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, seg)
}

// Parent returns the path of the enclosing container. The root's parent is
// the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment, or "" for the root
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// WithLast returns a copy of p whose final segment is seg
func (p Path) WithLast(seg string) Path {
	if len(p) == 0 {
		return p
	}
	return p.Parent().Child(seg)
}

// Equal reports whether both paths have the same segments
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p or one of its ancestors
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// String renders p as Root/seg/seg
func (p Path) String() string {
	return strings.Join(append([]string{"Root"}, p...), "/")
}

// Resolve walks path from root and returns the addressed node. The returned
// pointer may be mutated in place.
func Resolve(root *Value, path Path) (*Value, error) {
	cur := root
	for i, seg := range path {
		next, err := child(cur, seg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", Path(path[:i+1]), err)
		}
		cur = next
	}
	return cur, nil
}

// Get is the lookup form of Resolve that reports absence instead of an error
func Get(root *Value, path Path) (*Value, bool) {
	v, err := Resolve(root, path)
	return v, err == nil
}

// Replace overwrites the node at path with v
func Replace(root *Value, path Path, v *Value) error {
	node, err := Resolve(root, path)
	if err != nil {
		return err
	}
	node.Set(v)
	return nil
}

// ChildKeys returns the child segments of the container at path: keys in
// insertion order for a dictionary, decimal indices for an array.
func ChildKeys(root *Value, path Path) ([]string, error) {
	node, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	return node.ChildKeys()
}

// ChildKeys returns the child segments of v
func (v *Value) ChildKeys() ([]string, error) {
	switch v.kind {
	case KindDictionary:
		return v.dict.Keys(), nil
	case KindArray:
		keys := make([]string, len(v.array))
		for i := range v.array {
			keys[i] = strconv.Itoa(i)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("children of %s: %w", v.kind, ErrNotContainer)
	}
}

// Child returns the direct child of v addressed by seg
func (v *Value) Child(seg string) (*Value, error) {
	return child(v, seg)
}

func child(v *Value, seg string) (*Value, error) {
	switch v.kind {
	case KindDictionary:
		c, ok := v.dict.Get(seg)
		if !ok {
			return nil, fmt.Errorf("key %q: %w", seg, ErrNotFound)
		}
		return c, nil
	case KindArray:
		i, err := parseIndex(seg)
		if err != nil {
			return nil, err
		}
		if i >= len(v.array) {
			return nil, fmt.Errorf("index %d of %d: %w", i, len(v.array), ErrNotFound)
		}
		return v.array[i], nil
	default:
		return nil, fmt.Errorf("segment %q in %s: %w", seg, v.kind, ErrNotContainer)
	}
}

func parseIndex(seg string) (int, error) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || strconv.Itoa(i) != seg {
		return 0, fmt.Errorf("segment %q: %w", seg, ErrBadIndex)
	}
	return i, nil
}
