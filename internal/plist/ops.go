package plist

import (
	"fmt"
	"strings"
)

// NewChildKey is the base name for entries created by AddChild
const NewChildKey = "New Child"

const duplicateSuffix = " Duplicate"

// UniqueKey returns a key for d derived from base. If neither base nor any
// "base Duplicate ... Duplicate" key exists, base itself is returned;
// otherwise the longest such key gains one more " Duplicate" suffix.
func UniqueKey(d *Dictionary, base string) string {
	highest := -1
	for _, k := range d.keys {
		if n, ok := duplicateDepth(k, base); ok && n > highest {
			highest = n
		}
	}
	if highest < 0 {
		return base
	}
	key := base + strings.Repeat(duplicateSuffix, highest+1)
	for d.Has(key) {
		key += duplicateSuffix
	}
	return key
}

// duplicateDepth reports how many " Duplicate" suffixes separate key from base
func duplicateDepth(key, base string) (int, bool) {
	rest, ok := strings.CutPrefix(key, base)
	if !ok {
		return 0, false
	}
	n := 0
	for rest != "" {
		rest, ok = strings.CutPrefix(rest, duplicateSuffix)
		if !ok {
			return 0, false
		}
		n++
	}
	return n, true
}

// AddChild appends an empty string child to a container. Dictionaries get a
// generated key, which is returned; arrays return the new index.
func AddChild(node *Value) (string, error) {
	switch node.kind {
	case KindDictionary:
		key := UniqueKey(node.dict, NewChildKey)
		node.dict.Set(key, String(""))
		return key, nil
	case KindArray:
		node.array = append(node.array, String(""))
		return fmt.Sprint(len(node.array) - 1), nil
	default:
		return "", fmt.Errorf("add child to %s: %w", node.kind, ErrNotContainer)
	}
}

// DuplicateChild copies the child seg of parent. Dictionary copies are placed
// right after the original under a generated key; array copies are appended.
// The segment of the copy is returned.
func DuplicateChild(parent *Value, seg string) (string, error) {
	orig, err := child(parent, seg)
	if err != nil {
		return "", err
	}
	switch parent.kind {
	case KindDictionary:
		key := UniqueKey(parent.dict, seg)
		if err := parent.dict.InsertAfter(seg, key, orig.Clone()); err != nil {
			return "", err
		}
		return key, nil
	default:
		parent.array = append(parent.array, orig.Clone())
		return fmt.Sprint(len(parent.array) - 1), nil
	}
}

// RemoveChild deletes the child seg from parent
func RemoveChild(parent *Value, seg string) error {
	switch parent.kind {
	case KindDictionary:
		if _, ok := parent.dict.Delete(seg); !ok {
			return fmt.Errorf("remove key %q: %w", seg, ErrNotFound)
		}
		return nil
	case KindArray:
		i, err := parseIndex(seg)
		if err != nil {
			return err
		}
		return parent.RemoveIndex(i)
	default:
		return fmt.Errorf("remove %q from %s: %w", seg, parent.kind, ErrNotContainer)
	}
}

// SortKeys sorts a dictionary node's keys lexicographically
func SortKeys(node *Value) error {
	if node.kind != KindDictionary {
		return fmt.Errorf("sort %s: %w", node.kind, ErrNotContainer)
	}
	node.dict.SortKeys()
	return nil
}
