package plist

import (
	"fmt"
	"slices"
)

// Dictionary is an insertion-ordered string-keyed map with unique keys
type Dictionary struct {
	keys   []string
	values map[string]*Value
}

func newDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]*Value)}
}

// Len returns the number of entries
func (d *Dictionary) Len() int { return len(d.keys) }

// Keys returns a copy of the keys in order
func (d *Dictionary) Keys() []string { return slices.Clone(d.keys) }

// Has reports whether key is present
func (d *Dictionary) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the value stored under key
func (d *Dictionary) Get(key string) (*Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Index returns the position of key, or -1
func (d *Dictionary) Index(key string) int {
	if !d.Has(key) {
		return -1
	}
	return slices.Index(d.keys, key)
}

// Set stores v under key. New keys go to the end; existing keys keep
// their position.
func (d *Dictionary) Set(key string, v *Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// InsertAfter stores v under a new key placed directly after anchor
func (d *Dictionary) InsertAfter(anchor, key string, v *Value) error {
	if d.Has(key) {
		return fmt.Errorf("insert %q: %w", key, ErrKeyExists)
	}
	i := d.Index(anchor)
	if i < 0 {
		return fmt.Errorf("anchor %q: %w", anchor, ErrNotFound)
	}
	d.keys = slices.Insert(d.keys, i+1, key)
	d.values[key] = v
	return nil
}

// Delete removes key and returns its value
func (d *Dictionary) Delete(key string) (*Value, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
	return v, true
}

// Rename moves the value stored under from to to, keeping its position.
// It fails without touching the dictionary if to already exists.
func (d *Dictionary) Rename(from, to string) error {
	if from == to {
		return nil
	}
	v, ok := d.values[from]
	if !ok {
		return fmt.Errorf("rename %q: %w", from, ErrNotFound)
	}
	if d.Has(to) {
		return fmt.Errorf("rename %q to %q: %w", from, to, ErrKeyExists)
	}
	d.keys[d.Index(from)] = to
	delete(d.values, from)
	d.values[to] = v
	return nil
}

// SortKeys reorders entries lexicographically by key
func (d *Dictionary) SortKeys() {
	slices.Sort(d.keys)
}

func (d *Dictionary) clone() *Dictionary {
	c := &Dictionary{
		keys:   slices.Clone(d.keys),
		values: make(map[string]*Value, len(d.values)),
	}
	for k, v := range d.values {
		c.values[k] = v.Clone()
	}
	return c
}

func (d *Dictionary) equal(o *Dictionary) bool {
	if !slices.Equal(d.keys, o.keys) {
		return false
	}
	for _, k := range d.keys {
		if !d.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}
