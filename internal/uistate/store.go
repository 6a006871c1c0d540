// Package uistate keeps transient per-node UI state between rendering
// passes. Nodes are identified by their current path, so a rename or
// reorder starts the moved node from default state.
package uistate

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazyplist/internal/plist"
)

// ID identifies a node by its position in the tree
type ID string

// RootID is the identity of the document root
const RootID ID = "root"

// IDOf derives the identity of the node at path
func IDOf(path plist.Path) ID {
	if len(path) == 0 {
		return RootID
	}
	var b strings.Builder
	b.WriteString(string(RootID))
	for _, seg := range path {
		b.WriteByte('/')
		b.WriteString(strconv.Quote(seg))
	}
	return ID(b.String())
}

// With derives a sub-identity, used for the separate controls of one row
func (id ID) With(suffix string) ID {
	return ID(string(id) + "#" + suffix)
}

// Entry is the state remembered for one identity
type Entry struct {
	Expanded   bool
	EditBuffer *string
}

// Store maps identities to entries. It is owned by the UI goroutine and is
// not safe for concurrent use.
type Store struct {
	entries map[ID]*Entry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{entries: make(map[ID]*Entry)}
}

func (s *Store) entry(id ID) *Entry {
	e, ok := s.entries[id]
	if !ok {
		e = &Entry{Expanded: id == RootID}
		s.entries[id] = e
	}
	return e
}

// Expanded reports whether the node is expanded. The root defaults to
// expanded, everything else to collapsed.
func (s *Store) Expanded(id ID) bool {
	if e, ok := s.entries[id]; ok {
		return e.Expanded
	}
	return id == RootID
}

// SetExpanded records the expansion flag for id
func (s *Store) SetExpanded(id ID, expanded bool) {
	s.entry(id).Expanded = expanded
}

// EditBuffer returns the in-progress text for id, if an edit is active
func (s *Store) EditBuffer(id ID) (string, bool) {
	e, ok := s.entries[id]
	if !ok || e.EditBuffer == nil {
		return "", false
	}
	return *e.EditBuffer, true
}

// SetEditBuffer starts or updates an edit for id
func (s *Store) SetEditBuffer(id ID, text string) {
	s.entry(id).EditBuffer = &text
}

// ClearEditBuffer ends any edit for id
func (s *Store) ClearEditBuffer(id ID) {
	if e, ok := s.entries[id]; ok {
		e.EditBuffer = nil
	}
}

// ActiveEdits returns the identities with an edit in progress, sorted
func (s *Store) ActiveEdits() []ID {
	var ids []ID
	for id, e := range s.entries {
		if e.EditBuffer != nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ExpandedIDs returns every identity whose expansion differs from the
// default, sorted. Collapsed roots are reported with a leading "!".
func (s *Store) ExpandedIDs() []string {
	var ids []string
	for id, e := range s.entries {
		switch {
		case id == RootID && !e.Expanded:
			ids = append(ids, "!"+string(id))
		case id != RootID && e.Expanded:
			ids = append(ids, string(id))
		}
	}
	slices.Sort(ids)
	return ids
}

// RestoreExpanded applies a list produced by ExpandedIDs
func (s *Store) RestoreExpanded(ids []string) {
	for _, raw := range ids {
		if rest, ok := strings.CutPrefix(raw, "!"); ok {
			s.SetExpanded(ID(rest), false)
			continue
		}
		s.SetExpanded(ID(raw), true)
	}
}

// Prune drops entries for which keep returns false
func (s *Store) Prune(keep func(ID) bool) {
	for id := range s.entries {
		if !keep(id) {
			delete(s.entries, id)
		}
	}
}

// Reset forgets all state
func (s *Store) Reset() {
	s.entries = make(map[ID]*Entry)
}

// Len returns the number of tracked identities
func (s *Store) Len() int {
	return len(s.entries)
}
