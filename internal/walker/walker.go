// Package walker renders a plist tree one row per node through a
// frame.Frame, applying the edits the frame reports as it goes.
//
// A pass visits nodes depth first in container order. Every node is
// resolved from the root by its path at the moment it is visited, and a
// structural edit made by one row is visible to the rows after it. A row
// whose node was deleted or changed shape reports Removed and renders
// nothing further, so no stale path is ever resolved.
package walker

import (
	"fmt"
	"log"

	"github.com/rebeliceyang/lazyplist/internal/editor"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

// RootLabel is the key text shown for the document root
const RootLabel = "Root"

// keyField is the sub-identity of a row's key editor
const keyField = "key"

// Document is the shared tree a walker renders. Update runs fn with the
// root while holding the document's lock; fn reports whether it modified
// the tree.
type Document interface {
	Update(fn func(root *plist.Value) bool)
}

// Options adjusts a walker
type Options struct {
	// AllowScalarRoot offers scalar kinds in the root's type selector
	AllowScalarRoot bool
	// Trace, when set, receives every path the walker resolves
	Trace func(plist.Path)
}

// Walker renders passes over one document
type Walker struct {
	doc   Document
	store *uistate.Store
	opts  Options
}

// New creates a walker. store holds expansion and edit state between
// passes and must only be used from the calling goroutine.
func New(doc Document, store *uistate.Store, opts Options) *Walker {
	return &Walker{doc: doc, store: store, opts: opts}
}

// Store returns the UI state store
func (w *Walker) Store() *uistate.Store {
	return w.store
}

// Walk runs one pass over the whole document, holding its lock throughout,
// and returns the root row's outcome
func (w *Walker) Walk(f frame.Frame) Outcome {
	var out Outcome
	w.doc.Update(func(root *plist.Value) bool {
		p := &pass{Walker: w, f: f, root: root}
		out, _ = p.row(nil, 0, plist.KindDictionary)
		return out != Unchanged
	})
	return out
}

// pass is the state of a single walk
type pass struct {
	*Walker
	f    frame.Frame
	root *plist.Value
}

// resolve finds the node at path. A failure means a stale path escaped the
// Removed short-circuit, which is a bug.
func (p *pass) resolve(path plist.Path) *plist.Value {
	if p.opts.Trace != nil {
		p.opts.Trace(path)
	}
	v, err := plist.Resolve(p.root, path)
	if err != nil {
		panic(fmt.Errorf("walker: resolve %s: %w", path, err))
	}
	return v
}

// row renders the node at path and, if it is an expanded container, its
// children. parentKind is ignored for the root. deleted reports that the
// node no longer exists in its parent.
func (p *pass) row(path plist.Path, depth int, parentKind plist.Kind) (out Outcome, deleted bool) {
	node := p.resolve(path)
	kind := node.Kind()
	id := uistate.IDOf(path)

	p.f.BeginRow(frame.Row{ID: id, Path: path, Depth: depth, Kind: kind})

	expanded := false
	if kind.IsContainer() {
		expanded = p.store.Expanded(id)
		if p.f.Disclosure(expanded) {
			expanded = !expanded
			p.store.SetExpanded(id, expanded)
		}
	}

	switch {
	case path.IsRoot():
		p.f.Label(RootLabel)
	case parentKind == plist.KindDictionary:
		if renamed, ok := p.keyEditor(path, id); ok {
			path = renamed
			id = uistate.IDOf(path)
			if expanded {
				p.store.SetExpanded(id, true)
			}
			out = Changed
		}
	default:
		p.f.Label(path.Last())
	}

	if item, ok := p.f.Menu(menuItems(kind, path.IsRoot())); ok {
		res, err := p.applyMenu(item, path, node)
		if err != nil {
			log.Printf("walker: %v", err)
		}
		if res == Removed {
			p.f.EndRow()
			return Removed, true
		}
		if res == Changed && item == frame.MenuAddChild && !expanded {
			expanded = true
			p.store.SetExpanded(id, true)
		}
		out = out.Max(res)
	}

	if next, ok := p.f.TypeSelect(kind, typeOptions(path.IsRoot(), p.opts.AllowScalarRoot)); ok && next != kind {
		crossed := next.IsContainer() != kind.IsContainer()
		node.Set(plist.Default(next))
		p.store.ClearEditBuffer(id)
		if crossed {
			p.f.EndRow()
			return Removed, false
		}
		kind = next
		out = Changed
	}

	if kind.IsContainer() {
		p.f.Summary(summary(node))
	} else if editor.For(kind).Show(p.f, p.store, id, node) {
		out = Changed
	}
	p.f.EndRow()

	if expanded && kind.IsContainer() {
		out = out.Max(p.children(path, depth+1, kind))
	}
	return out, false
}

// keyEditor renders the editable key of a dictionary entry and applies a
// rename, returning the entry's new path
func (p *pass) keyEditor(path plist.Path, id uistate.ID) (plist.Path, bool) {
	key := path.Last()
	var renamed plist.Path
	validate := func(text string) error {
		if text == key {
			return nil
		}
		if p.resolve(path.Parent()).Dictionary().Has(text) {
			return fmt.Errorf("%q: %w", text, plist.ErrKeyExists)
		}
		return nil
	}
	commit := func(text string) error {
		if err := p.resolve(path.Parent()).Dictionary().Rename(key, text); err != nil {
			return err
		}
		renamed = path.WithLast(text)
		return nil
	}
	if !editor.ClickEdit(p.f, p.store, id.With(keyField), frame.FieldKey, key, validate, commit) {
		return nil, false
	}
	return renamed, true
}

// children renders the children of the container at path. The child list
// is re-read after any child reports a change: a deleted child's index is
// taken by the next sibling, renames keep their position, and duplicates
// land after the original so they are visited in the same pass.
func (p *pass) children(path plist.Path, depth int, kind plist.Kind) Outcome {
	out := Unchanged
	keys := p.childKeys(path)
	for i := 0; i < len(keys); {
		res, deleted := p.row(path.Child(keys[i]), depth, kind)
		if res == Unchanged {
			i++
			continue
		}
		out = out.Max(res.AsChild())
		keys = p.childKeys(path)
		if !deleted {
			i++
		}
	}
	return out
}

func (p *pass) childKeys(path plist.Path) []string {
	keys, err := p.resolve(path).ChildKeys()
	if err != nil {
		panic(fmt.Errorf("walker: child keys of %s: %w", path, err))
	}
	return keys
}
