package walker

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rebeliceyang/lazyplist/internal/plist"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame"
	"github.com/rebeliceyang/lazyplist/internal/ui/frame/frametest"
	"github.com/rebeliceyang/lazyplist/internal/uistate"
)

type memDoc struct {
	root  *plist.Value
	dirty bool
}

func (d *memDoc) Update(fn func(root *plist.Value) bool) {
	if fn(d.root) {
		d.dirty = true
	}
}

func dict(pairs ...any) *plist.Value {
	v := plist.NewDictionary()
	for i := 0; i < len(pairs); i += 2 {
		v.Dictionary().Set(pairs[i].(string), pairs[i+1].(*plist.Value))
	}
	return v
}

func id(segs ...string) uistate.ID {
	return uistate.IDOf(plist.Path(segs))
}

func newWalker(root *plist.Value, opts Options) (*Walker, *memDoc) {
	doc := &memDoc{root: root}
	return New(doc, uistate.NewStore(), opts), doc
}

func TestWalk_RowsInOrder(t *testing.T) {
	w, doc := newWalker(dict(
		"b", plist.Integer(1),
		"a", plist.NewArray(plist.String("x")),
	), Options{})

	f := frametest.New()
	if out := w.Walk(f); out != Unchanged {
		t.Errorf("Expected Unchanged, got %s", out)
	}
	if doc.dirty {
		t.Error("A pass without input must not dirty the document")
	}
	if diff := cmp.Diff([]string{"Root", "Root/b", "Root/a"}, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	root, _ := f.Find(uistate.RootID)
	if root.Label != RootLabel || root.HasKey {
		t.Errorf("Root key should be the display-only label, got %+v", root)
	}
	if root.Summary != "2 key/value pairs" {
		t.Errorf("Unexpected root summary %q", root.Summary)
	}
	b, _ := f.Find(id("b"))
	if !b.HasKey || b.Key.Committed != "b" || b.Value.Committed != "1" {
		t.Errorf("Unexpected row for b: %+v", b)
	}
	a, _ := f.Find(id("a"))
	if a.Summary != "1 ordered object" {
		t.Errorf("Unexpected array summary %q", a.Summary)
	}
	if a.Expanded == nil || *a.Expanded {
		t.Error("Array should be drawn collapsed")
	}

	// Expanding shows the index row with a display-only key
	w.Walk(frametest.New().Disclose(id("a")))
	f = frametest.New()
	w.Walk(f)
	if diff := cmp.Diff([]string{"Root", "Root/b", "Root/a", "Root/a/0"}, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch after expand (-want +got):\n%s", diff)
	}
	elem, _ := f.Find(id("a", "0"))
	if elem.HasKey || elem.Label != "0" || elem.Depth != 2 {
		t.Errorf("Array element should show its index as a label, got %+v", elem)
	}
	if doc.dirty {
		t.Error("Expanding must not dirty the document")
	}
}

func TestWalk_RemoveShortCircuit(t *testing.T) {
	root := dict("a", dict("b", dict("c", plist.Integer(1))), "z", plist.String("after"))
	var trace []string
	w, doc := newWalker(root, Options{Trace: func(p plist.Path) { trace = append(trace, p.String()) }})
	w.Store().SetExpanded(id("a"), true)
	w.Store().SetExpanded(id("a", "b"), true)

	// Sanity: without the removal the grandchild is visited
	w.Walk(frametest.New())
	if !contains(trace, "Root/a/b/c") {
		t.Fatalf("Expected Root/a/b/c to be resolved, trace: %v", trace)
	}

	trace = nil
	f := frametest.New().Choose(id("a", "b"), frame.MenuRemove)
	out := w.Walk(f)

	if contains(trace, "Root/a/b/c") {
		t.Errorf("Stale path resolved after removal, trace: %v", trace)
	}
	if out != Changed {
		t.Errorf("A removed descendant should yield Changed at the root, got %s", out)
	}
	if !doc.dirty {
		t.Error("Expected document marked dirty")
	}
	a, _ := plist.Get(root, plist.Path{"a"})
	if a.Len() != 0 {
		t.Errorf("Expected b removed from a, got %#v", a)
	}
	// Later siblings are still rendered
	if !contains(f.Paths(), "Root/z") {
		t.Errorf("Expected sibling z to be rendered, got %v", f.Paths())
	}
}

func TestWalk_ArrayRemoveShiftsLaterSiblings(t *testing.T) {
	root := plist.NewArray(plist.String("x"), plist.String("y"), plist.String("z"))
	w, _ := newWalker(root, Options{})

	f := frametest.New().Choose(id("0"), frame.MenuRemove)
	w.Walk(f)

	want := []string{"Root", "Root/0", "Root/0", "Root/1"}
	if diff := cmp.Diff(want, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	// The second Root/0 row shows y, the element that slid into place
	if got := f.Rows[2].Value.Committed; got != "y" {
		t.Errorf("Expected y at the shifted index, got %q", got)
	}
	if !root.Equal(plist.NewArray(plist.String("y"), plist.String("z"))) {
		t.Errorf("Unexpected array %#v", root)
	}
}

func TestWalk_RenameRejectedForExistingKey(t *testing.T) {
	root := dict("A", plist.Integer(1), "B", plist.Integer(2))
	w, doc := newWalker(root, Options{})

	w.Walk(frametest.New().Text(id("A"), frame.FieldKey, frame.TextActivate, ""))
	out := w.Walk(frametest.New().Text(id("A"), frame.FieldKey, frame.TextConfirm, "B"))
	if out != Unchanged {
		t.Errorf("Rejected rename should be Unchanged, got %s", out)
	}
	if diff := cmp.Diff([]string{"A", "B"}, root.Dictionary().Keys()); diff != "" {
		t.Errorf("Keys changed (-want +got):\n%s", diff)
	}
	if b, _ := root.Dictionary().Get("B"); !b.Equal(plist.Integer(2)) {
		t.Errorf("Sibling value overwritten: %#v", b)
	}
	if doc.dirty {
		t.Error("Rejected rename must not dirty the document")
	}

	f := frametest.New()
	w.Walk(f)
	row, _ := f.Find(id("A"))
	if !row.Key.Editing || !errors.Is(row.Key.Invalid, plist.ErrKeyExists) {
		t.Errorf("Expected key editor flagged invalid, got %+v", row.Key)
	}
}

func TestWalk_RenameKeepsPosition(t *testing.T) {
	root := dict("A", dict("x", plist.Integer(1)), "B", plist.Integer(2))
	w, _ := newWalker(root, Options{})
	w.Store().SetExpanded(id("A"), true)

	w.Walk(frametest.New().Text(id("A"), frame.FieldKey, frame.TextActivate, ""))
	f := frametest.New().Text(id("A"), frame.FieldKey, frame.TextConfirm, "C")
	if out := w.Walk(f); out != Changed {
		t.Errorf("Expected Changed, got %s", out)
	}

	if diff := cmp.Diff([]string{"C", "B"}, root.Dictionary().Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	// Children of the renamed row are rendered under the new path
	want := []string{"Root", "Root/A", "Root/C/x", "Root/B"}
	if diff := cmp.Diff(want, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	if !w.Store().Expanded(id("C")) {
		t.Error("Expected expansion carried to the new key")
	}
	if _, ok := w.Store().EditBuffer(id("A").With(keyField)); ok {
		t.Error("Expected key edit ended")
	}
}

func TestWalk_TypeChangeContainerToLeaf(t *testing.T) {
	root := dict("d", dict("x", plist.Integer(1), "y", plist.Integer(2), "z", plist.Integer(3)))
	var trace []string
	w, _ := newWalker(root, Options{Trace: func(p plist.Path) { trace = append(trace, p.String()) }})
	w.Store().SetExpanded(id("d"), true)

	out := w.Walk(frametest.New().Retype(id("d"), plist.KindBoolean))
	if out != Changed {
		t.Errorf("Expected Changed at root, got %s", out)
	}
	d, _ := plist.Get(root, plist.Path{"d"})
	if !d.Equal(plist.Boolean(false)) {
		t.Errorf("Expected Boolean(false), got %#v", d)
	}
	if contains(trace, "Root/d/x") {
		t.Errorf("Discarded children were visited: %v", trace)
	}

	w.Walk(frametest.New().Retype(id("d"), plist.KindDictionary))
	d, _ = plist.Get(root, plist.Path{"d"})
	if d.Kind() != plist.KindDictionary || d.Len() != 0 {
		t.Errorf("Expected empty dictionary, got %#v", d)
	}
}

func TestWalk_TypeChangeLeafToLeaf(t *testing.T) {
	root := dict("n", plist.Integer(42))
	w, _ := newWalker(root, Options{})

	f := frametest.New().Retype(id("n"), plist.KindString)
	if out := w.Walk(f); out != Changed {
		t.Errorf("Expected Changed, got %s", out)
	}
	row, _ := f.Find(id("n"))
	if !row.HasValue || row.Value.Committed != "" {
		t.Errorf("Expected string editor drawn with the fresh value, got %+v", row)
	}
	n, _ := plist.Get(root, plist.Path{"n"})
	if !n.Equal(plist.String("")) {
		t.Errorf("Expected empty string, got %#v", n)
	}
}

func TestWalk_SortFromMenu(t *testing.T) {
	root := dict("Zebra", plist.Integer(1), "Alpha", plist.Integer(2), "Mike", plist.Integer(3))
	w, _ := newWalker(root, Options{})

	f := frametest.New().Choose(uistate.RootID, frame.MenuSort)
	if out := w.Walk(f); out != Changed {
		t.Errorf("Expected Changed, got %s", out)
	}
	keys, _ := plist.ChildKeys(root, nil)
	if diff := cmp.Diff([]string{"Alpha", "Mike", "Zebra"}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Root", "Root/Alpha", "Root/Mike", "Root/Zebra"}
	if diff := cmp.Diff(want, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_DuplicateVisibleToLaterSiblings(t *testing.T) {
	root := dict("A", plist.Integer(1), "B", plist.Integer(2))
	w, _ := newWalker(root, Options{})

	f := frametest.New().Choose(id("A"), frame.MenuDuplicate)
	w.Walk(f)

	want := []string{"Root", "Root/A", "Root/A Duplicate", "Root/B"}
	if diff := cmp.Diff(want, f.Paths()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_AddChildExpands(t *testing.T) {
	root := dict("d", plist.NewDictionary())
	w, _ := newWalker(root, Options{})

	f := frametest.New().Choose(id("d"), frame.MenuAddChild)
	w.Walk(f)

	if !w.Store().Expanded(id("d")) {
		t.Error("Expected container expanded after adding a child")
	}
	if !contains(f.Paths(), "Root/d/New Child") {
		t.Errorf("Expected the new child rendered, got %v", f.Paths())
	}
}

func TestWalk_MenuItems(t *testing.T) {
	root := dict("arr", plist.NewArray(), "s", plist.String(""))
	w, _ := newWalker(root, Options{})

	f := frametest.New()
	w.Walk(f)

	tests := []struct {
		id   uistate.ID
		want []frame.MenuItem
	}{
		{uistate.RootID, []frame.MenuItem{frame.MenuAddChild, frame.MenuSort}},
		{id("arr"), []frame.MenuItem{frame.MenuAddChild, frame.MenuDuplicate, frame.MenuRemove}},
		{id("s"), []frame.MenuItem{frame.MenuDuplicate, frame.MenuRemove}},
	}
	for _, tt := range tests {
		row, ok := f.Find(tt.id)
		if !ok {
			t.Fatalf("Row %s not rendered", tt.id)
		}
		if diff := cmp.Diff(tt.want, row.Menu); diff != "" {
			t.Errorf("Menu for %s mismatch (-want +got):\n%s", tt.id, diff)
		}
	}
}

// Whether the root may hold a scalar is a configuration decision; both
// settings are covered here.
func TestWalk_ScalarRootOption(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		root := plist.NewDictionary()
		w, _ := newWalker(root, Options{AllowScalarRoot: true})

		f := frametest.New()
		w.Walk(f)
		row, _ := f.Find(uistate.RootID)
		if !containsKind(row.Types, plist.KindString) {
			t.Errorf("Expected scalar kinds offered at the root, got %v", row.Types)
		}

		if out := w.Walk(frametest.New().Retype(uistate.RootID, plist.KindInteger)); out != Removed {
			t.Errorf("Root crossing to a leaf should be Removed, got %s", out)
		}
		if !root.Equal(plist.Integer(0)) {
			t.Errorf("Expected Integer(0) root, got %#v", root)
		}

		f = frametest.New()
		w.Walk(f)
		row, _ = f.Find(uistate.RootID)
		if !row.HasValue || row.Value.Committed != "0" {
			t.Errorf("Expected scalar root editor, got %+v", row)
		}
	})

	t.Run("disallowed", func(t *testing.T) {
		root := dict("s", plist.String(""))
		w, _ := newWalker(root, Options{AllowScalarRoot: false})

		f := frametest.New()
		w.Walk(f)
		row, _ := f.Find(uistate.RootID)
		if diff := cmp.Diff([]plist.Kind{plist.KindArray, plist.KindDictionary}, row.Types); diff != "" {
			t.Errorf("Root type options mismatch (-want +got):\n%s", diff)
		}
		child, _ := f.Find(id("s"))
		if !containsKind(child.Types, plist.KindString) {
			t.Errorf("Non-root rows always offer scalars, got %v", child.Types)
		}

		// A kind that is not offered cannot be selected
		if out := w.Walk(frametest.New().Retype(uistate.RootID, plist.KindString)); out != Unchanged {
			t.Errorf("Expected Unchanged, got %s", out)
		}
		if root.Kind() != plist.KindDictionary {
			t.Errorf("Root retyped to %s", root.Kind())
		}
	})
}

func TestWalk_DisclosureToggles(t *testing.T) {
	root := dict("d", dict("x", plist.Integer(1)))
	w, _ := newWalker(root, Options{})

	w.Walk(frametest.New().Disclose(id("d")))
	if !w.Store().Expanded(id("d")) {
		t.Error("Expected expanded after toggle")
	}
	w.Walk(frametest.New().Disclose(id("d")))
	if w.Store().Expanded(id("d")) {
		t.Error("Expected collapsed after second toggle")
	}

	w.Walk(frametest.New().Disclose(uistate.RootID))
	f := frametest.New()
	w.Walk(f)
	if diff := cmp.Diff([]string{"Root"}, f.Paths()); diff != "" {
		t.Errorf("Collapsed root should hide children (-want +got):\n%s", diff)
	}
}

func TestWalk_ScalarEditsMarkChanged(t *testing.T) {
	root := dict("flag", plist.Boolean(false), "ratio", plist.Real(1))
	w, doc := newWalker(root, Options{})

	if out := w.Walk(frametest.New().Flip(id("flag"))); out != Changed {
		t.Errorf("Expected Changed, got %s", out)
	}
	if out := w.Walk(frametest.New().Step(id("ratio"), 2)); out != Changed {
		t.Errorf("Expected Changed, got %s", out)
	}
	want := dict("flag", plist.Boolean(true), "ratio", plist.Real(2))
	if !root.Equal(want) {
		t.Errorf("Unexpected tree %#v", root)
	}
	if !doc.dirty {
		t.Error("Expected document marked dirty")
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		a, b Outcome
		max  Outcome
	}{
		{Unchanged, Unchanged, Unchanged},
		{Unchanged, Changed, Changed},
		{Changed, Unchanged, Changed},
		{Changed, Removed, Removed},
		{Removed, Unchanged, Removed},
	}
	for _, tt := range tests {
		if got := tt.a.Max(tt.b); got != tt.max {
			t.Errorf("%s.Max(%s): expected %s, got %s", tt.a, tt.b, tt.max, got)
		}
	}

	if Removed.AsChild() != Changed {
		t.Error("Removed child should count as Changed")
	}
	if Changed.AsChild() != Changed || Unchanged.AsChild() != Unchanged {
		t.Error("AsChild should keep lesser outcomes")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		v    *plist.Value
		want string
	}{
		{plist.NewArray(), "0 ordered objects"},
		{plist.NewArray(plist.Integer(1)), "1 ordered object"},
		{plist.NewArray(plist.Integer(1), plist.Integer(2)), "2 ordered objects"},
		{plist.NewDictionary(), "0 key/value pairs"},
		{dict("a", plist.Integer(1)), "1 key/value pair"},
	}
	for _, tt := range tests {
		if got := summary(tt.v); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func containsKind(list []plist.Kind, k plist.Kind) bool {
	for _, x := range list {
		if x == k {
			return true
		}
	}
	return false
}
