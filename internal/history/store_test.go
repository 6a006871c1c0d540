package history

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func paths(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestStore_RecordOrdersByRecency(t *testing.T) {
	s := newTestStore(t)

	for _, p := range []string{"/a.plist", "/b.plist", "/c.plist"} {
		if err := s.Record(Entry{Path: p, Format: "xml", Action: ActionOpen}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	// Using a document again moves it to the top without duplicating it
	if err := s.Record(Entry{Path: "/a.plist", Format: "binary", Action: ActionSave}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := s.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if diff := cmp.Diff([]string{"/a.plist", "/c.plist", "/b.plist"}, paths(entries)); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if entries[0].Action != ActionSave || entries[0].Format != "binary" {
		t.Errorf("Expected latest action recorded, got %+v", entries[0])
	}
	if entries[0].UsedAt.IsZero() {
		t.Error("Expected a timestamp")
	}
}

func TestStore_LimitTrimRemove(t *testing.T) {
	s := newTestStore(t)
	for _, p := range []string{"/1", "/2", "/3", "/4"} {
		_ = s.Record(Entry{Path: p, Format: "xml", Action: ActionOpen})
	}

	entries, _ := s.GetRecent(2)
	if diff := cmp.Diff([]string{"/4", "/3"}, paths(entries)); diff != "" {
		t.Errorf("Limit mismatch (-want +got):\n%s", diff)
	}

	if err := s.Trim(3); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if err := s.Remove("/3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entries, _ = s.GetRecent(10)
	if diff := cmp.Diff([]string{"/4", "/2"}, paths(entries)); diff != "" {
		t.Errorf("After trim/remove (-want +got):\n%s", diff)
	}
}
