package plist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTree() *Value {
	inner := NewDictionary()
	inner.Dictionary().Set("c", Integer(7))

	root := NewDictionary()
	root.Dictionary().Set("a", NewArray(String("x"), inner))
	root.Dictionary().Set("b", Boolean(true))
	return root
}

func TestResolve(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		name    string
		path    Path
		want    *Value
		wantErr error
	}{
		{name: "root", path: nil, want: root},
		{name: "array element", path: Path{"a", "0"}, want: String("x")},
		{name: "nested", path: Path{"a", "1", "c"}, want: Integer(7)},
		{name: "missing key", path: Path{"nope"}, wantErr: ErrNotFound},
		{name: "index out of range", path: Path{"a", "5"}, wantErr: ErrNotFound},
		{name: "non-numeric index", path: Path{"a", "first"}, wantErr: ErrBadIndex},
		{name: "padded index", path: Path{"a", "01"}, wantErr: ErrBadIndex},
		{name: "through scalar", path: Path{"b", "x"}, wantErr: ErrNotContainer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%v) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_MutatesInPlace(t *testing.T) {
	root := sampleTree()
	node, err := Resolve(root, Path{"a", "1", "c"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	node.Set(String("changed"))

	again, _ := Get(root, Path{"a", "1", "c"})
	if s, ok := again.StringValue(); !ok || s != "changed" {
		t.Errorf("Expected mutation to be visible, got %#v", again)
	}
}

func TestChildKeys(t *testing.T) {
	root := sampleTree()

	keys, err := ChildKeys(root, nil)
	if err != nil {
		t.Fatalf("ChildKeys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("root keys mismatch (-want +got):\n%s", diff)
	}

	keys, err = ChildKeys(root, Path{"a"})
	if err != nil {
		t.Fatalf("ChildKeys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"0", "1"}, keys); diff != "" {
		t.Errorf("array keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := ChildKeys(root, Path{"b"}); !errors.Is(err, ErrNotContainer) {
		t.Errorf("Expected ErrNotContainer for scalar, got %v", err)
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{"a", "b"}

	child := p.Child("c")
	if diff := cmp.Diff(Path{"a", "b", "c"}, child); diff != "" {
		t.Errorf("Child mismatch (-want +got):\n%s", diff)
	}
	// Child must not alias p's backing array
	_ = p.Parent().Child("x")
	if p[1] != "b" {
		t.Errorf("Parent().Child() clobbered the original path: %v", p)
	}

	if p.Last() != "b" || Path(nil).Last() != "" {
		t.Error("Last returned the wrong segment")
	}
	if !p.WithLast("z").Equal(Path{"a", "z"}) {
		t.Errorf("WithLast = %v", p.WithLast("z"))
	}
	if !child.HasPrefix(p) || p.HasPrefix(child) {
		t.Error("HasPrefix gave the wrong answer")
	}
	if got := p.String(); got != "Root/a/b" {
		t.Errorf("String() = %q", got)
	}
}
