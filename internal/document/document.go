// Package document owns the open plist tree and its backing file.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyplist/internal/plist"
)

// ErrNoPath is returned when saving a document that has no file yet
var ErrNoPath = errors.New("document has no file path")

// Document is a plist tree shared between the UI and background callers.
// All access to the tree goes through View or Update, which hold the
// document's lock.
type Document struct {
	mu     sync.Mutex
	root   *plist.Value
	path   string
	format plist.Format
	dirty  bool
	stamp  stamp
}

// stamp identifies a version of the file on disk
type stamp struct {
	modTime time.Time
	size    int64
}

// New creates an unsaved document holding an empty dictionary
func New() *Document {
	return &Document{root: plist.NewDictionary(), format: plist.FormatXML}
}

// Open reads the document at path. A missing file opens as a new empty
// document that will be saved to path. When the file cannot be read or
// parsed, the returned document is empty with no path, so a later save
// cannot overwrite the original, and the error describes the failure.
func Open(path string) (*Document, error) {
	d := New()
	if err := d.load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.path = path
			return d, nil
		}
		return d, err
	}
	return d, nil
}

func (d *Document) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	root, format, err := plist.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	st, err := statFile(path)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
	d.path = path
	d.format = format
	d.dirty = false
	d.stamp = st
	return nil
}

// Reload replaces the tree with the current file contents, discarding
// unsaved changes. On failure the document is left as it was.
func (d *Document) Reload() error {
	path := d.Path()
	if path == "" {
		return ErrNoPath
	}
	return d.load(path)
}

// View runs fn with the root under the lock. fn must not modify the tree.
func (d *Document) View(fn func(root *plist.Value)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.root)
}

// Update runs fn with the root under the lock and marks the document dirty
// when fn reports a modification
func (d *Document) Update(fn func(root *plist.Value) bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn(d.root) {
		d.dirty = true
	}
}

// Path returns the backing file, or "" for an unsaved document
func (d *Document) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// Format returns the format the document was read or last saved in
func (d *Document) Format() plist.Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

// Dirty reports unsaved changes
func (d *Document) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// Name returns the file name for display
func (d *Document) Name() string {
	if p := d.Path(); p != "" {
		return filepath.Base(p)
	}
	return "Untitled"
}

// Save serializes the tree in format and writes it to path, or to the
// current path when path is empty. The write is atomic: the data goes to a
// temporary file in the same directory which then replaces the target. On
// failure the document is unchanged and stays dirty.
func (d *Document) Save(path string, format plist.Format) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if path == "" {
		path = d.path
	}
	if path == "" {
		return ErrNoPath
	}

	data, err := plist.Serialize(d.root, format)
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	st, err := statFile(path)
	if err != nil {
		return err
	}

	d.path = path
	d.format = format
	d.dirty = false
	d.stamp = st
	return nil
}

// Serialize renders the current tree without touching the file
func (d *Document) Serialize(format plist.Format) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return plist.Serialize(d.root, format)
}

// ChangedOnDisk reports whether the backing file differs from the version
// last read or written. A deleted file counts as changed.
func (d *Document) ChangedOnDisk() (bool, error) {
	d.mu.Lock()
	path, want := d.path, d.stamp
	d.mu.Unlock()

	if path == "" {
		return false, nil
	}
	st, err := statFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !st.modTime.Equal(want.modTime) || st.size != want.size, nil
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return stamp{modTime: info.ModTime(), size: info.Size()}, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// ResolveFormat picks the save format for a document opened as opened.
// setting is the document.save_format config value.
func ResolveFormat(setting string, opened plist.Format) plist.Format {
	switch setting {
	case "xml":
		return plist.FormatXML
	case "binary":
		return plist.FormatBinary
	}
	if opened == plist.FormatBinary {
		return plist.FormatBinary
	}
	return plist.FormatXML
}
