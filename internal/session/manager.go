package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxDocuments bounds how many documents keep remembered state
const MaxDocuments = 100

// Entry is the remembered UI state of one document
type Entry struct {
	Expanded  []string  `yaml:"expanded"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Manager persists per-document expansion state between runs
type Manager struct {
	path    string
	entries map[string]Entry
}

// NewManager creates a session manager storing its file in configDir
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "session.yaml")

	m := &Manager{
		path:    path,
		entries: make(map[string]Entry),
	}

	// Load existing session if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	return m, nil
}

// Load loads the session from its YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	entries := make(map[string]Entry)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	m.entries = entries

	return nil
}

// Save writes the session to its YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Expanded returns the remembered expansion list for a document
func (m *Manager) Expanded(docPath string) []string {
	e, ok := m.entries[key(docPath)]
	if !ok {
		return nil
	}
	return e.Expanded
}

// Remember stores the expansion list for a document and saves
func (m *Manager) Remember(docPath string, expanded []string) error {
	if docPath == "" {
		return nil
	}
	m.entries[key(docPath)] = Entry{
		Expanded:  expanded,
		UpdatedAt: time.Now(),
	}
	m.prune()
	return m.Save()
}

// Forget drops a document's state and saves
func (m *Manager) Forget(docPath string) error {
	k := key(docPath)
	if _, ok := m.entries[k]; !ok {
		return nil
	}
	delete(m.entries, k)
	return m.Save()
}

// Len returns the number of remembered documents
func (m *Manager) Len() int {
	return len(m.entries)
}

// prune drops the least recently updated documents beyond MaxDocuments
func (m *Manager) prune() {
	if len(m.entries) <= MaxDocuments {
		return
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.entries[keys[i]].UpdatedAt.After(m.entries[keys[j]].UpdatedAt)
	})
	for _, k := range keys[MaxDocuments:] {
		delete(m.entries, k)
	}
}

func key(docPath string) string {
	if abs, err := filepath.Abs(docPath); err == nil {
		return abs
	}
	return docPath
}
