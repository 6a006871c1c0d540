package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Action records what was done with a document
type Action string

const (
	ActionOpen Action = "open"
	ActionSave Action = "save"
)

// Entry is one recently used document
type Entry struct {
	ID     int
	Path   string
	Format string
	Action Action
	UsedAt time.Time
}

// Store manages the recent documents list
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Record moves a document to the top of the list
func (s *Store) Record(entry Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM recent_documents WHERE path = ?`, entry.Path); err != nil {
		return fmt.Errorf("failed to replace history entry: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO recent_documents (path, format, action)
		VALUES (?, ?, ?)`,
		entry.Path,
		entry.Format,
		string(entry.Action),
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return tx.Commit()
}

// GetRecent retrieves the most recently used documents
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, path, format, action, used_at
		FROM recent_documents
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var action string

		// DATETIME columns come back from the driver as time.Time
		if err := rows.Scan(&e.ID, &e.Path, &e.Format, &action, &e.UsedAt); err != nil {
			return nil, err
		}

		e.Action = Action(action)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Remove drops a document from the list
func (s *Store) Remove(path string) error {
	_, err := s.db.Exec(`DELETE FROM recent_documents WHERE path = ?`, path)
	return err
}

// Trim keeps only the max most recent documents
func (s *Store) Trim(max int) error {
	_, err := s.db.Exec(`
		DELETE FROM recent_documents
		WHERE id NOT IN (SELECT id FROM recent_documents ORDER BY id DESC LIMIT ?)`, max)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
