// Package fulltext maintains an SQLite cache of text extracted from
// attachments. The cache is derived data: it can be deleted and rebuilt from
// the attachment files at any time, and search treats it as an optional
// fallback, never as the source of truth.
package fulltext

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ncukondo/reference-manager-sub005/internal/norm"
)

// Store wraps the fulltext cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening fulltext cache: %w", err)
	}
	// SQLite allows one writer; a local CLI needs no more.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS attachment_text (
			uuid     TEXT NOT NULL,
			filename TEXT NOT NULL,
			folded   TEXT NOT NULL,
			PRIMARY KEY (uuid, filename)
		);
		CREATE INDEX IF NOT EXISTS idx_attachment_uuid ON attachment_text(uuid);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating fulltext schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Index stores the text of one attachment, replacing any previous text for
// the same file. Text is folded with the same normalization the matcher
// uses, so fulltext hits behave like content-field matches.
func (s *Store) Index(uuid, filename, text string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO attachment_text (uuid, filename, folded) VALUES (?, ?, ?)`,
		uuid, filename, norm.Fold(text))
	if err != nil {
		return fmt.Errorf("indexing attachment text: %w", err)
	}
	return nil
}

// Remove drops all cached text for a record, e.g. when it is deleted.
func (s *Store) Remove(uuid string) error {
	if _, err := s.db.Exec(`DELETE FROM attachment_text WHERE uuid = ?`, uuid); err != nil {
		return fmt.Errorf("removing attachment text: %w", err)
	}
	return nil
}

// Clear empties the cache ahead of a rebuild.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM attachment_text`); err != nil {
		return fmt.Errorf("clearing fulltext cache: %w", err)
	}
	return nil
}

// Lookup returns the set of record uuids whose attachment text contains the
// term. The signature matches search.FulltextLookup; lookup failures degrade
// to no matches rather than failing the whole search.
func (s *Store) Lookup(term string) map[string]bool {
	rows, err := s.db.Query(
		`SELECT DISTINCT uuid FROM attachment_text WHERE folded LIKE '%' || ? || '%'`,
		norm.Fold(term))
	if err != nil {
		return nil
	}
	defer rows.Close()

	uuids := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			continue
		}
		uuids[u] = true
	}
	return uuids
}
