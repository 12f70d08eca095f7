// Package storage persists the reference collection as a single CSL-JSON
// array file. Core logic never writes; callers save only after an operation's
// outcome is confirmed.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// FileStore reads and writes a JSON array of references at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// GetAll loads the full collection. A missing file is an empty collection,
// not an error.
func (s *FileStore) GetAll() ([]reference.Reference, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading references file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var refs []reference.Reference
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parsing references file: %w", err)
	}
	return refs, nil
}

// Save writes the full collection atomically: the new content lands in a
// temp file in the same directory and replaces the old file by rename, so a
// crash mid-write never leaves a truncated library.
func (s *FileStore) Save(refs []reference.Reference) error {
	if refs == nil {
		refs = []reference.Reference{}
	}
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding references: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".references-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing references: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing references file: %w", err)
	}
	return nil
}
