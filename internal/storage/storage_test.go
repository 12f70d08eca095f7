package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func TestGetAllMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "references.json"))
	refs, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if refs != nil {
		t.Errorf("GetAll() = %v, want nil for missing file", refs)
	}
}

func TestSaveAndGetAll(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "references.json"))

	refs := []reference.Reference{
		{
			ID:     "smith-2020",
			Type:   "article-journal",
			Title:  "A Study",
			Author: []reference.Name{{Family: "Smith", Given: "Jane"}},
			Issued: reference.YearOf(2020),
			DOI:    "10.1000/x",
			Custom: reference.Custom{UUID: "u-1", CreatedAt: "2024-01-01T00:00:00Z", Timestamp: "2024-01-01T00:00:00Z"},
		},
		{ID: "doe-2021", Type: "book", Title: "Another"},
	}

	if err := s.Save(refs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d refs, want 2", len(got))
	}
	if got[0].ID != "smith-2020" || got[0].Custom.UUID != "u-1" {
		t.Errorf("first ref = %+v", got[0])
	}
	if got[0].Year() != 2020 {
		t.Errorf("Year() = %d, want 2020", got[0].Year())
	}
}

func TestSaveIsJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "references.json")
	s := NewFileStore(path)

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Errorf("file does not start with a JSON array: %q", string(data))
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "references.json"))
	if err := s.Save([]reference.Reference{{ID: "a"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "references.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v, want only references.json", names)
	}
}
