// Package config handles library layout and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// ReferencesFile is the canonical store, a JSON array of records. Its
	// presence marks a directory as a library.
	ReferencesFile = "references.json"
	// AttachmentsDir holds one subdirectory of files per record.
	AttachmentsDir = "attachments"
	// CacheDir holds derived data that can be rebuilt at any time.
	CacheDir = "cache"
	// FulltextDBFile is the extracted-attachment-text cache.
	FulltextDBFile = "fulltext.db"
)

// ReferencesPath returns the path to the canonical store from a library root.
func ReferencesPath(root string) string {
	return filepath.Join(root, ReferencesFile)
}

// AttachmentsPath returns the attachments root from a library root.
func AttachmentsPath(root string) string {
	return filepath.Join(root, AttachmentsDir)
}

// CachePath returns the cache directory from a library root.
func CachePath(root string) string {
	return filepath.Join(root, CacheDir)
}

// FulltextDBPath returns the fulltext cache database from a library root.
func FulltextDBPath(root string) string {
	return filepath.Join(root, CacheDir, FulltextDBFile)
}

// IsLibrary checks whether the given path contains a reference library.
func IsLibrary(root string) bool {
	info, err := os.Stat(ReferencesPath(root))
	return err == nil && !info.IsDir()
}

// FindLibrary walks up from the given path to find a library root.
func FindLibrary(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsLibrary(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a reference library (no %s found)", ReferencesFile)
		}
		abs = parent
	}
}

// ResolveLibrary determines the library root for a command: an explicit
// --library flag wins, then the REFMAN_LIBRARY environment variable, then
// library_path from global config, then walking up from the working
// directory.
func ResolveLibrary(flagValue string) (string, error) {
	if flagValue != "" {
		root := ExpandPath(flagValue)
		if !IsLibrary(root) {
			return "", fmt.Errorf("not a reference library: %s (no %s)", root, ReferencesFile)
		}
		return root, nil
	}

	if env := os.Getenv("REFMAN_LIBRARY"); env != "" {
		root := ExpandPath(env)
		if !IsLibrary(root) {
			return "", fmt.Errorf("REFMAN_LIBRARY is not a reference library: %s", root)
		}
		return root, nil
	}

	if path := GetLibraryPath(); path != "" {
		if IsLibrary(path) {
			return path, nil
		}
		return "", fmt.Errorf("configured library_path is not a reference library: %s\n\n%s",
			path, HelpfulConfigMessage())
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	root, err := FindLibrary(cwd)
	if err != nil {
		return "", fmt.Errorf("%w\n\n%s", err, HelpfulConfigMessage())
	}
	return root, nil
}

// InitLibrary creates the library layout at root: an empty store, the
// attachments directory, and the cache directory.
func InitLibrary(root string) error {
	if IsLibrary(root) {
		return fmt.Errorf("library already exists at %s", root)
	}
	for _, dir := range []string{root, AttachmentsPath(root), CachePath(root)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating library directory: %w", err)
		}
	}
	if err := os.WriteFile(ReferencesPath(root), []byte("[]\n"), 0644); err != nil {
		return fmt.Errorf("creating reference store: %w", err)
	}
	return nil
}

// LoadEnv loads a .env file from the working directory if one exists.
// Missing files are fine; real environment variables take precedence.
func LoadEnv() {
	_ = godotenv.Load()
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
