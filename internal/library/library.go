// Package library implements the collection operations: adding candidates
// with duplicate detection and collision-safe id allocation, updating,
// renaming, and removing records. The library holds an in-memory snapshot
// and writes back through its store only after an operation succeeds.
package library

import (
	"errors"
	"fmt"
	"time"

	"github.com/ncukondo/reference-manager-sub005/internal/citekey"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Store is the persistence collaborator. Implemented by storage.FileStore.
type Store interface {
	GetAll() ([]reference.Reference, error)
	Save([]reference.Reference) error
}

// ErrNotFound is returned when no record has the requested id or uuid.
var ErrNotFound = errors.New("reference not found")

// ErrIDTaken is returned when a rename would collide with an existing id.
var ErrIDTaken = errors.New("citation key already in use")

// Library wraps a store with an in-memory snapshot of the collection.
type Library struct {
	store Store
	refs  []reference.Reference
	now   func() time.Time
}

// Open loads the collection from the store.
func Open(store Store) (*Library, error) {
	refs, err := store.GetAll()
	if err != nil {
		return nil, err
	}
	return &Library{store: store, refs: refs, now: time.Now}, nil
}

// SetClock overrides the time source. For tests.
func (l *Library) SetClock(now func() time.Time) {
	l.now = now
}

// All returns the collection snapshot in stable registration order.
func (l *Library) All() []reference.Reference {
	return l.refs
}

// Get looks a record up by citation key, falling back to uuid.
func (l *Library) Get(idOrUUID string) (reference.Reference, bool) {
	if i := l.indexOf(idOrUUID); i >= 0 {
		return l.refs[i], true
	}
	return reference.Reference{}, false
}

// Update applies mutate to the record with the given id, refreshes its
// last-modified timestamp, and saves. The uuid and created_at fields are
// immutable; changes mutate makes to them are discarded.
func (l *Library) Update(id string, mutate func(*reference.Reference) error) (reference.Reference, error) {
	i := l.indexOf(id)
	if i < 0 {
		return reference.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := l.refs[i]
	if err := mutate(&updated); err != nil {
		return reference.Reference{}, err
	}

	// Immutable system metadata survives any mutation.
	updated.ID = l.refs[i].ID
	updated.Custom.UUID = l.refs[i].Custom.UUID
	updated.Custom.CreatedAt = l.refs[i].Custom.CreatedAt
	updated.Touch(l.now())

	l.refs[i] = updated
	if err := l.store.Save(l.refs); err != nil {
		return reference.Reference{}, err
	}
	return updated, nil
}

// Rename changes a record's citation key. The new key must not be in use;
// existing records are never renamed as a side effect.
func (l *Library) Rename(oldID, newID string) (reference.Reference, error) {
	i := l.indexOf(oldID)
	if i < 0 {
		return reference.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, oldID)
	}
	if oldID == newID {
		return l.refs[i], nil
	}
	for _, r := range l.refs {
		if r.ID == newID {
			return reference.Reference{}, fmt.Errorf("%w: %s", ErrIDTaken, newID)
		}
	}

	l.refs[i].ID = newID
	l.refs[i].Touch(l.now())
	if err := l.store.Save(l.refs); err != nil {
		return reference.Reference{}, err
	}
	return l.refs[i], nil
}

// Remove deletes a record and returns it so callers can show what was
// removed.
func (l *Library) Remove(id string) (reference.Reference, error) {
	i := l.indexOf(id)
	if i < 0 {
		return reference.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := l.refs[i]
	l.refs = append(l.refs[:i], l.refs[i+1:]...)
	if err := l.store.Save(l.refs); err != nil {
		return reference.Reference{}, err
	}
	return removed, nil
}

// indexOf finds a record by id, then by uuid. Returns -1 when absent.
func (l *Library) indexOf(idOrUUID string) int {
	for i, r := range l.refs {
		if r.ID == idOrUUID {
			return i
		}
	}
	for i, r := range l.refs {
		if r.Custom.UUID != "" && r.Custom.UUID == idOrUUID {
			return i
		}
	}
	return -1
}

// takenIDs returns the set of citation keys currently in use.
func (l *Library) takenIDs() map[string]bool {
	taken := make(map[string]bool, len(l.refs))
	for _, r := range l.refs {
		taken[r.ID] = true
	}
	return taken
}

// baseKey picks the allocation base for a candidate: an imported citation
// key is kept (lowercased to the canonical casing), otherwise a key is
// generated from the bibliographic data.
func baseKey(cand reference.Reference) string {
	if cand.ID != "" {
		return citekey.Sanitize(cand.ID)
	}
	return citekey.Generate(cand)
}
