package library

import (
	"github.com/ncukondo/reference-manager-sub005/internal/citekey"
	"github.com/ncukondo/reference-manager-sub005/internal/norm"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Added describes one record that made it into the collection.
type Added struct {
	Ref        reference.Reference `json:"reference"`
	Renamed    bool                `json:"renamed"`     // A collision suffix was appended
	OriginalID string              `json:"original_id"` // The key before suffixing
}

// Skipped describes a candidate rejected as a duplicate of an existing record.
type Skipped struct {
	Candidate  reference.Reference `json:"candidate"`
	ExistingID string              `json:"existing_id"`
	Reason     string              `json:"reason"` // identifier, title-author-year
}

// Failed describes a candidate that could not be added.
type Failed struct {
	Candidate reference.Reference `json:"candidate"`
	Err       string              `json:"error"`
}

// AddOutcome partitions an add batch into added, skipped, and failed.
type AddOutcome struct {
	Added   []Added   `json:"added"`
	Skipped []Skipped `json:"skipped"`
	Failed  []Failed  `json:"failed"`
}

// Add inserts a batch of candidate records. Each candidate is checked for
// duplicates against the existing collection plus the candidates already
// accepted earlier in the same batch, so two new twins cannot both slip in
// or share an id. With force, duplicate detection is skipped entirely but
// collision-safe id allocation still applies. The store is written once,
// and only when at least one candidate was added: an all-duplicate batch
// leaves the backing file untouched.
func (l *Library) Add(candidates []reference.Reference, force bool) (AddOutcome, error) {
	var out AddOutcome

	working := l.refs
	taken := l.takenIDs()

	for _, cand := range candidates {
		if cand.Type == "" {
			out.Failed = append(out.Failed, Failed{Candidate: cand, Err: "missing reference type"})
			continue
		}

		if !force {
			if existing, reason, dup := findDuplicate(cand, working); dup {
				out.Skipped = append(out.Skipped, Skipped{
					Candidate:  cand,
					ExistingID: existing.ID,
					Reason:     reason,
				})
				continue
			}
		}

		alloc := citekey.Allocate(baseKey(cand), taken)
		cand.ID = alloc.ID
		cand.Init(l.now())
		taken[alloc.ID] = true
		working = append(working, cand)

		out.Added = append(out.Added, Added{
			Ref:        cand,
			Renamed:    alloc.Renamed,
			OriginalID: alloc.Original,
		})
	}

	if len(out.Added) == 0 {
		return out, nil
	}

	if err := l.store.Save(working); err != nil {
		return out, err
	}
	l.refs = working
	return out, nil
}

// findDuplicate decides whether a candidate duplicates an existing record.
// Identifier equality (DOI, PMID, PMCID, ISBN; exact, case-sensitive) wins
// and short-circuits. Absent any identifier match, a composite of normalized
// title, first-author family name, and year catches re-imports that lack
// identifiers.
func findDuplicate(cand reference.Reference, refs []reference.Reference) (reference.Reference, string, bool) {
	for _, r := range refs {
		if sharesIdentifier(cand, r) {
			return r, "identifier", true
		}
	}

	if cand.Title == "" {
		return reference.Reference{}, "", false
	}
	for _, r := range refs {
		if norm.FoldEqual(cand.Title, r.Title) &&
			norm.FoldEqual(cand.FirstAuthorFamily(), r.FirstAuthorFamily()) &&
			cand.Year() == r.Year() {
			return r, "title-author-year", true
		}
	}

	return reference.Reference{}, "", false
}

// sharesIdentifier reports whether two records share a non-empty identifier.
func sharesIdentifier(a, b reference.Reference) bool {
	pairs := [][2]string{
		{a.DOI, b.DOI},
		{a.PMID, b.PMID},
		{a.PMCID, b.PMCID},
		{a.ISBN, b.ISBN},
	}
	for _, p := range pairs {
		if p[0] != "" && p[0] == p[1] {
			return true
		}
	}
	return false
}
