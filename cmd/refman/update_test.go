package main

import (
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func TestApplyField(t *testing.T) {
	tests := []struct {
		name    string
		kv      string
		check   func(reference.Reference) bool
		wantErr bool
	}{
		{
			name:  "title",
			kv:    "title=New Title",
			check: func(r reference.Reference) bool { return r.Title == "New Title" },
		},
		{
			name:  "doi",
			kv:    "doi=10.1234/x",
			check: func(r reference.Reference) bool { return r.DOI == "10.1234/x" },
		},
		{
			name:  "year",
			kv:    "year=2021",
			check: func(r reference.Reference) bool { return r.Year() == 2021 },
		},
		{
			name:  "clear year",
			kv:    "year=",
			check: func(r reference.Reference) bool { return r.Issued == nil },
		},
		{
			name:  "value containing equals",
			kv:    "url=https://example.com/?a=b",
			check: func(r reference.Reference) bool { return r.URL == "https://example.com/?a=b" },
		},
		{name: "invalid year", kv: "year=soon", wantErr: true},
		{name: "empty type", kv: "type=", wantErr: true},
		{name: "unknown field", kv: "venue=Nature", wantErr: true},
		{name: "missing equals", kv: "title", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := reference.Reference{
				Type:   "article-journal",
				Issued: reference.YearOf(2020),
			}
			err := applyField(&ref, tt.kv)
			if tt.wantErr {
				if err == nil {
					t.Errorf("applyField(%q) expected error", tt.kv)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyField(%q) error = %v", tt.kv, err)
			}
			if !tt.check(ref) {
				t.Errorf("applyField(%q) did not apply: %+v", tt.kv, ref)
			}
		})
	}
}
