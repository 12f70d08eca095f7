package main

import (
	"testing"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "a very long string here", 10, "a very ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatAuthorsShort(t *testing.T) {
	authors := []reference.Name{
		{Family: "Smith", Given: "Jane"},
		{Family: "Doe", Given: "John"},
		{Family: "Chen", Given: "Li"},
		{Family: "Kim", Given: "Min"},
	}

	tests := []struct {
		name     string
		authors  []reference.Name
		maxCount int
		want     string
	}{
		{"empty", nil, 3, ""},
		{"single", authors[:1], 3, "Smith J"},
		{"under limit", authors[:2], 3, "Smith J, Doe J"},
		{"over limit", authors, 3, "Smith J, Doe J, Chen L, et al."},
		{"literal name", []reference.Name{{Literal: "World Health Organization"}}, 3, "World Health Organization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAuthorsShort(tt.authors, tt.maxCount); got != tt.want {
				t.Errorf("formatAuthorsShort() = %q, want %q", got, tt.want)
			}
		})
	}
}
