package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Constants for output formatting.
const (
	SearchTitleMaxLen = 70 // Search result summaries
	ListTitleMaxLen   = 50 // List command output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorShort formats an author as "Family G" (abbreviated given name).
func formatAuthorShort(a reference.Name) string {
	if a.Literal != "" {
		return a.Literal
	}
	if a.Given != "" {
		return a.Family + " " + string([]rune(a.Given)[:1])
	}
	return a.Family
}

// formatAuthorsShort formats authors with abbreviation and "et al." for more than maxCount.
func formatAuthorsShort(authors []reference.Name, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, formatAuthorShort(a))
	}
	return strings.Join(names, ", ")
}

// printRefSummary prints one record in the numbered list format shared by
// search and list.
func printRefSummary(num int, ref reference.Reference) {
	fmt.Printf("[%d] %s\n", num, ref.ID)
	fmt.Printf("    %s\n", truncateString(ref.Title, SearchTitleMaxLen))

	if len(ref.Author) > 0 {
		fmt.Printf("    %s\n", formatAuthorsShort(ref.Author, 3))
	}

	if ref.ContainerTitle != "" {
		fmt.Printf("    %s (%d)\n", ref.ContainerTitle, ref.Year())
	} else if ref.Year() > 0 {
		fmt.Printf("    (%d)\n", ref.Year())
	}
	fmt.Println()
}
