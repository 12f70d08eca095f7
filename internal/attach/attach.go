// Package attach manages attachment files. Each record owns one directory
// under the library's attachments root, named from its citation key plus a
// uuid prefix so the directory stays findable across key renames.
package attach

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncukondo/reference-manager-sub005/internal/pdf"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
)

// Result reports one completed attachment.
type Result struct {
	Filename   string `json:"filename"`
	Role       string `json:"role"`
	StoredPath string `json:"stored_path"`

	// SniffedDOI is the DOI found inside an attached PDF, when any.
	// A mismatch with the record's own DOI is surfaced, not fatal: the
	// caller decides whether to warn or re-link.
	SniffedDOI  string `json:"sniffed_doi,omitempty"`
	DOIMismatch bool   `json:"doi_mismatch,omitempty"`
}

// Dir returns the record's attachment directory under root, creating it if
// needed.
func Dir(root string, ref reference.Reference) (string, error) {
	dir := filepath.Join(root, ref.AttachmentDir())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating attachment directory: %w", err)
	}
	return dir, nil
}

// File copies src into the record's attachment directory and records it in
// the record's custom metadata. Role "fulltext" also sets the record's main
// fulltext filename. The record is mutated; persisting it is the caller's
// job.
func File(root string, ref *reference.Reference, src, role string) (Result, error) {
	if !validRole(role) {
		return Result{}, fmt.Errorf("invalid attachment role %q (valid: %s)",
			role, strings.Join(reference.AttachmentRoles, ", "))
	}

	dir, err := Dir(root, *ref)
	if err != nil {
		return Result{}, err
	}

	name := filepath.Base(src)
	dst := filepath.Join(dir, name)
	if err := copyFile(src, dst); err != nil {
		return Result{}, err
	}

	res := Result{Filename: name, Role: role, StoredPath: dst}

	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		// DOI sniffing is best effort; unreadable PDFs still attach fine.
		if doi, err := pdf.SniffDOI(dst); err == nil && doi != "" {
			res.SniffedDOI = doi
			res.DOIMismatch = ref.DOI != "" && ref.DOI != doi
		}
	}

	recordAttachment(ref, name, role)
	return res, nil
}

// RenameDir moves a record's attachment directory after a citation-key
// rename. Missing directories (no attachments yet) are fine.
func RenameDir(root string, oldDir, newDir string) error {
	oldPath := filepath.Join(root, oldDir)
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(oldPath, filepath.Join(root, newDir)); err != nil {
		return fmt.Errorf("moving attachment directory: %w", err)
	}
	return nil
}

// RemoveDir deletes a record's attachment directory and everything in it.
func RemoveDir(root string, ref reference.Reference) error {
	if err := os.RemoveAll(filepath.Join(root, ref.AttachmentDir())); err != nil {
		return fmt.Errorf("removing attachment directory: %w", err)
	}
	return nil
}

// recordAttachment updates the record's custom metadata, replacing an
// existing entry for the same filename.
func recordAttachment(ref *reference.Reference, name, role string) {
	replaced := false
	for i, a := range ref.Custom.Attachments {
		if a.Filename == name {
			ref.Custom.Attachments[i].Role = role
			replaced = true
			break
		}
	}
	if !replaced {
		ref.Custom.Attachments = append(ref.Custom.Attachments,
			reference.Attachment{Filename: name, Role: role})
	}
	if role == "fulltext" {
		ref.Custom.Fulltext = name
	}
}

func validRole(role string) bool {
	for _, r := range reference.AttachmentRoles {
		if role == r {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying attachment: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("writing attachment: %w", err)
	}
	return nil
}
