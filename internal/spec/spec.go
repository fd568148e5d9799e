package spec

import (
	"path/filepath"
	"strings"

	"m4bforge/internal/metadata"
	"m4bforge/internal/textutil"
)

// containerExtensions lists the container formats a combine accepts as input.
var containerExtensions = map[string]struct{}{
	".m4b": {},
	".m4a": {},
}

// IsContainer reports whether path has a chaptered-container extension.
func IsContainer(path string) bool {
	_, ok := containerExtensions[normalizeExt(path)]
	return ok
}

// Entry is one ordered source row: the file to append and its declared
// chapter title. Columns beyond the recognized ones are retained in Extras
// but otherwise ignored.
type Entry struct {
	File   string
	Title  string
	Extras []string
}

// CombineSpec is the declarative description of one combine operation.
// It is immutable once constructed.
type CombineSpec struct {
	Entries          []Entry
	Book             metadata.Book
	PreserveChapters bool

	// Warnings collects non-fatal parse notes (unrecognized metadata keys)
	// for the caller to log.
	Warnings []string
}

// Files returns the ordered source paths.
func (s *CombineSpec) Files() []string {
	files := make([]string, len(s.Entries))
	for i, entry := range s.Entries {
		files[i] = entry.File
	}
	return files
}

// FromGlob builds a CombineSpec from a matched file list. Non-container
// files are dropped, the rest are natural-sorted by basename, and titles are
// derived from filenames.
func FromGlob(files []string) *CombineSpec {
	kept := make([]string, 0, len(files))
	for _, file := range files {
		if IsContainer(file) {
			kept = append(kept, file)
		}
	}
	textutil.SortNatural(kept, filepath.Base)

	entries := make([]Entry, len(kept))
	for i, file := range kept {
		entries[i] = Entry{File: file, Title: metadata.DeriveTitle(file, i+1, "")}
	}
	return &CombineSpec{Entries: entries}
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
