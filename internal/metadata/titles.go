package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	chapterPrefixRE = regexp.MustCompile(`(?i)^(chapter|ch|part|pt)[\s\-_]*\d*[\s\-_]*`)
	leadingNumberRE = regexp.MustCompile(`^\d+[\s\-_]*`)
	titleCaser      = cases.Title(language.Und)
)

// DeriveTitle produces a chapter title for a source file. An explicit
// non-empty title wins; otherwise the filename stem is cleaned up: common
// "Chapter"/"Part" prefixes and leading numbers are stripped, separators
// become spaces, and the remainder is title-cased. index is the 1-based
// chapter position used for the last-resort "Chapter N" fallback.
func DeriveTitle(path string, index int, explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cleaned := chapterPrefixRE.ReplaceAllString(stem, "")
	cleaned = leadingNumberRE.ReplaceAllString(cleaned, "")
	cleaned = strings.NewReplacer("_", " ", "-", " ").Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cleaned == "" {
		return fmt.Sprintf("Chapter %d", index)
	}
	return titleCaser.String(cleaned)
}
