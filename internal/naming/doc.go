// Package naming resolves output-path templates for extracted chapters and
// converted files. Templates mix literal text with {placeholder} references
// to book and chapter metadata; numeric placeholders accept fixed-width
// zero-padding ({chapter_num:02d}). Resolution is deterministic, substitutes
// "Unknown"/0 for absent values, and sanitizes every path segment after
// substitution so a metadata value can never introduce path separators or
// characters illegal on common filesystems.
package naming
