// Package textutil provides small string helpers shared across the
// pipelines: filename sanitization for template-resolved output paths and
// natural ordering for numbered chapter files.
package textutil
