// Package metadata holds the value types describing an audiobook and its
// chapters, plus the filename-derived fallback rules used when a combine
// spec or container does not declare titles. The types are built once per
// pipeline run and never mutated afterwards.
package metadata
