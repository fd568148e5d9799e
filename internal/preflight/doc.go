// Package preflight verifies external tooling and filesystem access
// before a pipeline runs.
package preflight
