// Package timeline computes the chapter layout of a combined container:
// cumulative start offsets across the ordered sources, optionally expanding
// each source's embedded chapters into the combined timeline. The builder
// never reorders sources, and the resulting total always equals the sum of
// the source durations.
package timeline
