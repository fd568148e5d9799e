// Package scheduler runs batches of independent encoder tasks under a
// bounded concurrency limit. Every submitted task yields exactly one outcome,
// outcomes come back in submission order regardless of completion order, and
// one task's failure never cancels its siblings. There are no retries;
// callers decide what a failure means for the batch.
package scheduler
