package pipeline

import "fmt"

// Report aggregates per-task outcomes for one batch command.
type Report struct {
	Total     int
	Succeeded int
	Failures  []Failure
}

// Failure records one failed task together with the subject that caused it.
type Failure struct {
	Key     string
	Subject string
	Err     error
}

// Failed returns the number of failed tasks.
func (r Report) Failed() int {
	return r.Total - r.Succeeded
}

// AllSucceeded reports whether every task in the batch succeeded.
func (r Report) AllSucceeded() bool {
	return r.Succeeded == r.Total
}

// Summary renders the aggregate line shown by batch commands.
func (r Report) Summary() string {
	return fmt.Sprintf("%d of %d succeeded", r.Succeeded, r.Total)
}

// Merge folds other into r.
func (r *Report) Merge(other Report) {
	r.Total += other.Total
	r.Succeeded += other.Succeeded
	r.Failures = append(r.Failures, other.Failures...)
}
