package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task is one unit of external encoder work. Key is the correlation ID used
// in temp-file names and failure reports; Run performs the invocation and
// returns the produced output path.
type Task struct {
	Key string
	Run func(ctx context.Context) (string, error)
}

// Outcome is the result of one task.
type Outcome struct {
	Key     string
	Output  string
	Elapsed time.Duration
	Err     error
}

// Options configures a batch run.
type Options struct {
	// Concurrency caps how many tasks run at once; values below 1 mean
	// fully sequential.
	Concurrency int
	// OnOutcome, when set, observes each outcome as its task finishes
	// (completion order, not submission order). Called from worker
	// goroutines; observers must be safe for concurrent use.
	OnOutcome func(Outcome)
}

// Run executes tasks and returns one outcome per task in submission order.
// The context is passed through to each task; cancelled tasks report their
// context error but the batch still drains.
func Run(ctx context.Context, tasks []Task, opts Options) []Outcome {
	if len(tasks) == 0 {
		return nil
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	outcomes := make([]Outcome, len(tasks))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, t Task) {
			defer wg.Done()
			defer func() { <-sem }()

			started := time.Now()
			output, err := t.Run(ctx)
			outcome := Outcome{
				Key:     t.Key,
				Output:  output,
				Elapsed: time.Since(started),
				Err:     err,
			}
			outcomes[slot] = outcome
			if opts.OnOutcome != nil {
				opts.OnOutcome(outcome)
			}
		}(i, task)
	}
	wg.Wait()

	return outcomes
}

// Succeeded counts the outcomes without an error.
func Succeeded(outcomes []Outcome) int {
	count := 0
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			count++
		}
	}
	return count
}
