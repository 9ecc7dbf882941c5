package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is an independent unit of best-effort work.
type Task func(ctx context.Context) error

// Failure records a task that returned an error or panicked.
type Failure struct {
	Index int
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("task %d: %v", f.Index, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Settle runs every task to completion with at most limit running at once
// (unbounded when limit <= 0) and returns the failures in task order.
// A failing task never stops the others.
func Settle(ctx context.Context, limit int, tasks ...Task) []Failure {
	var (
		g        errgroup.Group
		failures []Failure
	)

	if limit > 0 {
		g.SetLimit(limit)
	}

	// each goroutine owns one slot
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic: %v", r)
				}
			}()

			errs[i] = task(ctx)
			return nil
		})
	}

	g.Wait()

	for i, err := range errs {
		if err != nil {
			failures = append(failures, Failure{Index: i, Err: err})
		}
	}
	return failures
}
