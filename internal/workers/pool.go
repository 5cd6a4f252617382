// Package workers runs independent units of work on a bounded number of goroutines.
package workers

import (
	"context"
	"errors"
	"sync"
)

// job is a unit of work for the pool.
type job[In any] struct {
	index int
	item  In
}

// result is the output of a single job.
type result[Out any] struct {
	index int
	value Out
	err   error
}

// Pool manages a fixed number of goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers. Values below one mean one worker.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the number of goroutines the pool runs.
func (p *Pool) Workers() int {
	return p.workers
}

// Map calls fn for every item and returns the results in the order of the items.
//
// The first error cancels the remaining work and is returned. The context is
// checked before every unit of work.
func Map[In, Out any](ctx context.Context, p *Pool, items []In, fn func(ctx context.Context, item In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out, ctx.Err()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan job[In], workers*2)
	results := make(chan result[Out], workers*2)

	// Start workers.
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				var r result[Out]
				if err := ctx.Err(); err != nil {
					r = result[Out]{index: j.index, err: err}
				} else {
					v, err := fn(ctx, j.item)
					r = result[Out]{index: j.index, value: v, err: err}
				}
				select {
				case results <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs in a goroutine.
	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- job[In]{index: i, item: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results when all workers are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	firstIndex := len(items)
	received := 0
	for r := range results {
		received++
		if r.err != nil {
			// the earliest failed item wins; cancellations caused by it are ignored
			if firstErr == nil || preferError(r.err, r.index, firstErr, firstIndex) {
				firstErr, firstIndex = r.err, r.index
			}
			cancel()
			continue
		}
		out[r.index] = r.value
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if received < len(items) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func preferError(err error, index int, current error, currentIndex int) bool {
	canceled := errors.Is(err, context.Canceled)
	currentCanceled := errors.Is(current, context.Canceled)
	if canceled != currentCanceled {
		return currentCanceled
	}
	return index < currentIndex
}
