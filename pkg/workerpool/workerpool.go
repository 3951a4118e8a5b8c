// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

type options struct {
	continueOnError bool
}

// Option adjusts Process.
type Option func(*options)

// ContinueOnError keeps processing after a failed item and joins every error.
func ContinueOnError() Option {
	return func(o *options) {
		o.continueOnError = true
	}
}

// Process runs a worker pool over the provided work items, invoking process for each.
// By default the first error cancels the context and stops further work.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
	opts ...Option,
) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan T, workerCount)

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-tasks:
					if !ok {
						return
					}
					if err := process(ctx, item); err != nil {
						record(err)
						if !o.continueOnError {
							cancel()
							return
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- item:
			}
		}
	}()

	wg.Wait()

	if len(errs) > 0 {
		if o.continueOnError {
			return errors.Join(errs...)
		}
		return errs[0]
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}
