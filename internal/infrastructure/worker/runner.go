// Package worker provides the bounded-concurrency runner used to drive
// scraping work. It is the sole concurrency-control chokepoint: nothing else
// in the service launches unbounded concurrent network operations.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is one independently runnable unit of work.
type Task[T any] func(ctx context.Context) (T, error)

// RunWithLimit executes tasks with at most limit running concurrently,
// queueing the rest behind a counting semaphore. Each task's failure (error
// or panic) is logged and its result dropped; sibling tasks are never
// cancelled, so partial results are always returned. Result ordering does
// not follow input ordering; results must carry their own identity.
func RunWithLimit[T any](ctx context.Context, tasks []Task[T], limit int, logger *zap.Logger) []T {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	results := make([]T, 0, len(tasks))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, run Task[T]) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("task panicked",
						zap.Int("task", idx),
						zap.Any("panic", r),
					)
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := run(ctx)
			if err != nil {
				logger.Warn("task failed",
					zap.Int("task", idx),
					zap.Error(err),
				)
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(i, task)
	}
	wg.Wait()

	return results
}
