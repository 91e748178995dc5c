package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// gather fans n independent tasks out to a bounded worker pool and collects
// the results keyed by task index, so output order never depends on
// completion order. A task's failure is contained: its slot stays empty and
// sibling tasks are unaffected.
func gather[T any](ctx context.Context, workers, n int, logger *slog.Logger, task func(ctx context.Context, idx int) ([]T, error)) []T {
	if workers <= 0 {
		workers = 3
	}

	results := make([][]T, n)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			items, err := task(ctx, idx)
			if err != nil {
				logger.Error("pipeline.section_failed", "section", idx, "error", err)
				return
			}
			results[idx] = items
		}(i)
	}
	wg.Wait()

	var out []T
	for _, items := range results {
		out = append(out, items...)
	}
	return out
}
