package importance

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// task is one closed, independent unit of work: compute the importance of
// a single feature.
type task struct {
	feature string
	run     func() (float64, error)
}

// runParallel executes all tasks on a bounded worker set and merges their
// results. Any task or context failure aborts the whole batch: the partial
// map is discarded by the caller, which re-runs the task set sequentially.
// errgroup guarantees every started worker is joined before return, so no
// goroutine outlives the call on any path.
func runParallel(ctx context.Context, workers int, tasks []task, tick func()) (map[string]float64, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	out := make(map[string]float64, len(tasks))

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			v, err := t.run()
			if err != nil {
				return fmt.Errorf("feature %q: %w", t.feature, err)
			}

			mu.Lock()
			out[t.feature] = v
			mu.Unlock()

			if tick != nil {
				tick()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// runSequential executes the same task set in the caller's goroutine. A
// task failure here surfaces directly, attributed to its feature.
func runSequential(ctx context.Context, tasks []task, tick func()) (map[string]float64, error) {
	out := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := t.run()
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", t.feature, err)
		}
		out[t.feature] = v
		if tick != nil {
			tick()
		}
	}
	return out, nil
}
