package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Parallel is the bounded-concurrency runner used for BatchNode fan-out over
// potentially large item counts (module detail generation, per-file parse
// batches): at most Limit units run at once, grounded on the same
// acquire/release semaphore shape used for call-rate limiting elsewhere in
// this codebase. The semaphore is allocated once in NewParallel and held by
// pointer, so a single Parallel value shared across multiple BatchNodes (for
// instance two batches running concurrently under a Fork) enforces one
// combined concurrency bound rather than one bound per call site.
type Parallel struct {
	Limit int64
	sem   *semaphore.Weighted
}

// NewParallel returns a Parallel runner capped at limit concurrent units.
// A non-positive limit is treated as unbounded (equivalent to Async). Share
// the returned value across every BatchNode that must respect the same
// overall concurrency budget.
func NewParallel(limit int) Parallel {
	if limit <= 0 {
		return Parallel{}
	}
	return Parallel{Limit: int64(limit), sem: semaphore.NewWeighted(int64(limit))}
}

func (p Parallel) RunBatch(ctx context.Context, n int, work func(ctx context.Context, i int) (any, error)) ([]any, error) {
	if p.Limit <= 0 || p.sem == nil {
		return Async{}.RunBatch(ctx, n, work)
	}

	results := make([]any, n)
	sem := p.sem
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			_ = g.Wait()
			return results, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			r, err := work(gctx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
