package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Async is the cooperative-async runner: every unit is launched on its own
// goroutine immediately, with no concurrency cap, so CPU time is cooperative
// while I/O-bound units (almost everything here: LLM calls, git subprocess,
// disk reads) overlap freely. Unlike Parallel it never throttles; use it only
// where the caller already bounds fan-out (e.g. per-section generation,
// where the section count is small and fixed).
type Async struct{}

func (Async) RunBatch(ctx context.Context, n int, work func(ctx context.Context, i int) (any, error)) ([]any, error) {
	results := make([]any, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
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
