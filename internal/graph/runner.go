package graph

import (
	"context"
)

// Runner schedules a batch of independent units of work: sequential,
// cooperative-async, or bounded-parallel. A unit is opaque to the runner;
// work is a closure over one item that returns its own ordinal result.
type Runner interface {
	// RunBatch invokes work(ctx, i) for every i in [0, n) and returns their
	// results in input order, regardless of completion order.
	RunBatch(ctx context.Context, n int, work func(ctx context.Context, i int) (any, error)) ([]any, error)
}

// Sequential runs one unit at a time, in order. This is the default runner
// and the one used for a flow's own edge walk.
type Sequential struct{}

func (Sequential) RunBatch(ctx context.Context, n int, work func(ctx context.Context, i int) (any, error)) ([]any, error) {
	results := make([]any, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := work(ctx, i)
		if err != nil {
			return results, err
		}
		results[i] = r
	}
	return results, nil
}
