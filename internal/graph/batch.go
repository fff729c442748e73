package graph

import (
	"context"
	"fmt"

	"github.com/repodocs/repodocs/internal/state"
)

// BatchNode fans a single prepare phase out into N independent execute calls
// scheduled by Runner, then collects results back in input order for post.
// Runner may be Sequential, Async, or a bounded Parallel; swapping it changes
// only scheduling, never the batch's observable result order.
type BatchNode struct {
	BaseNode
	Runner       Runner
	PrepareItems func(ctx context.Context, st *state.Store) ([]any, error)
	ExecuteItem  func(ctx context.Context, item any) (any, error)
	PostBatch    func(ctx context.Context, st *state.Store, items, results []any) (ActionLabel, error)
}

type batchPrep struct {
	items []any
}

func (b *BatchNode) Prepare(ctx context.Context, st *state.Store) (any, error) {
	items, err := b.PrepareItems(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("%s: prepare items: %w", b.Name(), err)
	}
	return batchPrep{items: items}, nil
}

func (b *BatchNode) Execute(ctx context.Context, prep any) (any, error) {
	bp := prep.(batchPrep)
	runner := b.Runner
	if runner == nil {
		runner = Sequential{}
	}
	results, err := runner.RunBatch(ctx, len(bp.items), func(ctx context.Context, i int) (any, error) {
		return b.ExecuteItem(ctx, bp.items[i])
	})
	if err != nil {
		return nil, fmt.Errorf("%s: batch execute: %w", b.Name(), err)
	}
	return results, nil
}

func (b *BatchNode) Post(ctx context.Context, st *state.Store, prep, exec any) (ActionLabel, error) {
	bp := prep.(batchPrep)
	results := exec.([]any)
	return b.PostBatch(ctx, st, bp.items, results)
}
