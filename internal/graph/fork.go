package graph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/repodocs/repodocs/internal/state"
)

// Fork runs a fixed set of independent subgraphs concurrently and joins on
// all of them before continuing, the counterpart to BatchNode's
// data-parallel fan-out for a small number of structurally different
// branches (e.g. parsing source and analyzing history run at once, each
// writing distinct blackboard fields). Each branch keeps its own retry
// policy via WithRetry, same as any other node in the enclosing Flow.
type Fork struct {
	BaseNode
	branches []Node
	policies map[Node]RetryPolicy
}

// NewFork returns a Fork named for logs/tracing, joining every branch node.
func NewFork(name string, branches ...Node) *Fork {
	return &Fork{
		BaseNode: BaseNode{NodeName: name},
		branches: branches,
		policies: make(map[Node]RetryPolicy),
	}
}

// WithRetry overrides the retry policy for one of this Fork's branches.
func (f *Fork) WithRetry(n Node, policy RetryPolicy) *Fork {
	f.policies[n] = policy
	return f
}

func (f *Fork) policyFor(n Node) RetryPolicy {
	if p, ok := f.policies[n]; ok {
		return p
	}
	return DefaultRetryPolicy()
}

func (f *Fork) Prepare(ctx context.Context, st *state.Store) (any, error) { return st, nil }

func (f *Fork) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)
	g, gctx := errgroup.WithContext(ctx)
	labels := make([]ActionLabel, len(f.branches))
	for i, branch := range f.branches {
		i, branch := i, branch
		g.Go(func() error {
			label, err := runNode(gctx, st, branch, f.policyFor(branch))
			labels[i] = label
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return labels, err
	}
	return labels, nil
}

func (f *Fork) Post(ctx context.Context, st *state.Store, prep, exec any) (ActionLabel, error) {
	return DefaultLabel, nil
}
