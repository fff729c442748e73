package graph

import (
	"context"
	"fmt"

	"github.com/repodocs/repodocs/internal/state"
)

// Flow composes nodes into a directed graph keyed by action label.
// A Flow is itself a Node, so a fully-wired Flow can be
// embedded as a single node inside a larger Flow. The edge walk is always a
// single logical thread; concurrency across independent units of work is the
// concern of BatchNode and its Runner, not of Flow itself.
type Flow struct {
	BaseNode
	start    Node
	edges    map[Node]map[ActionLabel]Node
	policies map[Node]RetryPolicy
}

// NewFlow creates a flow named for logs/tracing, rooted at start.
func NewFlow(name string, start Node) *Flow {
	return &Flow{
		BaseNode: BaseNode{NodeName: name},
		start:    start,
		edges:    make(map[Node]map[ActionLabel]Node),
		policies: make(map[Node]RetryPolicy),
	}
}

// On registers an edge: when from's post returns label, next runs.
func (f *Flow) On(from Node, label ActionLabel, next Node) *Flow {
	if f.edges[from] == nil {
		f.edges[from] = make(map[ActionLabel]Node)
	}
	f.edges[from][label] = next
	return f
}

// Then is sugar for On(from, DefaultLabel, next), the common case of a
// single successor.
func (f *Flow) Then(from, next Node) *Flow {
	return f.On(from, DefaultLabel, next)
}

// WithRetry overrides the retry policy for a specific node within this flow.
func (f *Flow) WithRetry(n Node, policy RetryPolicy) *Flow {
	f.policies[n] = policy
	return f
}

func (f *Flow) policyFor(n Node) RetryPolicy {
	if p, ok := f.policies[n]; ok {
		return p
	}
	return DefaultRetryPolicy()
}

func (f *Flow) next(from Node, label ActionLabel) (Node, bool) {
	byLabel, ok := f.edges[from]
	if !ok {
		return nil, false
	}
	if n, ok := byLabel[label]; ok {
		return n, true
	}
	if label != DefaultLabel {
		if n, ok := byLabel[DefaultLabel]; ok {
			return n, true
		}
	}
	return nil, false
}

// errorEdge looks up an explicit ErrorLabel edge on from, with no fallback
// to its DefaultLabel edge. Run uses this (rather than next) so that a
// plain Then(from, to) edge is never mistaken for a recovery path.
func (f *Flow) errorEdge(from Node) (Node, bool) {
	byLabel, ok := f.edges[from]
	if !ok {
		return nil, false
	}
	n, ok := byLabel[ErrorLabel]
	return n, ok
}

// Run walks the flow from start to exhaustion, returning the last action
// label produced. A label with no matching edge ends the walk successfully
// (it is treated as a terminal state, not an error). When a node's run fails,
// the flow first looks for an ErrorLabel edge registered on that node; if one
// exists, the walk continues there instead of surfacing the error, so a
// recovery node gets a chance to handle it. Only when no such edge exists
// does the error propagate to the caller.
func (f *Flow) Run(ctx context.Context, st *state.Store) (ActionLabel, error) {
	if RunID(ctx) == "" {
		ctx, _ = WithRunID(ctx)
	}
	current := f.start
	var label ActionLabel
	for current != nil {
		var err error
		label, err = runNode(ctx, st, current, f.policyFor(current))
		if err != nil {
			nxt, ok := f.errorEdge(current)
			if !ok {
				return label, fmt.Errorf("flow %s: node %s: %w", f.Name(), current.Name(), err)
			}
			current = nxt
			continue
		}
		nxt, ok := f.next(current, label)
		if !ok {
			break
		}
		current = nxt
	}
	return label, nil
}

// Prepare/Execute/Post let a Flow act as a Node so it can be nested inside a
// larger Flow. Prepare simply threads the blackboard through to
// Execute, which performs the whole subgraph walk; Post forwards the
// resulting action label unchanged.

func (f *Flow) Prepare(ctx context.Context, st *state.Store) (any, error) { return st, nil }

func (f *Flow) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)
	return f.Run(ctx, st)
}

func (f *Flow) Post(ctx context.Context, st *state.Store, _ any, exec any) (ActionLabel, error) {
	label, _ := exec.(ActionLabel)
	return label, nil
}
