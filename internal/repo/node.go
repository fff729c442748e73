package repo

import (
	"context"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Prepare to the graph engine: prepare reads the configured
// policy, execute does the clone/copy/stat work, post records nothing
// beyond what Prepare already wrote to the blackboard.
type Node struct {
	graph.BaseNode
	Config config.RepoConfig
}

// NewNode returns a PrepareRepo node named "prepare_repo".
func NewNode(cfg config.RepoConfig) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "prepare_repo"}, Config: cfg}
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	return st, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)
	if err := Prepare(ctx, st, n.Config); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}
