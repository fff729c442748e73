package parse

import (
	"context"
	"fmt"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Run to the graph engine: prepare reads the repo's local
// working path from the blackboard, execute walks and parses it.
type Node struct {
	graph.BaseNode
	Config config.ParseConfig
}

// NewNode returns a ParseCodeBatch node named "parse_code_batch".
func NewNode(cfg config.ParseConfig) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "parse_code_batch"}, Config: cfg}
}

type parsePrep struct {
	store *state.Store
	root  string
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	root := st.LocalRepoPath()
	if root == "" {
		return nil, fmt.Errorf("parse: local repo path not set, prepare_repo must run first")
	}
	return parsePrep{store: st, root: root}, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	p := prep.(parsePrep)
	if err := Run(ctx, p.store, p.root, n.Config); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}
