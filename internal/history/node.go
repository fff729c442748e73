package history

import (
	"context"
	"fmt"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Run to the graph engine.
type Node struct {
	graph.BaseNode
	Config config.RepoConfig
	Client *llm.Client
}

// NewNode returns an AnalyzeHistory node named "analyze_history".
func NewNode(cfg config.RepoConfig, client *llm.Client) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "analyze_history"}, Config: cfg, Client: client}
}

type historyPrep struct {
	store *state.Store
	root  string
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	root := st.LocalRepoPath()
	if root == "" {
		return nil, fmt.Errorf("history: local repo path not set, prepare_repo must run first")
	}
	return historyPrep{store: st, root: root}, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	p := prep.(historyPrep)
	if err := Run(ctx, p.store, p.root, n.Config, n.Client); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}
