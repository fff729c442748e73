package rag

import (
	"context"
	"fmt"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/embedding"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Run to the graph engine.
type Node struct {
	graph.BaseNode
	Config config.EmbeddingConfig
}

// NewNode returns a PrepareRAGData node named "prepare_rag_data".
func NewNode(cfg config.EmbeddingConfig) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "prepare_rag_data"}, Config: cfg}
}

type ragPrep struct {
	store   *state.Store
	root    string
	entries []state.FileEntry
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	root := st.LocalRepoPath()
	if root == "" {
		return nil, fmt.Errorf("rag: local repo path not set, prepare_repo must run first")
	}
	entries := st.CodeStructure()
	if len(entries) == 0 {
		return nil, fmt.Errorf("rag: no file entries in state, parse_code_batch must run first")
	}
	return ragPrep{store: st, root: root, entries: entries}, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	p := prep.(ragPrep)

	engine, err := embedding.NewEngineFromConfig(n.Config)
	if err != nil {
		return nil, fmt.Errorf("rag: building embedding engine: %w", err)
	}

	if err := Run(ctx, p.store, p.root, p.entries, engine); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}
