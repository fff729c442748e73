package understand

import (
	"context"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Run to the graph engine.
type Node struct {
	graph.BaseNode
	Config config.QualityConfig
	Client *llm.Client
	Model  string
}

// NewNode returns an AIUnderstandCoreModules node named "understand_core_modules".
func NewNode(cfg config.QualityConfig, client *llm.Client, model string) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "understand_core_modules"}, Config: cfg, Client: client, Model: model}
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	return st, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)
	if err := Run(ctx, st, n.Config, n.Client, n.Model); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}
