package assemble

import (
	"context"
	"strings"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/state"
)

// Node adapts Combine + Format to the graph engine, writing the resulting
// documents to the blackboard's final_documents and, unless DryRun is set,
// to disk.
type Node struct {
	graph.BaseNode
	Mermaid config.MermaidConfig
	DryRun  bool
}

// NewNode returns an AssembleDocuments node named "assemble_documents".
func NewNode(mermaidCfg config.MermaidConfig, dryRun bool) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "assemble_documents"}, Mermaid: mermaidCfg, DryRun: dryRun}
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	return st, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)
	docs := Format(Combine(st))

	final := make(map[string]string, len(docs))
	for _, d := range docs {
		final[d.Path] = d.Content
	}
	st.SetFinalDocuments(final)

	if n.DryRun {
		return nil, nil
	}

	repo := repoSlug(st.RepoSource())
	if err := WriteFiles(st.OutputDir(), repo, docs, n.Mermaid.BackupFiles); err != nil {
		return nil, err
	}
	return nil, nil
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}

func repoSlug(source string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(source, "/"), ".git")
	if idx := strings.LastIndexAny(trimmed, "/\\"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return Slugify(trimmed)
}
