package generate

import (
	"context"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
)

type sectionItem struct {
	sec    Section
	prompt string
}

// SectionsBatchNode builds the graph.BatchNode that runs all six standalone
// generators (everything but module_details) independently and
// concurrently, each with its own ContentQualityCheck regeneration loop;
// results are only written to the blackboard in PostBatch.
func SectionsBatchNode(cfg config.QualityConfig, client *llm.Client, model string, runner graph.Runner) *graph.BatchNode {
	return &graph.BatchNode{
		BaseNode: graph.BaseNode{NodeName: "generate_sections"},
		Runner:   runner,
		PrepareItems: func(ctx context.Context, st *state.Store) ([]any, error) {
			repoName := repoDisplayName(st.RepoSource())
			items := make([]any, len(Sections))
			for i, sec := range Sections {
				items[i] = sectionItem{sec: sec, prompt: sec.buildPrompt(repoName, st)}
			}
			return items, nil
		},
		ExecuteItem: func(ctx context.Context, item any) (any, error) {
			it := item.(sectionItem)
			return computeSection(ctx, it.sec, it.prompt, cfg, client, model), nil
		},
		PostBatch: func(ctx context.Context, st *state.Store, items, results []any) (graph.ActionLabel, error) {
			for i, r := range results {
				it := items[i].(sectionItem)
				res, ok := r.(sectionResult)
				if !ok {
					continue
				}
				applySectionResult(st, it.sec, res)
			}
			return graph.DefaultLabel, nil
		},
	}
}
