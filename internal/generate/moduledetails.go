package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// ModuleDetailsBatchNode builds a graph.BatchNode that generates one detail
// page per core module, each scoped to that module's files plus its
// immediate dependency neighborhood, capped at cfg.MaxModulesPerBatch
// modules per run.
func ModuleDetailsBatchNode(cfg config.QualityConfig, client *llm.Client, model string, runner graph.Runner) *graph.BatchNode {
	return &graph.BatchNode{
		BaseNode: graph.BaseNode{NodeName: "generate_module_details"},
		Runner:   runner,
		PrepareItems: func(ctx context.Context, st *state.Store) ([]any, error) {
			modules := st.CoreModules()
			maxModules := cfg.MaxModulesPerBatch
			if maxModules <= 0 {
				maxModules = 20
			}
			if len(modules) > maxModules {
				logging.GenerateWarn("module_details: capping %d modules to %d per max_modules_per_batch", len(modules), maxModules)
				modules = modules[:maxModules]
			}
			items := make([]any, len(modules))
			for i, m := range modules {
				items[i] = moduleDetailItem{module: m, all: st.CoreModules(), entries: st.CodeStructure(), edges: st.Dependencies()}
			}
			return items, nil
		},
		ExecuteItem: func(ctx context.Context, item any) (any, error) {
			it := item.(moduleDetailItem)
			return generateModuleDetail(ctx, it, client, model)
		},
		PostBatch: func(ctx context.Context, st *state.Store, items, results []any) (graph.ActionLabel, error) {
			for i, r := range results {
				it := items[i].(moduleDetailItem)
				res, ok := r.(moduleDetailResult)
				if !ok {
					continue
				}
				st.SetModuleDetail(it.module.Name, res.content)
				st.SetQualityScore("module_details:"+it.module.Name, state.QualityScore{Overall: res.overall, Dimensions: res.dims, Attempt: res.attempt})
				if res.failureMsg != "" {
					st.AppendError(state.ErrorRecord{
						Stage: "generate_module_details:" + it.module.Name, Kind: state.ErrorKindWarning,
						Message: res.failureMsg, Timestamp: time.Now(), Recovered: true,
					})
				}
			}
			return graph.DefaultLabel, nil
		},
	}
}

type moduleDetailItem struct {
	module  state.ModuleDescriptor
	all     []state.ModuleDescriptor
	entries []state.FileEntry
	edges   []state.DependencyEdge
}

type moduleDetailResult struct {
	content    string
	overall    float64
	dims       map[string]float64
	attempt    int
	failureMsg string // non-empty when generation failed and content fell back to a placeholder
}

func generateModuleDetail(ctx context.Context, it moduleDetailItem, client *llm.Client, model string) (moduleDetailResult, error) {
	if client == nil {
		return moduleDetailResult{content: fmt.Sprintf("# %s\n\n_Content unavailable: no language model configured._\n", it.module.Name)}, nil
	}

	prompt := moduleDetailPrompt(it)
	raw, err := client.Generate(ctx, llm.Request{
		SystemPrompt: "You write focused reference pages for individual software modules.",
		UserPrompt:   prompt,
		Model:        model,
		MaxTokens:    1800,
		Temperature:  0.3,
	})
	if err != nil {
		logging.GenerateWarn("module_details %s: generation failed: %v", it.module.Name, err)
		return moduleDetailResult{
			content:    fmt.Sprintf("# %s\n\n_Content unavailable: generation failed._\n", it.module.Name),
			failureMsg: fmt.Sprintf("module detail unavailable: %v", err),
		}, nil
	}

	dims := ScoreContent(raw, 0)
	overall := OverallScore(dims)
	return moduleDetailResult{content: raw, overall: overall, dims: dims, attempt: 1}, nil
}

func moduleDetailPrompt(it moduleDetailItem) string {
	var neighbors strings.Builder
	neighborSet := map[string]bool{}
	for _, e := range it.edges {
		if e.From == it.module.Path {
			neighborSet[e.To] = true
		}
		if e.To == it.module.Path {
			neighborSet[e.From] = true
		}
	}
	for name := range neighborSet {
		fmt.Fprintf(&neighbors, "- %s\n", name)
	}

	var files strings.Builder
	for _, e := range it.entries {
		if strings.HasPrefix(e.Path, it.module.Path) {
			fmt.Fprintf(&files, "- %s (%s): %s\n", e.Path, e.Language, e.ASTSummary)
		}
	}

	return fmt.Sprintf(`Write a detail page for the module %q (%s).

Description: %s
Importance: %d/10
Depends on: %s

Files in this module:
%s

Immediate neighbor modules:
%s

Explain the module's responsibility, its key types and functions, and how it interacts with its neighbors. Write as Markdown.`,
		it.module.Name, it.module.Path, it.module.Description, it.module.Importance,
		strings.Join(it.module.DependsOn, ", "), files.String(), neighbors.String())
}
