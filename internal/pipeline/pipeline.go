// Package pipeline wires every stage — repository preparation, parsing and
// history analysis, core-module understanding, RAG chunking, section and
// module-detail generation, Mermaid validation, assembly, and reporting —
// into a single flow over the shared blackboard.
package pipeline

import (
	"context"
	"time"

	"github.com/repodocs/repodocs/internal/assemble"
	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/generate"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/history"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/mermaid"
	"github.com/repodocs/repodocs/internal/parse"
	"github.com/repodocs/repodocs/internal/rag"
	"github.com/repodocs/repodocs/internal/report"
	"github.com/repodocs/repodocs/internal/repo"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/repodocs/repodocs/internal/understand"
)

// Options bundles everything a Build call needs beyond the loaded
// configuration: the shared LLM client and a dry-run switch that stops
// short of writing files to disk.
type Options struct {
	Client  *llm.Client
	DryRun  bool
	Started time.Time
}

// Build assembles the full generation flow from cfg and opts. The
// returned Flow is itself a graph.Node, so callers run it with Flow.Run.
func Build(cfg *config.Config, opts Options) *graph.Flow {
	client := opts.Client
	started := opts.Started
	if started.IsZero() {
		started = time.Now()
	}

	prepareRepo := repo.NewNode(cfg.Repo)

	parseBatch := parse.NewNode(cfg.Parse)
	analyzeHistory := history.NewNode(cfg.Repo, client)
	gatherInputs := graph.NewFork("gather_inputs", parseBatch, analyzeHistory)

	understandModel := cfg.ModelFor("understand_core_modules", "")
	understandCore := understand.NewNode(cfg.Quality, client, understandModel)

	prepareRAG := rag.NewNode(cfg.Embedding)

	// fanout is shared between both generators below so the configured call
	// limit bounds their combined concurrency, not each one independently —
	// the two batches run side by side under generateContent's Fork.
	fanout := graph.NewParallel(cfg.MaxConcurrentLLMCalls)
	sectionsModel := cfg.ModelFor("generate_sections", "")
	generateSections := generate.SectionsBatchNode(cfg.Quality, client, sectionsModel, fanout)

	moduleDetailsModel := cfg.ModelFor("generate_module_details", "")
	generateModuleDetails := generate.ModuleDetailsBatchNode(cfg.Quality, client, moduleDetailsModel, fanout)
	generateContent := graph.NewFork("generate_content", generateSections, generateModuleDetails)

	mermaidModel := cfg.ModelFor("validate_mermaid", "")
	validateMermaid := mermaid.NewNode(cfg.Mermaid, client, mermaidModel)

	assembleDocuments := assemble.NewNode(cfg.Mermaid, opts.DryRun)

	reportModel := cfg.LLM.Model
	writeReport := report.NewNode(client, reportModel, started, opts.DryRun)

	f := graph.NewFlow("generate_documentation", prepareRepo)
	f.Then(prepareRepo, gatherInputs)
	f.Then(gatherInputs, understandCore)
	f.Then(understandCore, prepareRAG)
	f.Then(prepareRAG, generateContent)
	f.Then(generateContent, validateMermaid)
	f.Then(validateMermaid, assembleDocuments)
	f.Then(assembleDocuments, writeReport)

	return f
}

// Run builds the flow for cfg/opts and executes it once against st.
func Run(ctx context.Context, st *state.Store, cfg *config.Config, opts Options) (graph.ActionLabel, error) {
	f := Build(cfg, opts)
	return f.Run(ctx, st)
}
