// Package understand asks the LLM to describe a repository's core modules
// and architecture, then parses whatever shape the response comes back in
// (JSON, YAML, structured Markdown, or unstructured prose) into typed
// ModuleDescriptors, scoring the result and retrying on a low score.
package understand

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// DegradedQuality is the single documented quality value written whenever a
// degraded path short-circuits scoring, instead of one value per call site.
const DegradedQuality = 0.4

const promptTemplate = `You are analyzing the structure of a software repository.

File summary (%d files):
%s

Dependency edges (%d):
%s

Describe the core modules of this repository. For each module give its name, its
path, a one or two sentence description, an importance rating from 1 to 10, and
the names of modules it depends on. Also write a short architecture summary.

Respond as JSON with this shape:
{"modules": [{"name": "...", "path": "...", "description": "...", "importance": 1, "depends_on": ["..."]}], "architecture_summary": "..."}`

const refinementSuffix = `

Your previous answer scored low on completeness or structure. Revise it: cover
every major directory, use concrete module names, and keep the required JSON
shape exactly.

Previous critique: %s`

// Run sends the pruned code structure and dependency graph to client and
// parses the result into core modules and an architecture summary, retrying
// up to cfg.MaxRegenerationAttempts times when the composite quality score
// falls below cfg.OverallThreshold. If every attempt fails, it falls back to
// a structure-only description at DegradedQuality.
func Run(ctx context.Context, st *state.Store, cfg config.QualityConfig, client *llm.Client, model string) error {
	timer := logging.StartTimer(logging.CategoryUnderstand, "understand_core_modules")
	defer timer.Stop()

	entries := st.CodeStructure()
	edges := st.Dependencies()
	prompt := buildPrompt(entries, edges)

	threshold := cfg.OverallThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	attempts := cfg.MaxRegenerationAttempts
	if attempts <= 0 {
		attempts = 2
	}

	var lastScore float64
	var lastCritique string

	for attempt := 1; attempt <= attempts+1; attempt++ {
		if client == nil {
			break
		}
		raw, err := client.Generate(ctx, llm.Request{
			SystemPrompt: "You produce precise, structured descriptions of software architecture.",
			UserPrompt:   prompt,
			Model:        model,
			MaxTokens:    2000,
			Temperature:  0.2,
		})
		if err != nil {
			logging.UnderstandWarn("understand attempt %d failed: %v", attempt, err)
			break
		}

		modules, archSummary, parseErr := parseResponse(raw)
		if parseErr != nil {
			logging.UnderstandWarn("understand attempt %d: unparseable response: %v", attempt, parseErr)
			lastCritique = parseErr.Error()
			prompt = fmt.Sprintf(promptTemplate+refinementSuffix, len(entries), summarizeEntries(entries), len(edges), summarizeEdges(edges), lastCritique)
			continue
		}
		modules = filterValidModules(entries, modules)

		score := compositeScore(modules, archSummary)
		lastScore = score
		logging.Understand("understand attempt %d: quality=%.2f modules=%d", attempt, score, len(modules))

		if score >= threshold || attempt > attempts {
			st.SetCoreModules(modules)
			st.SetArchitectureSummary(archSummary)
			st.SetQualityScore("core_modules", state.QualityScore{Overall: score, Attempt: attempt})
			return nil
		}

		lastCritique = fmt.Sprintf("score %.2f below threshold %.2f: too few modules or missing descriptions", score, threshold)
		prompt = fmt.Sprintf(promptTemplate+refinementSuffix, len(entries), summarizeEntries(entries), len(edges), summarizeEdges(edges), lastCritique)
	}

	logging.UnderstandWarn("understand falling back to degraded structural description, last score=%.2f", lastScore)
	modules, archSummary := degradedFallback(entries)
	modules = filterValidModules(entries, modules)
	st.SetCoreModules(modules)
	st.SetArchitectureSummary(archSummary)
	st.SetQualityScore("core_modules", state.QualityScore{Overall: DegradedQuality, Attempt: attempts + 1})
	return nil
}

func buildPrompt(entries []state.FileEntry, edges []state.DependencyEdge) string {
	return fmt.Sprintf(promptTemplate, len(entries), summarizeEntries(entries), len(edges), summarizeEdges(edges))
}

func summarizeEntries(entries []state.FileEntry) string {
	var b strings.Builder
	limit := len(entries)
	if limit > 200 {
		limit = 200
	}
	for _, e := range entries[:limit] {
		fmt.Fprintf(&b, "- %s (%s): %s\n", e.Path, e.Language, e.ASTSummary)
	}
	return b.String()
}

func summarizeEdges(edges []state.DependencyEdge) string {
	var b strings.Builder
	limit := len(edges)
	if limit > 200 {
		limit = 200
	}
	for _, e := range edges[:limit] {
		fmt.Fprintf(&b, "- %s -> %s\n", e.From, e.To)
	}
	return b.String()
}

// filterValidModules drops any descriptor whose path resolves to neither a
// file nor a directory present in entries, warning once per dropped
// descriptor. A hallucinated path must never reach generation or cross-linking.
func filterValidModules(entries []state.FileEntry, modules []state.ModuleDescriptor) []state.ModuleDescriptor {
	known := knownModulePaths(entries)
	kept := make([]state.ModuleDescriptor, 0, len(modules))
	for _, m := range modules {
		if known[normalizeModulePath(m.Path)] {
			kept = append(kept, m)
			continue
		}
		logging.UnderstandWarn("dropping module %q: path %q does not resolve to any entry in the repository structure", m.Name, m.Path)
	}
	return kept
}

// knownModulePaths builds the set of every file path in entries plus every
// ancestor directory of those paths, since an LLM-produced module path may
// name either a single file or a whole package directory.
func knownModulePaths(entries []state.FileEntry) map[string]bool {
	known := map[string]bool{".": true}
	for _, e := range entries {
		p := normalizeModulePath(e.Path)
		known[p] = true
		for dir := filepath.Dir(p); dir != "." && !known[dir]; dir = filepath.Dir(dir) {
			known[dir] = true
		}
	}
	return known
}

func normalizeModulePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
