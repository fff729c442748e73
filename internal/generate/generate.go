// Package generate produces the documentation sections: six standalone
// generators plus a per-module detail batch, each scored by
// ContentQualityCheck and regenerated with refinement guidance when the
// score falls short.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// Section names a standalone generator and its minimum required diagram
// count, matching the order sections appear in the assembled output.
type Section struct {
	Name            string
	RequiredCharts  int
	buildPrompt     func(repoName string, st *state.Store) string
}

// Sections lists the six independent generators run in parallel. The
// seventh section, module_details, is a batch over core modules and is
// generated separately via RunModuleDetails.
var Sections = []Section{
	{Name: "overall_architecture", RequiredCharts: 4, buildPrompt: overallArchitecturePrompt},
	{Name: "api_docs", RequiredCharts: 1, buildPrompt: apiDocsPrompt},
	{Name: "dependency", RequiredCharts: 2, buildPrompt: dependencyPrompt},
	{Name: "timeline", RequiredCharts: 2, buildPrompt: timelinePrompt},
	{Name: "glossary", RequiredCharts: 1, buildPrompt: glossaryPrompt},
	{Name: "quick_look", RequiredCharts: 1, buildPrompt: quickLookPrompt},
}

// sectionResult is computeSection's output: everything RunSection or a
// batch's PostBatch needs to write to the blackboard, without having
// touched it itself.
type sectionResult struct {
	content    string
	dims       map[string]float64
	overall    float64
	attempt    int
	failureMsg string // non-empty when every generation attempt failed and content fell back to a placeholder
}

// RunSection generates one section's content and writes the result (or a
// placeholder, if no client is configured) directly to the blackboard. It
// is the entry point for sequential use; batched parallel use should call
// computeSection and write results in PostBatch instead, so the
// blackboard is written only there.
func RunSection(ctx context.Context, st *state.Store, sec Section, cfg config.QualityConfig, client *llm.Client, model string) error {
	repoName := repoDisplayName(st.RepoSource())
	prompt := sec.buildPrompt(repoName, st)
	res := computeSection(ctx, sec, prompt, cfg, client, model)
	applySectionResult(st, sec, res)
	return nil
}

func applySectionResult(st *state.Store, sec Section, res sectionResult) {
	st.SetGeneratedContent(sec.Name, res.content)
	st.SetQualityScore(sec.Name, state.QualityScore{Overall: res.overall, Dimensions: res.dims, Attempt: res.attempt})
	if res.failureMsg != "" {
		st.AppendError(state.ErrorRecord{
			Stage: "generate_" + sec.Name, Kind: state.ErrorKindWarning,
			Message: res.failureMsg, Timestamp: time.Now(), Recovered: true,
		})
	}
}

// computeSection runs the generate/score/refine loop for one section
// without touching the blackboard, so it can run concurrently across
// sections inside a BatchNode's Execute phase.
func computeSection(ctx context.Context, sec Section, prompt string, cfg config.QualityConfig, client *llm.Client, model string) sectionResult {
	timer := logging.StartTimer(logging.CategoryGenerate, "generate_"+sec.Name)
	defer timer.Stop()

	if client == nil {
		return sectionResult{content: placeholderContent(sec, "no language model configured")}
	}

	threshold := cfg.OverallThreshold
	if threshold <= 0 {
		threshold = 7.0
	}
	attempts := cfg.MaxRegenerationAttempts
	if attempts <= 0 {
		attempts = 2
	}
	autoRegenerate := cfg.AutoRegenerate

	var res sectionResult

	for attempt := 1; attempt <= attempts+1; attempt++ {
		raw, err := client.Generate(ctx, llm.Request{
			SystemPrompt: "You write clear, accurate technical documentation for software repositories.",
			UserPrompt:   prompt,
			Model:        model,
			MaxTokens:    3000,
			Temperature:  0.3,
		})
		if err != nil {
			logging.GenerateWarn("generate %s attempt %d failed: %v", sec.Name, attempt, err)
			if res.content == "" {
				res.failureMsg = fmt.Sprintf("section unavailable: %v", err)
			}
			break
		}

		dims := ScoreContent(raw, sec.RequiredCharts)
		overall := OverallScore(dims)
		res = sectionResult{content: raw, dims: dims, overall: overall, attempt: attempt}
		logging.Generate("generate %s attempt %d: overall=%.1f", sec.Name, attempt, overall)

		if overall >= threshold || !autoRegenerate || attempt > attempts {
			break
		}

		critique := critiqueFrom(dims, sec.RequiredCharts)
		prompt = fmt.Sprintf("%s\n\nYour previous attempt scored %.1f/10 overall. Revise it: %s\n\nPrevious attempt:\n%s", prompt, overall, critique, raw)
	}

	if res.content == "" {
		res.content = placeholderContent(sec, "generation failed")
	}
	return res
}

func placeholderContent(sec Section, reason string) string {
	return fmt.Sprintf("# %s\n\n_Content unavailable: %s._\n", strings.ReplaceAll(sec.Name, "_", " "), reason)
}

func repoDisplayName(source string) string {
	trimmed := strings.TrimSuffix(source, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if idx := strings.LastIndexAny(trimmed, "/\\"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func critiqueFrom(dims map[string]float64, requiredCharts int) string {
	var weakest string
	lowest := 11.0
	for name, v := range dims {
		if v < lowest {
			lowest, weakest = v, name
		}
	}
	if weakest == "visualization" {
		return fmt.Sprintf("include at least %d mermaid diagrams fenced with ```mermaid blocks", requiredCharts)
	}
	return fmt.Sprintf("improve %s, which scored lowest (%.1f/10)", weakest, lowest)
}
