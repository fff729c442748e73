// Package report assembles the end-of-run report.json: per-section
// quality scores, Mermaid validation findings, per-stage error records,
// total token usage, and an estimated dollar cost for the run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// SectionReport is one section's final quality outcome.
type SectionReport struct {
	QualityScore float64            `json:"quality_score"`
	Dimensions   map[string]float64 `json:"dimensions,omitempty"`
	Attempts     int                `json:"attempts"`
}

// TokenUsageSummary totals token spend across every LLM call made during
// the run.
type TokenUsageSummary struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	Calls            int64 `json:"calls"`
}

// Report is the full report.json document.
type Report struct {
	RunID            string                    `json:"run_id,omitempty"`
	Sections         map[string]SectionReport  `json:"sections"`
	Mermaid          []state.ValidationFinding `json:"mermaid,omitempty"`
	Errors           []state.ErrorRecord       `json:"errors,omitempty"`
	TokenUsage       TokenUsageSummary         `json:"token_usage"`
	EstimatedCostUSD float64                   `json:"estimated_cost_usd"`
	DurationMs       int64                     `json:"duration_ms"`
}

// Build assembles a Report from the blackboard's recorded quality scores,
// Mermaid findings, and errors, plus usage pulled from client (nil is
// treated as zero usage, e.g. a dry run with no configured provider) and
// the elapsed wall-clock duration of the run.
func Build(st *state.Store, client *llm.Client, model string, runID string, duration time.Duration) Report {
	sections := make(map[string]SectionReport)
	for name, q := range st.AllQualityScores() {
		sections[name] = SectionReport{QualityScore: q.Overall, Dimensions: q.Dimensions, Attempts: q.Attempt}
	}

	var usage llm.UsageTotals
	if client != nil {
		usage = client.Usage()
	}
	total := TokenUsageSummary{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.PromptTokens + usage.CompletionTokens,
		Calls:            usage.Calls,
	}

	return Report{
		RunID:            runID,
		Sections:         sections,
		Mermaid:          st.MermaidReport(),
		Errors:           st.Errors(),
		TokenUsage:       total,
		EstimatedCostUSD: EstimateCost(model, usage),
		DurationMs:       duration.Milliseconds(),
	}
}

// Write marshals r as indented JSON to outputDir/<repo>/report.json,
// atomically (temp file + rename).
func Write(outputDir, repo string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}

	target := filepath.Join(outputDir, repo, "report.json")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("report: creating output dir: %w", err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("report: writing temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("report: renaming temp file: %w", err)
	}
	logging.Report("wrote %s", target)
	return nil
}
