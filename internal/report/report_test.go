package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func newPopulatedStore() *state.Store {
	st := state.New("https://github.com/acme/widget.git", "en", "/out")
	st.SetQualityScore("overall_architecture", state.QualityScore{
		Overall:    8.5,
		Dimensions: map[string]float64{"completeness": 9, "accuracy": 8},
		Attempt:    1,
	})
	st.AppendMermaidFinding(state.ValidationFinding{
		DocumentPath: "overall_architecture.md",
		ChartIndex:   0,
		ErrorMessage: "unsupported chart type",
		Severity:     state.SeverityWarning,
	})
	st.AppendError(state.ErrorRecord{
		Stage:      "parse_code_batch",
		Kind:       "io",
		Message:    "skipped unreadable file",
		RetryCount: 0,
		Recovered:  true,
	})
	return st
}

func TestBuildPopulatesSectionsMermaidAndErrors(t *testing.T) {
	st := newPopulatedStore()

	r := Build(st, nil, "anthropic/claude-sonnet-4", "run-123", 2500*time.Millisecond)

	require.Equal(t, "run-123", r.RunID)
	require.Contains(t, r.Sections, "overall_architecture")
	require.Equal(t, 8.5, r.Sections["overall_architecture"].QualityScore)
	require.Len(t, r.Mermaid, 1)
	require.Len(t, r.Errors, 1)
	require.Equal(t, int64(2500), r.DurationMs)
	require.Equal(t, float64(0), r.EstimatedCostUSD) // nil client -> zero usage
}

func TestWriteWritesValidJSONUnderRepoSubdir(t *testing.T) {
	dir := t.TempDir()
	r := Report{Sections: map[string]SectionReport{"glossary": {QualityScore: 7.2, Attempts: 1}}}

	err := Write(dir, "widget", r)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "widget", "report.json"))
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 7.2, decoded.Sections["glossary"].QualityScore)
}

func TestWriteOverwritesExistingReportAtomically(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "widget"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget", "report.json"), []byte("stale"), 0o644))

	r := Report{Sections: map[string]SectionReport{}}
	require.NoError(t, Write(dir, "widget", r))

	data, err := os.ReadFile(filepath.Join(dir, "widget", "report.json"))
	require.NoError(t, err)
	require.NotEqual(t, "stale", string(data))

	_, statErr := os.Stat(filepath.Join(dir, "widget", "report.json.tmp"))
	require.True(t, os.IsNotExist(statErr))
}
