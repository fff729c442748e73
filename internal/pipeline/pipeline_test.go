package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func writeSampleRepo(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "internal", "widget"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "internal", "widget", "widget.go"), []byte(
		"package widget\n\nfunc DoThing() string {\n\treturn \"done\"\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Sample\n\nA tiny sample repo.\n"), 0o644))
}

// TestRunCompletesEndToEndWithoutAConfiguredLLM exercises the whole flow
// (repo prep -> parse/history fork -> understand -> rag -> generate fork ->
// mermaid -> assemble -> report) against a local directory with no LLM
// client configured, the degraded path every stage must tolerate.
func TestRunCompletesEndToEndWithoutAConfiguredLLM(t *testing.T) {
	srcDir := t.TempDir()
	writeSampleRepo(t, srcDir)
	outDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.OutputDir = outDir
	cfg.Repo.CacheDir = filepath.Join(outDir, ".cache", "repo")
	cfg.Quality.AutoRegenerate = false
	cfg.Mermaid.Enabled = true
	cfg.Embedding.Enabled = false

	st := state.New(srcDir, cfg.TargetLanguage, outDir)

	label, err := Run(context.Background(), st, cfg, Options{Client: nil, DryRun: false, Started: time.Now()})
	require.NoError(t, err)
	require.NotEqual(t, "error", string(label))

	require.NotEmpty(t, st.CodeStructure())
	require.NotEmpty(t, st.AllGeneratedContent())
	require.NotEmpty(t, st.FinalDocuments())

	_, statErr := os.Stat(filepath.Join(outDir, filepath.Base(srcDir), "index.md"))
	require.NoError(t, statErr)
	_, reportErr := os.Stat(filepath.Join(outDir, filepath.Base(srcDir), "report.json"))
	require.NoError(t, reportErr)
}

func TestRunDryRunSkipsWritingFiles(t *testing.T) {
	srcDir := t.TempDir()
	writeSampleRepo(t, srcDir)
	outDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.OutputDir = outDir
	cfg.Repo.CacheDir = filepath.Join(outDir, ".cache", "repo")
	cfg.Quality.AutoRegenerate = false
	cfg.Embedding.Enabled = false

	st := state.New(srcDir, cfg.TargetLanguage, outDir)

	_, err := Run(context.Background(), st, cfg, Options{Client: nil, DryRun: true, Started: time.Now()})
	require.NoError(t, err)

	require.NotEmpty(t, st.FinalDocuments())
	_, statErr := os.Stat(filepath.Join(outDir, filepath.Base(srcDir), "index.md"))
	require.True(t, os.IsNotExist(statErr))
	_, reportErr := os.Stat(filepath.Join(outDir, filepath.Base(srcDir), "report.json"))
	require.True(t, os.IsNotExist(reportErr))
}
