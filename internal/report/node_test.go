package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func TestNodeExecuteWritesReportUnderRepoSlug(t *testing.T) {
	dir := t.TempDir()
	st := state.New("https://github.com/acme/Widget.git", "en", dir)
	st.SetQualityScore("quick_look", state.QualityScore{Overall: 9, Attempt: 1})

	node := NewNode(nil, "anthropic/claude-sonnet-4", time.Now().Add(-time.Second), false)
	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)
	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)

	r, ok := exec.(Report)
	require.True(t, ok)
	require.Contains(t, r.Sections, "quick_look")
	require.GreaterOrEqual(t, r.DurationMs, int64(1000))

	data, err := os.ReadFile(filepath.Join(dir, "widget", "report.json"))
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded.Sections, "quick_look")
}

func TestNodeDryRunBuildsReportWithoutWritingFile(t *testing.T) {
	dir := t.TempDir()
	st := state.New("https://github.com/acme/widget.git", "en", dir)

	node := NewNode(nil, "anthropic/claude-sonnet-4", time.Now(), true)
	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)
	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)
	require.IsType(t, Report{}, exec)

	_, statErr := os.Stat(filepath.Join(dir, "widget", "report.json"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRepoSlugStripsHostExtensionAndCase(t *testing.T) {
	require.Equal(t, "widget", repoSlug("https://github.com/acme/Widget.git"))
	require.Equal(t, "my-local-repo", repoSlug("/home/user/My Local Repo/"))
}
