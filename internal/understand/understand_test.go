package understand

import (
	"context"
	"testing"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func TestParseResponseJSON(t *testing.T) {
	raw := `{"modules":[{"name":"graph","path":"internal/graph","description":"Orchestrates node execution.","importance":9,"depends_on":["state"]}],"architecture_summary":"A node-based pipeline."}`
	modules, summary, err := parseResponse(raw)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "graph", modules[0].Name)
	require.Equal(t, "A node-based pipeline.", summary)
}

func TestParseResponseRepairsMalformedJSON(t *testing.T) {
	raw := `{"modules":[{"name":"graph","path":"internal/graph","description":"Orchestrates node execution.","importance":9,}],"architecture_summary":"A pipeline."}`
	modules, _, err := parseResponse(raw)
	require.NoError(t, err)
	require.Len(t, modules, 1)
}

func TestParseResponseYAML(t *testing.T) {
	raw := "modules:\n  - name: state\n    path: internal/state\n    description: Shared blackboard.\n    importance: 7\narchitecture_summary: A shared store.\n"
	modules, summary, err := parseResponse(raw)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "state", modules[0].Name)
	require.Equal(t, "A shared store.", summary)
}

func TestParseResponseMarkdown(t *testing.T) {
	raw := "## Modules\n\n### graph\n- path: internal/graph\n- description: Orchestrates nodes.\n- importance: 8\n- depends_on: state, logging\n\n## Architecture\nA pipeline of nodes over a shared blackboard.\n"
	modules, summary, err := parseResponse(raw)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "graph", modules[0].Name)
	require.Equal(t, []string{"state", "logging"}, modules[0].DependsOn)
	require.Contains(t, summary, "pipeline of nodes")
}

func TestParseResponseHeuristicBulletList(t *testing.T) {
	raw := "Here is the structure:\n\n- graph: runs the node lifecycle\n- state: the shared blackboard\n"
	modules, _, err := parseResponse(raw)
	require.NoError(t, err)
	require.Len(t, modules, 2)
}

func TestParseResponseUnparseableReturnsError(t *testing.T) {
	_, _, err := parseResponse("no structure here at all just prose")
	require.Error(t, err)
}

func TestCompositeScoreRewardsCompleteness(t *testing.T) {
	complete := []state.ModuleDescriptor{
		{Name: "a", Path: "a", Description: "depends on b for parsing", Importance: 5, DependsOn: []string{"b"}},
	}
	sparse := []state.ModuleDescriptor{
		{Name: "a"},
	}
	require.Greater(t, compositeScore(complete, "a summary"), compositeScore(sparse, ""))
}

func TestDegradedFallbackFindsPackageMarkersAndEntryPoints(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "cmd/app/main.go", Language: "go"},
		{Path: "pkg/lib/lib.go", Language: "go"},
		{Path: "pkg/lib/go.mod", Language: ""},
	}
	modules, summary := degradedFallback(entries)
	require.NotEmpty(t, modules)
	require.Contains(t, summary, "go=")
}

func TestFilterValidModulesDropsPathsNotInCodeStructure(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "internal/graph/flow.go", Language: "go"},
		{Path: "internal/state/store.go", Language: "go"},
	}
	modules := []state.ModuleDescriptor{
		{Name: "graph", Path: "internal/graph"},
		{Name: "flow", Path: "internal/graph/flow.go"},
		{Name: "ghost", Path: "internal/nonexistent"},
	}

	kept := filterValidModules(entries, modules)

	require.Len(t, kept, 2)
	names := []string{kept[0].Name, kept[1].Name}
	require.Contains(t, names, "graph")
	require.Contains(t, names, "flow")
	require.NotContains(t, names, "ghost")
}

func TestFilterValidModulesAllowsRepoRootPath(t *testing.T) {
	entries := []state.FileEntry{{Path: "main.go", Language: "go"}}
	modules := []state.ModuleDescriptor{{Name: "root", Path: "."}}

	kept := filterValidModules(entries, modules)

	require.Len(t, kept, 1)
}

func TestRunWithNilClientDegradesImmediately(t *testing.T) {
	st := state.New("/tmp/repo", "en", t.TempDir())
	st.SetCodeStructure([]state.FileEntry{{Path: "main.go", Language: "go"}})

	err := Run(context.Background(), st, config.QualityConfig{}, nil, "")
	require.NoError(t, err)

	score, ok := st.QualityScoreFor("core_modules")
	require.True(t, ok)
	require.Equal(t, DegradedQuality, score.Overall)
}
