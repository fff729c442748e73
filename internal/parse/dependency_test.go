package parse

import (
	"testing"

	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func TestBuildDependencyGraphResolvesLocalModule(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "pkgs/alpha/a.go", Imports: []string{"example.com/app/pkgs/beta"}},
		{Path: "pkgs/beta/b.go", Imports: nil},
	}
	edges := buildDependencyGraph(entries)
	require.Len(t, edges, 1)
	require.Equal(t, "pkgs/alpha", edges[0].From)
	require.Equal(t, "pkgs/beta", edges[0].To)
}

func TestBuildDependencyGraphFallsBackToExternal(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "pkgs/alpha/a.go", Imports: []string{"fmt"}},
	}
	edges := buildDependencyGraph(entries)
	require.Len(t, edges, 1)
	require.Equal(t, state.ExternalModule, edges[0].To)
}

func TestBuildDependencyGraphNeverEmitsASelfEdge(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "pkgs/alpha/a.go", Imports: []string{"example.com/app/pkgs/alpha"}},
		{Path: "pkgs/alpha/b.go", Imports: nil},
	}
	edges := buildDependencyGraph(entries)
	for _, e := range edges {
		require.NotEqual(t, e.From, e.To)
	}
}

func TestBuildDependencyGraphToleratesCyclesWithoutError(t *testing.T) {
	entries := []state.FileEntry{
		{Path: "pkgs/alpha/a.go", Imports: []string{"example.com/app/pkgs/beta"}},
		{Path: "pkgs/beta/b.go", Imports: []string{"example.com/app/pkgs/alpha"}},
	}
	require.NotPanics(t, func() {
		edges := buildDependencyGraph(entries)
		require.Len(t, edges, 2)
	})
}

func TestAnnotateCyclesOnAcyclicGraphIsNoop(t *testing.T) {
	edges := []state.DependencyEdge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
	}
	require.NotPanics(t, func() {
		annotateCycles(edges)
	})
}
