package parse

import (
	"path/filepath"
	"strings"

	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// buildDependencyGraph aggregates each file's raw import strings into
// directory-level module edges, resolving an import to another module in
// this repository when its text contains that module's path component and
// to the synthetic ExternalModule node otherwise. Cycles are tolerated:
// detected cycles are logged, not treated as an error.
func buildDependencyGraph(entries []state.FileEntry) []state.DependencyEdge {
	moduleOf := func(path string) string {
		return filepath.ToSlash(filepath.Dir(path))
	}

	modules := make(map[string]bool)
	for _, e := range entries {
		modules[moduleOf(e.Path)] = true
	}

	seen := make(map[state.DependencyEdge]bool)
	var edges []state.DependencyEdge
	for _, e := range entries {
		from := moduleOf(e.Path)
		for _, imp := range e.Imports {
			to := resolveModule(imp, from, modules)
			edge := state.DependencyEdge{From: from, To: to}
			if seen[edge] || edge.From == edge.To {
				continue
			}
			seen[edge] = true
			edges = append(edges, edge)
		}
	}

	annotateCycles(edges)
	return edges
}

// resolveModule maps an import string to the local module whose directory
// name it contains, if any; otherwise it resolves to ExternalModule.
func resolveModule(imp, from string, modules map[string]bool) string {
	base := filepath.Base(strings.TrimSuffix(imp, "/"))
	if base == "" {
		return state.ExternalModule
	}
	for m := range modules {
		if m == from {
			continue
		}
		if filepath.Base(m) == base || strings.HasSuffix(imp, m) {
			return m
		}
	}
	return state.ExternalModule
}

// annotateCycles runs a DFS over the edge set and logs (but does not fail
// on) any cycle it finds, per the tolerant-cycle policy.
func annotateCycles(edges []state.DependencyEdge) {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state_ := make(map[string]int)
	var path []string

	var visit func(node string) bool
	visit = func(node string) bool {
		state_[node] = visiting
		path = append(path, node)
		for _, next := range adj[node] {
			switch state_[next] {
			case visiting:
				logging.ParseWarn("dependency cycle tolerated: %s -> %s", strings.Join(path, " -> "), next)
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state_[node] = done
		return false
	}

	for node := range adj {
		if state_[node] == unvisited {
			visit(node)
		}
	}
}
