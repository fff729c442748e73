package generate

import (
	"fmt"
	"strings"

	"github.com/repodocs/repodocs/internal/state"
)

func moduleSummary(st *state.Store) string {
	modules := st.CoreModules()
	if len(modules) == 0 {
		return "(no core modules identified)"
	}
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "- %s (%s, importance %d): %s\n", m.Name, m.Path, m.Importance, m.Description)
	}
	return b.String()
}

func fileSummary(st *state.Store) string {
	entries := st.CodeStructure()
	limit := len(entries)
	if limit > 150 {
		limit = 150
	}
	var b strings.Builder
	for _, e := range entries[:limit] {
		fmt.Fprintf(&b, "- %s (%s)\n", e.Path, e.Language)
	}
	return b.String()
}

func dependencySummary(st *state.Store) string {
	edges := st.Dependencies()
	limit := len(edges)
	if limit > 150 {
		limit = 150
	}
	var b strings.Builder
	for _, e := range edges[:limit] {
		fmt.Fprintf(&b, "- %s -> %s\n", e.From, e.To)
	}
	return b.String()
}

func historyText(st *state.Store) string {
	if s := st.HistorySummary(); s != "" {
		return s
	}
	return "(no commit history available)"
}

func diagramInstruction(n int) string {
	return fmt.Sprintf("Include at least %d Mermaid diagrams, each fenced as a ```mermaid code block, choosing chart types appropriate to the content.", n)
}

func overallArchitecturePrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "Overall Architecture" section of the documentation for the repository %q.

Architecture summary from analysis: %s

Core modules:
%s

Recent history: %s

%s

Write as Markdown with headings. Explain how the major modules fit together and why the repository is structured this way.`,
		repoName, st.ArchitectureSummary(), moduleSummary(st), historyText(st), diagramInstruction(4))
}

func apiDocsPrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "API Documentation" section for the repository %q.

Files:
%s

Core modules:
%s

%s

Document the public entry points each module exposes, their inputs and outputs, and how a caller would use them. Write as Markdown.`,
		repoName, fileSummary(st), moduleSummary(st), diagramInstruction(1))
}

func dependencyPrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "Dependency Graph" section for the repository %q.

Files:
%s

Core modules:
%s

Dependency edges:
%s

%s

Explain the module dependency structure, call out any cycles, and describe which modules are most depended-upon. Write as Markdown.`,
		repoName, fileSummary(st), moduleSummary(st), dependencySummary(st), diagramInstruction(2))
}

func timelinePrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "Timeline" section for the repository %q, covering its development history.

History summary: %s

%s

Describe how the repository evolved over time, notable periods of activity, and any shifts in direction. Write as Markdown.`,
		repoName, historyText(st), diagramInstruction(2))
}

func glossaryPrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "Glossary" section for the repository %q, defining domain terms a new contributor would need.

Core modules:
%s

History summary: %s

%s

List each term with a concise definition grounded in how it is actually used in this codebase. Write as Markdown.`,
		repoName, moduleSummary(st), historyText(st), diagramInstruction(1))
}

func quickLookPrompt(repoName string, st *state.Store) string {
	return fmt.Sprintf(`Write the "Quick Look" section for the repository %q: a short orientation for a first-time reader.

Core modules:
%s

History summary: %s

%s

Keep it brief: what the repository does, how it's organized, and where to start reading. Write as Markdown.`,
		repoName, moduleSummary(st), historyText(st), diagramInstruction(1))
}
