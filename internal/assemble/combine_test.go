package assemble

import (
	"regexp"
	"testing"

	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func newCombineStore() *state.Store {
	st := state.New("github.com/acme/widget.git", "en", "/tmp/out")
	st.SetCoreModules([]state.ModuleDescriptor{
		{Name: "core", Path: "internal/core", Description: "Owns domain logic."},
		{Name: "api", Path: "internal/api", Description: "core exposes its logic through api."},
	})
	st.SetGeneratedContent("overall_architecture", "# Architecture\n\nThe core module is central.\n")
	st.SetGeneratedContent("api_docs", "# API\n\nDocs for api.\n")
	st.SetGeneratedContent("dependency", "# Deps\n\nSee core and api.\n")
	st.SetGeneratedContent("glossary", "# Glossary\n\nterm: definition\n")
	st.SetGeneratedContent("timeline", "# Timeline\n\nHistory.\n")
	st.SetGeneratedContent("quick_look", "# Quick Look\n\nStart here.\n")
	st.SetModuleDetail("core", "# core\n\nDomain logic.\n")
	st.SetModuleDetail("api", "# api\n\nHTTP layer. Depends on core.\n")
	return st
}

func TestCombineProducesExpectedFileTree(t *testing.T) {
	docs := Combine(newCombineStore())

	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}

	require.Contains(t, paths, "index.md")
	require.Contains(t, paths, "overall_architecture.md")
	require.Contains(t, paths, "modules/index.md")
	require.Contains(t, paths, "modules/core.md")
	require.Contains(t, paths, "modules/api.md")
}

func TestCombineCrossLinksModuleMentions(t *testing.T) {
	docs := Combine(newCombineStore())
	var arch Document
	for _, d := range docs {
		if d.Path == "overall_architecture.md" {
			arch = d
		}
	}
	require.Contains(t, arch.Content, "[core](modules/core.md)")
}

func TestCombineDemotesGeneratorH1Headings(t *testing.T) {
	docs := Combine(newCombineStore())
	for _, d := range docs {
		if d.Path == "overall_architecture.md" {
			require.Contains(t, d.Content, "## Architecture")
			require.False(t, regexp.MustCompile(`(?m)^# Architecture`).MatchString(d.Content))
		}
	}
}

func TestSlugifyNormalizesNames(t *testing.T) {
	require.Equal(t, "my-module-name", Slugify("My  Module_Name!!"))
	require.Equal(t, "module", Slugify("###"))
}
