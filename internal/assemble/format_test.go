package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDocs() []Document {
	return []Document{
		{Path: "index.md", Title: "Documentation", Content: "# Documentation\n\nIntro.\n"},
		{Path: "overall_architecture.md", Title: "Overall Architecture", Content: "## Architecture\n\n## One\n\n## Two\n\n## Three\n\n## Four\n"},
		{Path: "modules/core.md", Title: "core", Content: "## core\n\nDetails.\n"},
	}
}

func TestFormatInsertsTOCWhenManyHeadings(t *testing.T) {
	out := Format(sampleDocs())
	require.Contains(t, out[1].Content, "## Contents")
}

func TestFormatSkipsTOCWhenFewHeadings(t *testing.T) {
	out := Format(sampleDocs())
	require.NotContains(t, out[2].Content, "## Contents")
}

func TestFormatAppendsPrevNextNav(t *testing.T) {
	out := Format(sampleDocs())
	require.Contains(t, out[1].Content, "←")
	require.Contains(t, out[1].Content, "→")
	require.NotContains(t, out[0].Content, "←")
}

func TestRelativePathAccountsForDepth(t *testing.T) {
	require.Equal(t, "overall_architecture.md", relativePath("index.md", "overall_architecture.md"))
	require.Equal(t, "../overall_architecture.md", relativePath("modules/core.md", "overall_architecture.md"))
}

func TestStemOfStripsDirAndExtension(t *testing.T) {
	require.Equal(t, "overview", stemOf("overview.md"))
	require.Equal(t, "core", stemOf("modules/core.md"))
}
