package mermaid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractFindsFencedMermaidBlocks(t *testing.T) {
	doc := "# Title\n\nSome prose.\n\n```mermaid\ngraph TD\n  A --> B\n```\n\nMore prose.\n"
	blocks := Extract([]byte(doc))
	require.Len(t, blocks, 1)
	require.Contains(t, blocks[0].Text, "graph TD")
	require.Equal(t, doc[blocks[0].ByteStart:blocks[0].ByteEnd], blocks[0].Text)
}

func TestExtractIgnoresNonMermaidFences(t *testing.T) {
	doc := "```go\nfunc main() {}\n```\n"
	blocks := Extract([]byte(doc))
	require.Empty(t, blocks)
}

func TestExtractFindsMultipleBlocksInOrder(t *testing.T) {
	doc := "```mermaid\ngraph TD\n  A --> B\n```\n\ntext\n\n```mermaid\npie\n  \"a\" : 1\n```\n"
	blocks := Extract([]byte(doc))
	require.Len(t, blocks, 2)
	require.Equal(t, 0, blocks[0].Index)
	require.Equal(t, 1, blocks[1].Index)
	require.Less(t, blocks[0].ByteStart, blocks[1].ByteStart)
}

func TestSubstituteReplacesBlockTextInPlace(t *testing.T) {
	doc := "before\n\n```mermaid\nold chart\n```\n\nafter\n"
	blocks := Extract([]byte(doc))
	require.Len(t, blocks, 1)

	blocks[0].Text = "new chart"
	out := string(Substitute([]byte(doc), blocks))

	require.Contains(t, out, "new chart")
	require.NotContains(t, out, "old chart")
	require.Contains(t, out, "before")
	require.Contains(t, out, "after")
}
