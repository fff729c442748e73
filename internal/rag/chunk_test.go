package rag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func TestChunkTextProducesOverlappingFragments(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := chunkText("f.txt", text, 1000, 200)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.LessOrEqual(t, c.ByteEnd-c.ByteStart, 1000)
	}
	require.Equal(t, chunks[len(chunks)-1].ByteEnd, len(text))
}

func TestChunkTextPrefersParagraphBoundary(t *testing.T) {
	para := strings.Repeat("word ", 190) + "\n\n" + strings.Repeat("next ", 190)
	chunks := chunkText("f.txt", para, 1000, 100)
	require.NotEmpty(t, chunks)
	// the first chunk should end at or near the blank line, not mid-word
	first := chunks[0].Text
	require.False(t, strings.HasSuffix(strings.TrimRight(first, "\n"), "w"))
}

func TestChunkTextEmptyInputProducesNoChunks(t *testing.T) {
	require.Empty(t, chunkText("f.txt", "", 1000, 200))
}

func TestChunkTextHandlesOverlapLargerThanSize(t *testing.T) {
	chunks := chunkText("f.txt", strings.Repeat("x", 50), 10, 500)
	require.NotEmpty(t, chunks)
}

func TestChunkIDIsStableForSameInput(t *testing.T) {
	require.Equal(t, chunkID("a.go", 10), chunkID("a.go", 10))
	require.NotEqual(t, chunkID("a.go", 10), chunkID("b.go", 10))
}

func TestRunSkipsBinaryFilesAndWritesChunks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	st := state.New(dir, "en", t.TempDir())
	entries := []state.FileEntry{
		{Path: "main.go", Language: "go"},
		{Path: "logo.png", Language: "", IsBinary: true},
	}

	err := Run(context.Background(), st, dir, entries, nil)
	require.NoError(t, err)

	chunks := st.RAGChunks()
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.Equal(t, "main.go", c.SourcePath)
		require.Empty(t, c.Embedding)
	}
}

type fakeEngine struct{}

func (fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (fakeEngine) Dimensions() int { return 2 }
func (fakeEngine) Name() string    { return "fake" }

func TestRunPopulatesEmbeddingsWhenEngineConfigured(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world"), 0o644))

	st := state.New(dir, "en", t.TempDir())
	entries := []state.FileEntry{{Path: "a.txt", Language: ""}}

	err := Run(context.Background(), st, dir, entries, fakeEngine{})
	require.NoError(t, err)

	chunks := st.RAGChunks()
	require.NotEmpty(t, chunks)
	require.Equal(t, []float32{0.1, 0.2}, chunks[0].Embedding)
}
