// Package rag chunks a repository's text files into bounded, overlapping
// fragments suitable for retrieval, optionally attaching an embedding to
// each chunk when an embedding engine is configured.
package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/repodocs/repodocs/internal/embedding"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

const (
	defaultChunkSize = 1000
	defaultOverlap   = 200
)

// boundaryPattern matches a blank line (paragraph break) or a line starting
// a function-like declaration, the two places smart-splitting prefers to
// cut so a chunk never bisects a sentence or a function body.
var boundaryPattern = regexp.MustCompile(`(?m)^\s*$|^\s*(func |def |function |class |type \w+ struct)`)

// Run walks the parsed file entries, chunks each non-binary file's content,
// and writes the resulting chunks to st. If engine is non-nil, each chunk
// gets an Embedding populated; otherwise chunks carry text only.
func Run(ctx context.Context, st *state.Store, root string, entries []state.FileEntry, engine embedding.EmbeddingEngine) error {
	timer := logging.StartTimer(logging.CategoryRAG, "prepare_rag_data")
	defer timer.Stop()

	var chunks []state.Chunk
	for _, e := range entries {
		if e.IsBinary {
			continue
		}
		path := e.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logging.RAG("skipping unreadable file %s: %v", e.Path, err)
			continue
		}
		for _, c := range chunkText(e.Path, string(content), defaultChunkSize, defaultOverlap) {
			chunks = append(chunks, c)
		}
	}
	logging.RAG("prepared %d chunks from %d files", len(chunks), len(entries))

	if engine != nil {
		if err := populateEmbeddings(ctx, engine, chunks); err != nil {
			logging.RAG("embedding population failed, continuing with text-only chunks: %v", err)
		}
	}

	st.SetRAGChunks(chunks)
	return nil
}

// chunkText splits text into overlapping fragments of at most size bytes,
// preferring to break at a boundaryPattern match nearest the target cut
// point so a chunk doesn't split mid-sentence or mid-function.
func chunkText(sourcePath, text string, size, overlap int) []state.Chunk {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []state.Chunk
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = nearestBoundary(text, start, end)
		}
		if end <= start {
			end = start + size
			if end > len(text) {
				end = len(text)
			}
		}

		fragment := text[start:end]
		chunks = append(chunks, state.Chunk{
			ID:         chunkID(sourcePath, start),
			SourcePath: sourcePath,
			ByteStart:  start,
			ByteEnd:    end,
			Text:       fragment,
		})

		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// nearestBoundary looks backward from target for the closest paragraph or
// declaration boundary within the [start, target] window, falling back to
// target itself if none is found.
func nearestBoundary(text string, start, target int) int {
	window := text[start:target]
	locs := boundaryPattern.FindAllStringIndex(window, -1)
	if len(locs) == 0 {
		return target
	}
	last := locs[len(locs)-1]
	return start + last[0]
}

func chunkID(sourcePath string, offset int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", sourcePath, offset)))
	return hex.EncodeToString(h[:])[:16]
}

func populateEmbeddings(ctx context.Context, engine embedding.EmbeddingEngine, chunks []state.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := engine.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("rag: embed batch: %w", err)
	}
	for i := range chunks {
		if i < len(vectors) {
			chunks[i].Embedding = vectors[i]
		}
	}
	return nil
}
