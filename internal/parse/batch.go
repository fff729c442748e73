package parse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// Run walks root honoring cfg's ignore patterns and binary extensions,
// parses the surviving files in parallel batches of cfg.BatchSize, and
// writes code_structure and dependencies to the blackboard.
func Run(ctx context.Context, st *state.Store, root string, cfg config.ParseConfig) error {
	timer := logging.StartTimer(logging.CategoryParse, "parse_code_batch")
	defer timer.Stop()

	paths, err := discoverFiles(root, cfg)
	if err != nil {
		return fmt.Errorf("parse: discover files: %w", err)
	}
	logging.Parse("discovered %d candidate files under %s", len(paths), root)

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 150
	}
	runner := graph.NewParallel(8)

	entries := make([]state.FileEntry, 0, len(paths))
	for start := 0; start < len(paths); start += batchSize {
		end := start + batchSize
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		results, err := runner.RunBatch(ctx, len(batch), func(ctx context.Context, i int) (any, error) {
			return parseFile(batch[i], cfg)
		})
		if err != nil {
			return fmt.Errorf("parse: batch %d-%d: %w", start, end, err)
		}
		for _, r := range results {
			if entry, ok := r.(state.FileEntry); ok {
				entries = append(entries, entry)
				recordSkipWarning(st, entry)
			}
		}
	}

	st.SetCodeStructure(entries)
	edges := buildDependencyGraph(entries)
	st.SetDependencies(edges)
	logging.Parse("parsed %d files, %d dependency edges", len(entries), len(edges))
	return nil
}

// recordSkipWarning notes entry in the report when it was counted but not
// AST-extracted, so a binary or unrecognized-language file is never silently
// dropped from the record of what parse_code_batch saw.
func recordSkipWarning(st *state.Store, entry state.FileEntry) {
	switch {
	case entry.IsBinary:
		st.AppendError(state.ErrorRecord{
			Stage: "parse_code_batch", Kind: state.ErrorKindWarning,
			Message: fmt.Sprintf("skipped binary file %s", entry.Path), Timestamp: time.Now(),
		})
	case entry.Language == string(LangUnknown):
		st.AppendError(state.ErrorRecord{
			Stage: "parse_code_batch", Kind: state.ErrorKindWarning,
			Message: fmt.Sprintf("unrecognized language for file %s", entry.Path), Timestamp: time.Now(),
		})
	}
}

// discoverFiles walks root, skipping any path matching an ignore pattern
// (a directory-prefix or substring match, mirroring the common .gitignore-
// style entries in the default configuration) and capping at MaxFiles.
func discoverFiles(root string, cfg config.ParseConfig) ([]string, error) {
	var paths []string
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 5000
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if matchesIgnore(rel+"/", cfg.IgnorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesIgnore(rel, cfg.IgnorePatterns) {
			return nil
		}
		if len(paths) >= maxFiles {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func matchesIgnore(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(rel, strings.TrimSuffix(p, "/")) {
			return true
		}
	}
	return false
}

// parseFile produces one FileEntry for path, or a binary/unknown stub when
// it should be counted but not AST-extracted.
func parseFile(path string, cfg config.ParseConfig) (state.FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return state.FileEntry{}, err
	}

	if isBinaryExtension(path, cfg.BinaryExtensions) || sniffBinary(path) {
		return state.FileEntry{Path: path, SizeBytes: info.Size(), IsBinary: true}, nil
	}

	lang := detectLanguage(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return state.FileEntry{}, fmt.Errorf("read %s: %w", path, err)
	}

	ex := extractSymbols(lang, content)
	return state.FileEntry{
		Path:            path,
		Language:        string(lang),
		SizeBytes:       info.Size(),
		IsBinary:        false,
		ASTSummary:      ex.Summary,
		Imports:         ex.Imports,
		ExportedSymbols: ex.ExportedSymbols,
	}, nil
}
