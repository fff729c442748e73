package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repodocs/repodocs/internal/state"
)

// languageByExtension is deliberately small: ParseCodeBatch owns the
// authoritative extension/shebang/sniff detection used for real parsing;
// this is only a coarse breakdown for the repo-sizing summary.
var languageByExtension = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".java": "Java",
	".rb":   "Ruby",
	".rs":   "Rust",
	".c":    "C",
	".h":    "C",
	".cpp":  "C++",
	".hpp":  "C++",
	".cs":   "C#",
	".php":  "PHP",
	".md":   "Markdown",
	".yaml": "YAML",
	".yml":  "YAML",
	".json": "JSON",
}

var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true, "build": true,
}

func computeStats(root string, maxSizeMB int64) (state.RepoStats, error) {
	stats := state.RepoStats{LanguageBreakdown: make(map[string]int)}
	maxBytes := maxSizeMB * 1024 * 1024

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		stats.FileCount++
		stats.TotalSizeBytes += info.Size()
		if maxBytes > 0 && stats.TotalSizeBytes > maxBytes {
			return fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrRepoTooLarge, stats.TotalSizeBytes, maxBytes)
		}

		ext := strings.ToLower(filepath.Ext(path))
		if lang, ok := languageByExtension[ext]; ok {
			stats.LanguageBreakdown[lang]++
		}
		return nil
	})
	if err != nil {
		return state.RepoStats{}, err
	}
	return stats, nil
}
