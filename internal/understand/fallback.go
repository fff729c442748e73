package understand

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/repodocs/repodocs/internal/state"
)

var packageMarkers = []string{"__init__.py", "mod.rs", "package.json", "go.mod"}
var entryPointNames = []string{"main.go", "main.py", "index.js", "index.ts", "main.rs"}

// degradedFallback builds a structure-only description when every LLM
// attempt at AIUnderstandCoreModules fails: one module per directory that
// contains a package marker or an entry-point file, plus a file-type
// distribution summary.
func degradedFallback(entries []state.FileEntry) ([]state.ModuleDescriptor, string) {
	dirs := make(map[string]bool)
	langCounts := make(map[string]int)

	for _, e := range entries {
		langCounts[e.Language]++
		base := filepath.Base(e.Path)
		dir := filepath.Dir(e.Path)
		for _, marker := range packageMarkers {
			if base == marker {
				dirs[dir] = true
			}
		}
		for _, entry := range entryPointNames {
			if base == entry {
				dirs[dir] = true
			}
		}
	}

	modules := make([]state.ModuleDescriptor, 0, len(dirs))
	for dir := range dirs {
		name := filepath.Base(dir)
		if name == "." || name == "" {
			name = "root"
		}
		modules = append(modules, state.ModuleDescriptor{
			Name:        name,
			Path:        dir,
			Description: fmt.Sprintf("Directory %s, detected from a package marker or entry-point file.", dir),
			Importance:  3,
		})
	}

	var b strings.Builder
	b.WriteString("Degraded structural summary (LLM understanding unavailable). File type distribution: ")
	first := true
	for lang, count := range langCounts {
		if lang == "" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", lang, count)
		first = false
	}
	b.WriteString(".")

	return modules, b.String()
}
