package understand

import (
	"strings"

	"github.com/repodocs/repodocs/internal/state"
)

var relationalWords = []string{
	"depends on", "uses", "calls", "imports", "builds on", "relies on",
	"communicates with", "extends", "implements", "wraps", "composes",
}

// compositeScore combines completeness, structure, and relational-vocabulary
// signals into the single overall quality score used for the regeneration
// gate.
func compositeScore(modules []state.ModuleDescriptor, archSummary string) float64 {
	completeness := completenessScore(modules, archSummary)
	structure := structureScore(modules)
	relational := relationalScore(modules, archSummary)
	return completeness*0.4 + structure*0.4 + relational*0.2
}

func completenessScore(modules []state.ModuleDescriptor, archSummary string) float64 {
	if len(modules) == 0 {
		return 0
	}
	filled := 0
	for _, m := range modules {
		if m.Name != "" && m.Description != "" {
			filled++
		}
	}
	score := float64(filled) / float64(len(modules))
	if archSummary == "" {
		score *= 0.8
	}
	return clamp01(score)
}

func structureScore(modules []state.ModuleDescriptor) float64 {
	if len(modules) == 0 {
		return 0
	}
	scored := 0
	for _, m := range modules {
		if m.Path != "" {
			scored++
		}
		if m.Importance > 0 {
			scored++
		}
	}
	return clamp01(float64(scored) / float64(len(modules)*2))
}

func relationalScore(modules []state.ModuleDescriptor, archSummary string) float64 {
	hits := 0
	total := 0
	for _, m := range modules {
		total++
		if len(m.DependsOn) > 0 {
			hits++
			continue
		}
		lower := strings.ToLower(m.Description)
		for _, w := range relationalWords {
			if strings.Contains(lower, w) {
				hits++
				break
			}
		}
	}
	lowerSummary := strings.ToLower(archSummary)
	for _, w := range relationalWords {
		if strings.Contains(lowerSummary, w) {
			hits++
			total++
			break
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(float64(hits) / float64(total))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
