package generate

import (
	"regexp"
	"strings"
)

// dimensionWeights gives ContentQualityCheck's seven scored dimensions
// equal weight by default, matching the unweighted mean a reviewer would
// use absent any stated preference.
var dimensionWeights = map[string]float64{
	"completeness":      1,
	"accuracy":          1,
	"readability":       1,
	"formatting":        1,
	"visualization":      1,
	"educational_value": 1,
	"practicality":      1,
}

var mermaidFence = regexp.MustCompile("(?s)```mermaid.*?```")
var headingLine = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
var listLine = regexp.MustCompile(`(?m)^\s*[-*]\s+\S`)
var explainWords = []string{"because", "so that", "this means", "for example", "in other words", "note that"}
var actionWords = []string{"run", "call", "use", "configure", "install", "invoke", "pass"}

// ScoreContent rates generated markdown against the seven quality
// dimensions, each in [1, 10]: completeness, accuracy, readability,
// formatting, visualization, educational_value, practicality.
func ScoreContent(content string, requiredCharts int) map[string]float64 {
	words := len(strings.Fields(content))
	headings := len(headingLine.FindAllString(content, -1))
	lists := len(listLine.FindAllString(content, -1))
	charts := len(mermaidFence.FindAllString(content, -1))

	return map[string]float64{
		"completeness":       scaleTo10(words, 400),
		"accuracy":           accuracyScore(content),
		"readability":        readabilityScore(content),
		"formatting":         scaleTo10(headings*2+lists, 10),
		"visualization":      chartScore(charts, requiredCharts),
		"educational_value":  keywordScore(content, explainWords),
		"practicality":       keywordScore(content, actionWords),
	}
}

// OverallScore is the weighted mean of ScoreContent's dimensions, equal
// weights by default.
func OverallScore(dims map[string]float64) float64 {
	var sum, totalWeight float64
	for name, v := range dims {
		w := dimensionWeights[name]
		if w == 0 {
			w = 1
		}
		sum += v * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

func scaleTo10(value, target int) float64 {
	if target <= 0 {
		return 10
	}
	score := 10 * float64(value) / float64(target)
	return clampScore(score)
}

func chartScore(have, required int) float64 {
	if required <= 0 {
		return 10
	}
	return clampScore(10 * float64(have) / float64(required))
}

func keywordScore(content string, words []string) float64 {
	lower := strings.ToLower(content)
	hits := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			hits++
		}
	}
	return clampScore(3 + 7*float64(hits)/float64(len(words)))
}

func accuracyScore(content string) float64 {
	// Absent a ground-truth comparison, accuracy is proxied by the
	// presence of concrete paths and identifiers rather than vague prose:
	// a backtick-quoted token count relative to total sentence count.
	sentences := strings.Count(content, ".") + strings.Count(content, "\n\n")
	if sentences == 0 {
		sentences = 1
	}
	backticked := strings.Count(content, "`") / 2
	return clampScore(4 + 6*float64(backticked)/float64(sentences))
}

func readabilityScore(content string) float64 {
	lines := strings.Split(content, "\n")
	nonEmpty := 0
	totalLen := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		nonEmpty++
		totalLen += len(l)
	}
	if nonEmpty == 0 {
		return 1
	}
	avg := float64(totalLen) / float64(nonEmpty)
	// Favor lines in the 20-120 char range; penalize extremes.
	switch {
	case avg < 20:
		return 4
	case avg <= 120:
		return 9
	case avg <= 200:
		return 6
	default:
		return 3
	}
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
