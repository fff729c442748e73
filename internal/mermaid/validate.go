package mermaid

import (
	"fmt"
	"regexp"
	"strings"
)

// SupportedChartTypes lists the chart-type declarations the rule-based
// validator recognizes on a diagram's first non-empty line.
var SupportedChartTypes = []string{
	"graph", "flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"pie", "timeline", "gitGraph", "mindmap", "erDiagram",
}

var nodeIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// labelledNode captures the full leading token before a bracketed label
// permissively (letters, digits, underscore); nodeIdentifier then checks
// it against the strict grammar so a token like "1bad" is flagged rather
// than silently matched as "bad".
var labelledNode = regexp.MustCompile(`([A-Za-z0-9_]+)\s*[\[({]([^\])}]*)[\])}]`)

// arrowsByChartType restricts which arrow syntaxes are accepted per
// declared chart type; graph/flowchart share the broadest set.
var arrowsByChartType = map[string][]string{
	"graph":           {"-->", "---", "-.->", "==>", "--o", "--x"},
	"flowchart":       {"-->", "---", "-.->", "==>", "--o", "--x"},
	"sequenceDiagram": {"->>", "-->>", "->", "-->", "-x", "--x"},
	"classDiagram":    {"--|>", "--*", "--o", "-->", "..|>", "..>"},
	"stateDiagram":    {"-->"},
	"erDiagram":       {"||--||", "||--o{", "}o--||", "}o--o{", "||--o|", "|o--||"},
}

// Validate checks chart against the rule-based grammar. It returns a list
// of human-readable error messages; an empty list means the chart passed.
func Validate(chart string) []string {
	var errs []string

	lines := nonEmptyLines(chart)
	if len(lines) == 0 {
		return []string{"chart is empty"}
	}

	chartType := declaredChartType(lines[0])
	if chartType == "" {
		errs = append(errs, fmt.Sprintf("first non-empty line %q does not declare a supported chart type", lines[0]))
		return errs
	}

	for _, m := range labelledNode.FindAllStringSubmatch(chart, -1) {
		ident, label := m[1], m[2]
		if !nodeIdentifier.MatchString(ident) {
			errs = append(errs, fmt.Sprintf("node identifier %q does not match [A-Za-z_][A-Za-z0-9_]*", ident))
		}
		if err := checkLabel(label); err != "" {
			errs = append(errs, err)
		}
	}

	if allowed, ok := arrowsByChartType[chartType]; ok {
		if err := checkArrows(chart, allowed); err != "" {
			errs = append(errs, err)
		}
	}

	return errs
}

func nonEmptyLines(chart string) []string {
	var out []string
	for _, l := range strings.Split(chart, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return out
}

func declaredChartType(firstLine string) string {
	for _, t := range SupportedChartTypes {
		if strings.HasPrefix(firstLine, t) {
			return t
		}
	}
	return ""
}

func checkLabel(label string) string {
	if strings.ContainsAny(label, "()") && !strings.Contains(label, `\(`) && !strings.Contains(label, `\)`) {
		return fmt.Sprintf("label %q contains an unescaped parenthesis", label)
	}
	if strings.Count(label, `"`)%2 != 0 {
		return fmt.Sprintf("label %q has an unbalanced quote", label)
	}
	return ""
}

// arrowPattern matches any run of arrow-ish punctuation so the caller can
// check it belongs to the declared chart type's allowed set.
var arrowPattern = regexp.MustCompile(`[-.=]{2,}[>ox|]?[>ox]?`)

func checkArrows(chart string, allowed []string) string {
	matches := arrowPattern.FindAllString(chart, -1)
	for _, m := range matches {
		if !containsAny(allowed, m) {
			return fmt.Sprintf("arrow %q is not valid for this chart type", m)
		}
	}
	return ""
}

func containsAny(allowed []string, candidate string) bool {
	for _, a := range allowed {
		if strings.Contains(a, candidate) || strings.Contains(candidate, a) {
			return true
		}
	}
	return false
}
