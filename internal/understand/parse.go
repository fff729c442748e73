package understand

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"

	"github.com/repodocs/repodocs/internal/state"
)

type understandPayload struct {
	Modules             []modulePayload `json:"modules" yaml:"modules"`
	ArchitectureSummary string          `json:"architecture_summary" yaml:"architecture_summary"`
}

type modulePayload struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	Description string   `json:"description" yaml:"description"`
	Importance  int      `json:"importance" yaml:"importance"`
	DependsOn   []string `json:"depends_on" yaml:"depends_on"`
}

// parseResponse tries JSON (with repair), then YAML, then structured
// Markdown sections, then a heuristic bullet-list extractor, returning the
// first one that yields at least one module.
func parseResponse(raw string) ([]state.ModuleDescriptor, string, error) {
	raw = strings.TrimSpace(raw)
	raw = stripCodeFence(raw)

	if payload, err := parseJSON(raw); err == nil && len(payload.Modules) > 0 {
		return toDescriptors(payload), payload.ArchitectureSummary, nil
	}
	if payload, err := parseYAML(raw); err == nil && len(payload.Modules) > 0 {
		return toDescriptors(payload), payload.ArchitectureSummary, nil
	}
	if modules, summary, err := parseMarkdown(raw); err == nil && len(modules) > 0 {
		return modules, summary, nil
	}
	if modules, summary, err := parseHeuristic(raw); err == nil && len(modules) > 0 {
		return modules, summary, nil
	}
	return nil, "", fmt.Errorf("understand: response matched no known shape (JSON/YAML/Markdown/heuristic)")
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.SplitN(s, "\n", 2)
	if len(lines) < 2 {
		return s
	}
	body := lines[1]
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func parseJSON(raw string) (understandPayload, error) {
	var payload understandPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload, nil
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return payload, fmt.Errorf("json repair: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return payload, fmt.Errorf("unmarshal repaired json: %w", err)
	}
	return payload, nil
}

func parseYAML(raw string) (understandPayload, error) {
	var payload understandPayload
	if err := yaml.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

var (
	markdownModuleHeading = regexp.MustCompile(`(?m)^#{1,4}\s*(?:Module:\s*)?(.+?)\s*$`)
	markdownField         = regexp.MustCompile(`(?im)^\s*-?\s*(path|description|importance|depends[_ ]on)\s*:\s*(.+)$`)
)

// parseMarkdown looks for a "## Modules" section with per-module headings
// and "- field: value" lines beneath each.
func parseMarkdown(raw string) ([]state.ModuleDescriptor, string, error) {
	sections := splitMarkdownSections(raw)
	modulesSection, hasModules := sections["modules"]
	archSection := sections["architecture"]
	if archSection == "" {
		archSection = sections["architecture summary"]
	}
	if !hasModules {
		return nil, "", fmt.Errorf("understand: no Modules section found")
	}

	var modules []state.ModuleDescriptor
	headingMatches := markdownModuleHeading.FindAllStringSubmatchIndex(modulesSection, -1)
	for i, loc := range headingMatches {
		name := strings.TrimSpace(modulesSection[loc[2]:loc[3]])
		if name == "" || strings.EqualFold(name, "modules") {
			continue
		}
		end := len(modulesSection)
		if i+1 < len(headingMatches) {
			end = headingMatches[i+1][0]
		}
		body := modulesSection[loc[1]:end]
		modules = append(modules, moduleFromFields(name, body))
	}
	if len(modules) == 0 {
		return nil, "", fmt.Errorf("understand: Modules section had no module headings")
	}
	return modules, strings.TrimSpace(archSection), nil
}

func moduleFromFields(name, body string) state.ModuleDescriptor {
	m := state.ModuleDescriptor{Name: name}
	for _, match := range markdownField.FindAllStringSubmatch(body, -1) {
		field := strings.ToLower(strings.ReplaceAll(match[1], " ", "_"))
		value := strings.TrimSpace(match[2])
		switch field {
		case "path":
			m.Path = value
		case "description":
			m.Description = value
		case "importance":
			if n, err := strconv.Atoi(value); err == nil {
				m.Importance = n
			}
		case "depends_on":
			m.DependsOn = splitList(value)
		}
	}
	return m
}

func splitMarkdownSections(raw string) map[string]string {
	sections := make(map[string]string)
	headingRe := regexp.MustCompile(`(?m)^#{1,2}[ \t]*([^#\s].*?)\s*$`)
	matches := headingRe.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range matches {
		title := strings.ToLower(strings.TrimSpace(raw[loc[2]:loc[3]]))
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[title] = raw[loc[1]:end]
	}
	return sections
}

func splitList(value string) []string {
	value = strings.Trim(value, "[]")
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var bulletModuleLine = regexp.MustCompile(`(?m)^\s*[-*]\s+\*{0,2}([A-Za-z0-9_./-]+)\*{0,2}\s*[:\-–]\s*(.+)$`)

// parseHeuristic extracts a flat bullet list of "- name: description" lines
// when nothing more structured was found.
func parseHeuristic(raw string) ([]state.ModuleDescriptor, string, error) {
	matches := bulletModuleLine.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, "", fmt.Errorf("understand: no bullet-list modules found")
	}
	modules := make([]state.ModuleDescriptor, 0, len(matches))
	for _, m := range matches {
		modules = append(modules, state.ModuleDescriptor{
			Name:        strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
			Importance:  5,
		})
	}
	return modules, firstParagraph(raw), nil
}

func firstParagraph(raw string) string {
	for _, p := range strings.Split(raw, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" && !strings.HasPrefix(p, "#") && !strings.HasPrefix(p, "-") {
			return p
		}
	}
	return ""
}

func toDescriptors(payload understandPayload) []state.ModuleDescriptor {
	out := make([]state.ModuleDescriptor, len(payload.Modules))
	for i, m := range payload.Modules {
		out[i] = state.ModuleDescriptor{
			Name:        m.Name,
			Path:        m.Path,
			Description: m.Description,
			Importance:  m.Importance,
			DependsOn:   m.DependsOn,
		}
	}
	return out
}
