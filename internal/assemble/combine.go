// Package assemble walks the generated sections and module detail pages,
// cross-links them, computes the on-disk file tree, and applies final
// presentation touches before the documents are written out.
package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/repodocs/repodocs/internal/state"
)

// sectionOrder fixes the navigation order declared in the file tree; the
// index page and the modules index are not generator sections and are
// inserted around this list.
var sectionOrder = []string{"overall_architecture", "api_docs", "dependency", "glossary", "timeline", "quick_look"}

var sectionFileNames = map[string]string{
	"overall_architecture": "overall_architecture.md",
	"api_docs":             "overview.md",
	"dependency":           "dependency.md",
	"glossary":             "glossary.md",
	"timeline":             "timeline.md",
	"quick_look":           "quick_look.md",
}

// Document is one file in the assembled output tree.
type Document struct {
	Path    string // relative to output_dir/<repo>/
	Title   string
	Content string
}

// Combine walks generated_content and module_details, normalizes heading
// levels, inserts cross-links for module names mentioned in prose, and
// returns the full file tree in declared navigation order.
func Combine(st *state.Store) []Document {
	sections := st.AllGeneratedContent()
	modules := st.CoreModules()
	details := st.AllModuleDetails()

	slugs := make(map[string]string, len(modules))
	for _, m := range modules {
		slugs[m.Name] = Slugify(m.Name)
	}

	var docs []Document
	for _, name := range sectionOrder {
		content, ok := sections[name]
		if !ok {
			continue
		}
		content = normalizeHeadings(content)
		content = crossLink(content, slugs, "")
		content = "# " + titleFor(name) + "\n\n" + content
		docs = append(docs, Document{Path: sectionFileNames[name], Title: titleFor(name), Content: content})
	}

	var moduleDocs []Document
	moduleNames := make([]string, 0, len(modules))
	for _, m := range modules {
		moduleNames = append(moduleNames, m.Name)
	}
	sort.Strings(moduleNames)

	for _, name := range moduleNames {
		content, ok := details[name]
		if !ok {
			continue
		}
		content = normalizeHeadings(content)
		content = crossLink(content, slugs, "modules/")
		content = "# " + name + "\n\n" + content
		moduleDocs = append(moduleDocs, Document{Path: "modules/" + Slugify(name) + ".md", Title: name, Content: content})
	}

	docs = append(docs, Document{Path: "modules/index.md", Title: "Modules", Content: moduleIndexContent(moduleNames, slugs)})
	docs = append(docs, moduleDocs...)
	docs = append([]Document{{Path: "index.md", Title: "Documentation", Content: indexContent(docs)}}, docs...)

	return docs
}

// Slugify lower-cases name, replaces runs of non-alphanumeric characters
// with a single hyphen, and trims leading/trailing hyphens.
func Slugify(name string) string {
	lower := strings.ToLower(name)
	slug := nonAlnum.ReplaceAllString(lower, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "module"
	}
	return slug
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

var headingLevel = regexp.MustCompile(`(?m)^(#{1,6})(\s+\S)`)

// normalizeHeadings demotes any top-level generator heading so it nests
// under the document's own title rather than competing with it, since
// generators are prompted independently and may each emit an H1.
func normalizeHeadings(content string) string {
	return headingLevel.ReplaceAllStringFunc(content, func(m string) string {
		groups := headingLevel.FindStringSubmatch(m)
		hashes, rest := groups[1], groups[2]
		if len(hashes) == 1 {
			return "##" + rest
		}
		return m
	})
}

// crossLink turns the first mention of each known module name in prose
// into a relative link to that module's detail page.
func crossLink(content string, slugs map[string]string, fromPrefix string) string {
	linked := map[string]bool{}
	for name, slug := range slugs {
		if linked[name] {
			continue
		}
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		target := relativeModuleLink(fromPrefix, slug)
		replaced := false
		content = pattern.ReplaceAllStringFunc(content, func(m string) string {
			if replaced || strings.Contains(m, "]") {
				return m
			}
			replaced = true
			return fmt.Sprintf("[%s](%s)", m, target)
		})
	}
	return content
}

func relativeModuleLink(fromPrefix, slug string) string {
	if fromPrefix == "modules/" {
		return slug + ".md"
	}
	return "modules/" + slug + ".md"
}

func titleFor(section string) string {
	words := strings.Fields(strings.ReplaceAll(section, "_", " "))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func moduleIndexContent(names []string, slugs map[string]string) string {
	var b strings.Builder
	b.WriteString("# Modules\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- [%s](%s.md)\n", n, slugs[n])
	}
	return b.String()
}

func indexContent(docs []Document) string {
	var b strings.Builder
	b.WriteString("# Documentation\n\n")
	for _, d := range docs {
		if d.Path == "index.md" {
			continue
		}
		b.WriteString(fmt.Sprintf("- [%s](%s)\n", d.Title, d.Path))
	}
	return b.String()
}
