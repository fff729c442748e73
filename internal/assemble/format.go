package assemble

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
)

// headingEmoji maps a section's file stem to the shortcode rendered into
// its top heading, giving the navigation a quick visual anchor.
var headingEmoji = map[string]string{
	"overall_architecture": ":cityscape:",
	"overview":             ":electric_plug:",
	"dependency":           ":link:",
	"glossary":             ":books:",
	"timeline":             ":calendar:",
	"quick_look":           ":eyes:",
	"index":                ":compass:",
}

var emojiRenderer = goldmark.New(goldmark.WithExtensions(emoji.New()))

var topHeading = regexp.MustCompile(`(?m)^(#\s+)(.*)$`)

// Format applies final presentation touches to Combine's output: emoji
// insertion into each document's top heading, a table of contents for
// documents with more than a few headings, and a prev/next navigation
// footer derived from the declared file-tree order.
func Format(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		content := insertHeadingEmoji(d)
		content = injectTOC(content)
		content = appendNav(content, docs, i)
		out[i] = Document{Path: d.Path, Title: d.Title, Content: content}
	}
	return out
}

func insertHeadingEmoji(d Document) string {
	stem := stemOf(d.Path)
	shortcode, ok := headingEmoji[stem]
	if !ok {
		return d.Content
	}
	rendered, err := renderShortcode(shortcode)
	if err != nil || rendered == "" {
		return d.Content
	}
	replaced := false
	return topHeading.ReplaceAllStringFunc(d.Content, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		groups := topHeading.FindStringSubmatch(m)
		return groups[1] + rendered + " " + groups[2]
	})
}

func stemOf(path string) string {
	base := path
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".md")
}

func renderShortcode(shortcode string) (string, error) {
	var buf bytes.Buffer
	if err := emojiRenderer.Convert([]byte(shortcode), &buf); err != nil {
		return "", err
	}
	rendered := strings.TrimSpace(buf.String())
	rendered = strings.TrimPrefix(rendered, "<p>")
	rendered = strings.TrimSuffix(rendered, "</p>")
	return html.UnescapeString(rendered), nil
}

var headingLineForTOC = regexp.MustCompile(`(?m)^(#{2,3})\s+(.+)$`)

// injectTOC inserts a table of contents after the document's top heading
// when it has more than three subsections.
func injectTOC(content string) string {
	matches := headingLineForTOC.FindAllStringSubmatch(content, -1)
	if len(matches) <= 3 {
		return content
	}

	var toc strings.Builder
	toc.WriteString("\n## Contents\n\n")
	for _, m := range matches {
		level, title := len(m[1]), m[2]
		indent := strings.Repeat("  ", level-2)
		fmt.Fprintf(&toc, "%s- [%s](#%s)\n", indent, title, Slugify(title))
	}
	toc.WriteString("\n")

	firstHeadingEnd := strings.Index(content, "\n")
	if firstHeadingEnd < 0 {
		return content + toc.String()
	}
	return content[:firstHeadingEnd+1] + toc.String() + content[firstHeadingEnd+1:]
}

// appendNav writes a prev/next footer derived from docs' declared order,
// linking to the neighbouring documents, index pages included.
func appendNav(content string, docs []Document, i int) string {
	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n---\n\n")
	if i > 0 {
		fmt.Fprintf(&b, "[← %s](%s) ", docs[i-1].Title, relativePath(docs[i].Path, docs[i-1].Path))
	}
	if i < len(docs)-1 {
		fmt.Fprintf(&b, "| [%s →](%s)", docs[i+1].Title, relativePath(docs[i].Path, docs[i+1].Path))
	}
	b.WriteString("\n")
	return b.String()
}

// relativePath returns to's path relative to from's directory, since docs
// in modules/ link to top-level pages and vice versa.
func relativePath(from, to string) string {
	fromDepth := strings.Count(from, "/")
	if fromDepth == 0 {
		return to
	}
	return strings.Repeat("../", fromDepth) + to
}
