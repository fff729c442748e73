package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/repodocs/repodocs/internal/logging"
)

// extraction is what extractSymbols produces for one file: the import set,
// the exported top-level names, and a one-line summary.
type extraction struct {
	Imports         []string
	ExportedSymbols []string
	Summary         string
}

// extractSymbols dispatches to the tree-sitter grammar for lang, walking the
// parsed tree for import/dependency edges and top-level declarations.
// A parse failure degrades to a comment-only summary rather than failing
// the whole batch over one malformed file.
func extractSymbols(lang Language, content []byte) extraction {
	ex := extraction{Summary: leadingCommentSummary(content)}

	var language *sitter.Language
	switch lang {
	case LangGo:
		language = golang.GetLanguage()
	case LangPython:
		language = python.GetLanguage()
	case LangJavaScript:
		language = javascript.GetLanguage()
	case LangTypeScript:
		language = typescript.GetLanguage()
	case LangRust:
		language = rust.GetLanguage()
	default:
		return ex
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		logging.ParseWarn("tree-sitter parse failed, falling back to comment summary only: %v", err)
		return ex
	}
	defer tree.Close()

	walk(tree.RootNode(), content, lang, &ex)
	return ex
}

// walk recurses the parse tree collecting import paths and exported
// top-level declaration names. The node-type sets are grammar-specific but
// the traversal shape is shared across languages.
func walk(n *sitter.Node, content []byte, lang Language, ex *extraction) {
	if n == nil {
		return
	}
	text := func(c *sitter.Node) string {
		if c == nil {
			return ""
		}
		return c.Content(content)
	}

	switch lang {
	case LangGo:
		switch n.Type() {
		case "import_spec":
			if p := n.ChildByFieldName("path"); p != nil {
				ex.Imports = append(ex.Imports, strings.Trim(text(p), "\""))
			}
		case "function_declaration", "type_spec":
			if name := text(n.ChildByFieldName("name")); name != "" && isExportedGo(name) {
				ex.ExportedSymbols = append(ex.ExportedSymbols, name)
			}
		}
	case LangPython:
		switch n.Type() {
		case "import_statement", "import_from_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if child := n.NamedChild(i); child.Type() == "dotted_name" {
					ex.Imports = append(ex.Imports, text(child))
				}
			}
		case "function_definition", "class_definition":
			if name := text(n.ChildByFieldName("name")); name != "" && !strings.HasPrefix(name, "_") {
				ex.ExportedSymbols = append(ex.ExportedSymbols, name)
			}
		}
	case LangJavaScript, LangTypeScript:
		switch n.Type() {
		case "import_statement":
			if src := n.ChildByFieldName("source"); src != nil {
				ex.Imports = append(ex.Imports, strings.Trim(text(src), "\"'"))
			}
		case "export_statement":
			if decl := n.ChildByFieldName("declaration"); decl != nil {
				if name := text(decl.ChildByFieldName("name")); name != "" {
					ex.ExportedSymbols = append(ex.ExportedSymbols, name)
				}
			}
		}
	case LangRust:
		switch n.Type() {
		case "use_declaration":
			ex.Imports = append(ex.Imports, strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(text(n), ";"), "use ")))
		case "function_item", "struct_item", "enum_item":
			if name := text(n.ChildByFieldName("name")); name != "" {
				ex.ExportedSymbols = append(ex.ExportedSymbols, name)
			}
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), content, lang, ex)
	}
}

func isExportedGo(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// leadingCommentSummary returns the first line-comment block or docstring
// at the top of the file, used as a file summary when no richer one exists.
func leadingCommentSummary(content []byte) string {
	lines := strings.Split(string(content), "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "//"):
			b.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, "//")))
			b.WriteString(" ")
		case strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "#!"):
			b.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			b.WriteString(" ")
		case trimmed == "":
			continue
		default:
			return strings.TrimSpace(b.String())
		}
	}
	return strings.TrimSpace(b.String())
}
