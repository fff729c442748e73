// Package mermaid scans generated Markdown for fenced mermaid diagrams,
// validates each against a rule-based grammar check, and regenerates
// invalid ones through the LLM before the document is assembled.
package mermaid

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Block is one fenced ```mermaid ... ``` code block found in a document,
// with byte offsets into the original source so it can be substituted
// in place without re-rendering the surrounding Markdown.
type Block struct {
	Index      int
	ByteStart  int // start of the chart text, after the opening fence line
	ByteEnd    int // end of the chart text, before the closing fence line
	Text       string
}

var parser = goldmark.New().Parser()

// Extract locates every fenced mermaid block in source and returns them in
// document order with byte offsets preserved for in-place substitution.
func Extract(source []byte) []Block {
	reader := text.NewReader(source)
	doc := parser.Parse(reader)

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) != "mermaid" {
			return ast.WalkContinue, nil
		}
		lines := fcb.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		start := lines.At(0).Start
		end := lines.At(lines.Len() - 1).Stop

		blocks = append(blocks, Block{
			Index:     len(blocks),
			ByteStart: start,
			ByteEnd:   end,
			Text:      string(source[start:end]),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// Substitute replaces each block's span in source with its (possibly
// regenerated) Text, processing blocks in reverse order so earlier offsets
// stay valid as later ones are rewritten.
func Substitute(source []byte, blocks []Block) []byte {
	out := append([]byte(nil), source...)
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		replacement := []byte(b.Text)
		rebuilt := make([]byte, 0, len(out)-(b.ByteEnd-b.ByteStart)+len(replacement))
		rebuilt = append(rebuilt, out[:b.ByteStart]...)
		rebuilt = append(rebuilt, replacement...)
		rebuilt = append(rebuilt, out[b.ByteEnd:]...)
		out = rebuilt
	}
	return out
}
