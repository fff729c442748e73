package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSymbolsGo(t *testing.T) {
	src := []byte(`// Package sample does a thing.
package sample

import (
	"fmt"
)

// Greet says hello.
func Greet(name string) string {
	return fmt.Sprintf("hello %s", name)
}

func unexported() {}
`)
	ex := extractSymbols(LangGo, src)
	require.Contains(t, ex.Imports, "fmt")
	require.Contains(t, ex.ExportedSymbols, "Greet")
	require.NotContains(t, ex.ExportedSymbols, "unexported")
	require.Contains(t, ex.Summary, "Package sample does a thing.")
}

func TestExtractSymbolsPython(t *testing.T) {
	src := []byte(`# helper module
import os
from collections import OrderedDict


def public_fn():
    pass


def _private_fn():
    pass
`)
	ex := extractSymbols(LangPython, src)
	require.Contains(t, ex.Imports, "os")
	require.Contains(t, ex.ExportedSymbols, "public_fn")
	require.NotContains(t, ex.ExportedSymbols, "_private_fn")
}

func TestExtractSymbolsUnknownLanguageReturnsSummaryOnly(t *testing.T) {
	src := []byte("# just a markdown file\nsome text\n")
	ex := extractSymbols(LangUnknown, src)
	require.Empty(t, ex.Imports)
	require.Empty(t, ex.ExportedSymbols)
}

func TestExtractSymbolsMalformedSourceDegradesGracefully(t *testing.T) {
	src := []byte("// a file that tree-sitter can still tokenize even if malformed\npackage ???broken{{{")
	require.NotPanics(t, func() {
		extractSymbols(LangGo, src)
	})
}

func TestLeadingCommentSummarySkipsBlankLines(t *testing.T) {
	src := []byte("\n\n// first\n// second\npackage main\n")
	require.Equal(t, "first second", leadingCommentSummary(src))
}
