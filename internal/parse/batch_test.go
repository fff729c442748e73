package parse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunParsesFixtureDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nimport \"fmt\"\n\nfunc Main() { fmt.Println(\"hi\") }\n")
	writeFile(t, filepath.Join(dir, "util", "util.go"), "package util\n\nfunc Helper() string { return \"x\" }\n")
	writeFile(t, filepath.Join(dir, "vendor", "skip.go"), "package vendor\n")
	writeFile(t, filepath.Join(dir, "node_modules", "skip.js"), "console.log(1)\n")

	cfg := config.ParseConfig{
		IgnorePatterns:   []string{"vendor/", "node_modules/"},
		BinaryExtensions: []string{".png"},
		MaxFiles:         100,
		BatchSize:        2,
	}

	st := state.New(dir, "en", t.TempDir())
	err := Run(context.Background(), st, dir, cfg)
	require.NoError(t, err)

	entries := st.CodeStructure()
	require.Len(t, entries, 2)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	require.Contains(t, paths, filepath.Join(dir, "main.go"))
	require.Contains(t, paths, filepath.Join(dir, "util", "util.go"))
}

func TestRunHonorsMaxFilesCap(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(dir, "f"+string(rune('a'+i))+".go"), "package main\n")
	}

	cfg := config.ParseConfig{MaxFiles: 2, BatchSize: 10}
	st := state.New(dir, "en", t.TempDir())
	require.NoError(t, Run(context.Background(), st, dir, cfg))
	require.Len(t, st.CodeStructure(), 2)
}

func TestRunMarksBinaryFilesWithoutExtraction(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "blob.png")
	require.NoError(t, os.WriteFile(binPath, []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x00, 0x00}, 0644))

	cfg := config.ParseConfig{BinaryExtensions: []string{".png"}, MaxFiles: 10, BatchSize: 10}
	st := state.New(dir, "en", t.TempDir())
	require.NoError(t, Run(context.Background(), st, dir, cfg))

	entries := st.CodeStructure()
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsBinary)
	require.Empty(t, entries[0].ExportedSymbols)

	errs := st.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, state.ErrorKindWarning, errs[0].Kind)
	require.Contains(t, errs[0].Message, "blob.png")
}

func TestRunRecordsWarningForUnrecognizedLanguage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README.md"), "# hello\n")

	cfg := config.ParseConfig{MaxFiles: 10, BatchSize: 10}
	st := state.New(dir, "en", t.TempDir())
	require.NoError(t, Run(context.Background(), st, dir, cfg))

	errs := st.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, state.ErrorKindWarning, errs[0].Kind)
	require.Contains(t, errs[0].Message, "README.md")
}

func TestRunBuildsDependencyEdgesBetweenLocalModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pkgs", "alpha", "a.go"), "package alpha\n\nimport \"example.com/app/pkgs/beta\"\n\nfunc A() { beta.B() }\n")
	writeFile(t, filepath.Join(dir, "pkgs", "beta", "b.go"), "package beta\n\nfunc B() {}\n")

	cfg := config.ParseConfig{MaxFiles: 10, BatchSize: 10}
	st := state.New(dir, "en", t.TempDir())
	require.NoError(t, Run(context.Background(), st, dir, cfg))

	edges := st.Dependencies()
	require.NotEmpty(t, edges)

	var found bool
	for _, e := range edges {
		if filepath.Base(e.From) == "alpha" && filepath.Base(e.To) == "beta" {
			found = true
		}
	}
	require.True(t, found, "expected alpha -> beta edge, got %+v", edges)
}

func TestMatchesIgnoreSubstringMatch(t *testing.T) {
	require.True(t, matchesIgnore("vendor/pkg/file.go", []string{"vendor/"}))
	require.False(t, matchesIgnore("src/app/file.go", []string{"vendor/"}))
}
