package assemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFilesWritesUnderRepoSubdir(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{
		{Path: "index.md", Content: "# Index\n"},
		{Path: "modules/core.md", Content: "# core\n"},
	}

	err := WriteFiles(dir, "widget", docs, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "widget", "index.md"))
	require.NoError(t, err)
	require.Equal(t, "# Index\n", string(data))

	_, err = os.ReadFile(filepath.Join(dir, "widget", "modules", "core.md"))
	require.NoError(t, err)
}

func TestWriteFilesBacksUpExistingFileWhenRequested(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "widget", "index.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	err := WriteFiles(dir, "widget", []Document{{Path: "index.md", Content: "new"}}, true)
	require.NoError(t, err)

	backup, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	require.Equal(t, "old", string(backup))

	current, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "new", string(current))
}

func TestWriteFilesSkipsBackupWhenNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	err := WriteFiles(dir, "widget", []Document{{Path: "index.md", Content: "x"}}, true)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "widget", "index.md.bak"))
	require.True(t, os.IsNotExist(err))
}
