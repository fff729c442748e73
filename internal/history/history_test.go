package history

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=alice", "GIT_AUTHOR_EMAIL=alice@example.com",
			"GIT_COMMITTER_NAME=alice", "GIT_COMMITTER_EMAIL=alice@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init", "--initial-branch=main", "--quiet")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package main\n"), 0644))
	run("add", "-A")
	run("commit", "-m", "first commit", "--quiet")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package main\n\nfunc main() {}\n"), 0644))
	run("commit", "-am", "second commit", "--quiet")
	return dir
}

func TestRunPopulatesCommitHistory(t *testing.T) {
	dir := newTestRepo(t)
	st := state.New(dir, "en", t.TempDir())

	err := Run(context.Background(), st, dir, config.RepoConfig{MaxCommits: 100}, nil)
	require.NoError(t, err)

	records := st.CommitHistory()
	require.Len(t, records, 2)
	require.Equal(t, "second commit", records[0].Subject)
	require.Equal(t, "alice", records[0].Author)
	require.Contains(t, records[0].ChangedFiles, "a.go")
}

func TestRunOnNonGitDirectoryIsANoop(t *testing.T) {
	dir := t.TempDir()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	st := state.New(dir, "en", t.TempDir())

	err := Run(context.Background(), st, dir, config.RepoConfig{}, nil)
	require.NoError(t, err)
	require.Empty(t, st.CommitHistory())
}

func TestAuthorCountsAggregatesPerAuthor(t *testing.T) {
	records := []state.CommitRecord{
		{Author: "alice"},
		{Author: "alice"},
		{Author: "bob"},
	}
	counts := AuthorCounts(records)
	require.Equal(t, 2, counts["alice"])
	require.Equal(t, 1, counts["bob"])
}

func TestTopChurnedFilesOrdersByFrequency(t *testing.T) {
	records := []state.CommitRecord{
		{ChangedFiles: []string{"a.go", "b.go"}},
		{ChangedFiles: []string{"a.go"}},
		{ChangedFiles: []string{"c.go"}},
	}
	top := TopChurnedFiles(records, 2)
	require.Equal(t, []string{"a.go", "b.go"}, top)
}

func TestTimelineBucketsByQuarter(t *testing.T) {
	records := []state.CommitRecord{
		{Timestamp: mustParseTime("2024-01-15T00:00:00Z")},
		{Timestamp: mustParseTime("2024-02-15T00:00:00Z")},
		{Timestamp: mustParseTime("2024-07-15T00:00:00Z")},
	}
	tl := Timeline(records)
	require.Equal(t, 2, tl["2024-Q1"])
	require.Equal(t, 1, tl["2024-Q3"])
}
