// Package repo resolves a repository source (a clone URL or a local path)
// into a working tree on disk and computes its size/file/language summary.
package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// ErrRepoTooLarge is returned when the prepared working tree exceeds the
// configured maximum size.
var ErrRepoTooLarge = fmt.Errorf("repo: exceeds configured max_repo_size_mb")

// Prepare resolves st.RepoSource() into a local working tree, writes
// local_repo_path and repo_stats to the blackboard, and aborts with
// ErrRepoTooLarge if the tree is oversized.
func Prepare(ctx context.Context, st *state.Store, cfg config.RepoConfig) error {
	source := st.RepoSource()
	timer := logging.StartTimer(logging.CategoryRepo, "prepare_repo")
	defer timer.Stop()

	var localPath string
	var err error
	if isRemoteURL(source) {
		localPath, err = prepareRemote(ctx, source, cfg)
	} else {
		localPath, err = prepareLocal(source)
	}
	if err != nil {
		return err
	}

	stats, err := computeStats(localPath, cfg.MaxRepoSizeMB)
	if err != nil {
		return err
	}

	st.SetLocalRepoPath(localPath)
	st.SetRepoStats(stats)
	logging.Repo("prepared %s: files=%d size=%d bytes", source, stats.FileCount, stats.TotalSizeBytes)
	return nil
}

func isRemoteURL(source string) bool {
	return strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "ssh://")
}

func prepareLocal(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("repo: local path %q: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repo: local path %q is not a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("repo: local path %q not readable: %w", path, err)
	}
	f.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
