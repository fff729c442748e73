package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/repodocs/repodocs/internal/logging"
)

// WriteFiles writes each document under outputDir/<repo>/<doc.Path>,
// atomically (temp file + rename) so a reader never observes a partially
// written file. When backup is true and a file already exists at the
// target path, it is copied to a sibling .bak before being overwritten.
func WriteFiles(outputDir, repo string, docs []Document, backup bool) error {
	root := filepath.Join(outputDir, repo)
	for _, d := range docs {
		target := filepath.Join(root, filepath.FromSlash(d.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("assemble: creating directory for %s: %w", d.Path, err)
		}
		if backup {
			if err := backupIfExists(target); err != nil {
				return err
			}
		}
		if err := writeAtomic(target, []byte(d.Content)); err != nil {
			return fmt.Errorf("assemble: writing %s: %w", d.Path, err)
		}
		logging.Assemble("wrote %s", target)
	}
	return nil
}

func backupIfExists(target string) error {
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("assemble: reading existing %s for backup: %w", target, err)
	}
	if err := os.WriteFile(target+".bak", data, 0o644); err != nil {
		return fmt.Errorf("assemble: writing backup for %s: %w", target, err)
	}
	return nil
}

func writeAtomic(target string, content []byte) error {
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
