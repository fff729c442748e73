package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/repo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain on-disk caches",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries from the repository and LLM response caches",
	RunE:  runCachePrune,
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repoTTL := time.Duration(cfg.Repo.CacheTTLSeconds) * time.Second
	removedRepo, err := repo.PruneStale(cfg.Repo.CacheDir, repoTTL)
	if err != nil {
		warningf("repo cache prune failed: %v", err)
	} else {
		successf("removed %d stale repository cache entries", removedRepo)
	}

	if cfg.LLM.CacheEnabled {
		cache := llm.NewResponseCache(cfg.LLM.CacheDir, cfg.GetCacheTTL())
		removedLLM, err := cache.Prune()
		if err != nil {
			warningf("llm cache prune failed: %v", err)
		} else {
			successf("removed %d expired LLM response cache entries", removedLLM)
		}
	} else {
		infof("LLM response cache is disabled, nothing to prune")
	}

	return nil
}
