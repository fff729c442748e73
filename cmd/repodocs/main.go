// Command repodocs generates a documentation site for a Git repository:
// clone/copy, parse, analyze history, understand core modules, chunk for
// retrieval, generate narrative sections and per-module detail pages,
// validate and repair Mermaid diagrams, then assemble and write the site.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/joho/godotenv/autoload"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/logging"
)

var (
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool

	zlog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "repodocs",
	Short: "Generate a documentation site for a Git repository",
	Long: `repodocs turns a Git repository into a documentation site: architecture
overview, API docs, dependency graph, commit timeline, glossary, and a
per-module reference, with Mermaid diagrams validated and repaired before
the site is written to disk.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initColors(noColor)

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if quiet {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		}
		var err error
		zlog, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "repodocs.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(generateCmd, cacheCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logsDir := filepath.Join(cfg.OutputDir, ".repodocs", "logs")
	if err := logging.Initialize(logsDir, logging.Config{
		DebugMode:  verbose || cfg.Logging.DebugMode,
		Categories: cfg.Logging.Categories,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
	}); err != nil {
		warningf("file logging not initialized: %v", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}
