package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/pipeline"
	"github.com/repodocs/repodocs/internal/state"
)

var (
	outputDirFlag string
	languageFlag  string
	dryRunFlag    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <repo-url-or-path>",
	Short: "Generate documentation for a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&outputDirFlag, "output", "o", "", "Output directory (overrides config)")
	generateCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Target language for generated prose (overrides config)")
	generateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Build the documentation set without writing it to disk")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDirFlag != "" {
		cfg.OutputDir = outputDirFlag
	}
	if languageFlag != "" {
		cfg.TargetLanguage = languageFlag
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClientFromConfig(ctx, cfg)
	if err != nil {
		warningf("no LLM provider configured, generating placeholder content: %v", err)
		client = nil
	}

	st := state.New(source, cfg.TargetLanguage, cfg.OutputDir)

	spinner := newStageSpinner(quiet, fmt.Sprintf("Generating documentation for %s", source))
	if spinner != nil {
		defer spinner.Finish()
		stop := startSpin(spinner)
		defer stop()
	}

	started := time.Now()
	label, err := pipeline.Run(ctx, st, cfg, pipeline.Options{Client: client, DryRun: dryRunFlag, Started: started})
	if err != nil {
		errorf("generation failed: %v", err)
		return err
	}
	if label == graph.ErrorLabel {
		for _, e := range st.Errors() {
			warningf("%s: %s", e.Stage, e.Message)
		}
		return fmt.Errorf("generation stopped with a fatal error")
	}

	elapsed := time.Since(started)
	if dryRunFlag {
		successf("documentation assembled in memory (dry run) in %s", elapsed.Round(time.Millisecond))
	} else {
		successf("documentation written to %s in %s", cfg.OutputDir, elapsed.Round(time.Millisecond))
	}

	if client != nil {
		usage := client.Usage()
		infof("%d LLM calls, %d prompt + %d completion tokens", usage.Calls, usage.PromptTokens, usage.CompletionTokens)
	}
	for _, f := range st.MermaidReport() {
		warningf("%s: diagram %d unresolved: %s", f.DocumentPath, f.ChartIndex, f.ErrorMessage)
	}

	return nil
}
