package mermaid

import (
	"context"
	"fmt"
	"strings"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

const defaultRegenerationPrompt = `The following Mermaid diagram failed validation.

Chart:
%s

Errors:
%s

Produce a corrected Mermaid diagram only, fenced as a single code block, that
resolves every listed error while preserving the original diagram's intent.`

// Run scans every generated section and module detail for fenced mermaid
// blocks, validates each, and regenerates invalid ones through client up to
// cfg.MaxRegenerationAttempts times. Corrected documents are written back
// to the blackboard; blocks that never pass are left as-is and recorded in
// st's mermaid report as a warning-severity ValidationFinding.
func Run(ctx context.Context, st *state.Store, cfg config.MermaidConfig, client *llm.Client, model string) error {
	if !cfg.Enabled {
		return nil
	}
	timer := logging.StartTimer(logging.CategoryMermaid, "validate_mermaid")
	defer timer.Stop()

	for name, content := range st.AllGeneratedContent() {
		updated := processDocument(ctx, name, content, cfg, client, model, st)
		st.SetGeneratedContent(name, updated)
	}
	for name, content := range st.AllModuleDetails() {
		updated := processDocument(ctx, "modules/"+name, content, cfg, client, model, st)
		st.SetModuleDetail(name, updated)
	}
	return nil
}

func processDocument(ctx context.Context, docPath, content string, cfg config.MermaidConfig, client *llm.Client, model string, st *state.Store) string {
	source := []byte(content)
	blocks := Extract(source)
	if len(blocks) == 0 {
		return content
	}

	maxAttempts := cfg.MaxRegenerationAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}

	changed := false
	for i, b := range blocks {
		errs := Validate(b.Text)
		if len(errs) == 0 {
			continue
		}

		fixed, ok := regenerate(ctx, docPath, b, errs, maxAttempts, cfg, client, model)
		if ok {
			if strings.HasSuffix(b.Text, "\n") && !strings.HasSuffix(fixed, "\n") {
				fixed += "\n"
			}
			blocks[i].Text = fixed
			changed = true
			continue
		}

		st.AppendMermaidFinding(state.ValidationFinding{
			DocumentPath: docPath,
			ChartIndex:   i,
			ChartText:    b.Text,
			ErrorMessage: strings.Join(errs, "; "),
			Severity:     state.SeverityWarning,
		})
	}

	if !changed {
		return content
	}
	return string(Substitute(source, blocks))
}

func regenerate(ctx context.Context, docPath string, b Block, errs []string, maxAttempts int, cfg config.MermaidConfig, client *llm.Client, model string) (string, bool) {
	if client == nil {
		return "", false
	}

	tmpl := cfg.RegenerationPromptTemplate
	if tmpl == "" {
		tmpl = defaultRegenerationPrompt
	}

	lastErrs := errs
	chart := b.Text
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := fmt.Sprintf(tmpl, chart, strings.Join(lastErrs, "; "))
		raw, err := client.Generate(ctx, llm.Request{
			SystemPrompt: "You produce syntactically valid Mermaid diagrams and nothing else.",
			UserPrompt:   prompt,
			Model:        model,
			MaxTokens:    800,
			Temperature:  0.1,
		})
		if err != nil {
			logging.MermaidWarn("%s: mermaid regeneration attempt %d failed: %v", docPath, attempt, err)
			return "", false
		}

		candidate := stripFence(raw)
		newErrs := Validate(candidate)
		if len(newErrs) == 0 {
			logging.Mermaid("%s: mermaid chart %d fixed after %d attempt(s)", docPath, b.Index, attempt)
			return candidate, true
		}
		chart, lastErrs = candidate, newErrs
	}
	return "", false
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```mermaid")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
