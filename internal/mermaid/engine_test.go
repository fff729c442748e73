package mermaid

import (
	"context"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	responses []string
	call      int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (string, llm.Usage, error) {
	i := p.call
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	p.call++
	return p.responses[i], llm.Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

func testClientConfig() llm.ClientConfig {
	return llm.ClientConfig{
		RetryCount:              1,
		CircuitBreakerThreshold: 5,
		CircuitBreakerCooldown:  time.Millisecond,
		RateLimitPerSecond:      1000,
	}
}

func TestRunDisabledIsANoop(t *testing.T) {
	st := state.New("repo", "en", t.TempDir())
	st.SetGeneratedContent("overview", "```mermaid\nnotAChart\n```\n")
	err := Run(context.Background(), st, config.MermaidConfig{Enabled: false}, nil, "")
	require.NoError(t, err)
	content, _ := st.GeneratedContent("overview")
	require.Contains(t, content, "notAChart")
}

func TestRunLeavesValidChartsUnchanged(t *testing.T) {
	st := state.New("repo", "en", t.TempDir())
	doc := "# Title\n\n```mermaid\ngraph TD\n  A[Start] --> B[End]\n```\n"
	st.SetGeneratedContent("overview", doc)

	err := Run(context.Background(), st, config.MermaidConfig{Enabled: true, MaxRegenerationAttempts: 2}, nil, "")
	require.NoError(t, err)

	content, _ := st.GeneratedContent("overview")
	require.Equal(t, doc, content)
	require.Empty(t, st.MermaidReport())
}

func TestRunRegeneratesInvalidChartAndSubstitutes(t *testing.T) {
	st := state.New("repo", "en", t.TempDir())
	doc := "# Title\n\n```mermaid\nnotAChart\n  A --> B\n```\n"
	st.SetGeneratedContent("overview", doc)

	fixed := "graph TD\n  A --> B"
	provider := &scriptedProvider{responses: []string{"```mermaid\n" + fixed + "\n```"}}
	client := llm.NewClient([]llm.Provider{provider}, testClientConfig())

	err := Run(context.Background(), st, config.MermaidConfig{Enabled: true, MaxRegenerationAttempts: 2}, client, "test/model")
	require.NoError(t, err)

	content, _ := st.GeneratedContent("overview")
	require.Contains(t, content, "graph TD")
	require.Empty(t, st.MermaidReport())
}

func TestRunRecordsFindingWhenRegenerationExhausted(t *testing.T) {
	st := state.New("repo", "en", t.TempDir())
	doc := "```mermaid\nnotAChart\n```\n"
	st.SetGeneratedContent("overview", doc)

	provider := &scriptedProvider{responses: []string{"```mermaid\nstillNotAChart\n```"}}
	client := llm.NewClient([]llm.Provider{provider}, testClientConfig())

	err := Run(context.Background(), st, config.MermaidConfig{Enabled: true, MaxRegenerationAttempts: 1}, client, "")
	require.NoError(t, err)

	findings := st.MermaidReport()
	require.Len(t, findings, 1)
	require.Equal(t, state.SeverityWarning, findings[0].Severity)
}

func TestStripFenceRemovesBackticksAndLanguageTag(t *testing.T) {
	require.Equal(t, "graph TD\n  A --> B", stripFence("```mermaid\ngraph TD\n  A --> B\n```"))
}
