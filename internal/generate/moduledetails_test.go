package generate

import (
	"context"
	"testing"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
	"github.com/stretchr/testify/require"
)

func TestModuleDetailsBatchNodeWritesOnePerModule(t *testing.T) {
	st := newStoreWithModules()
	provider := &scriptedProvider{responses: []string{"# core\n\nDetails about core.", "# api\n\nDetails about api."}}
	client := llm.NewClient([]llm.Provider{provider}, llm.ClientConfig{
		RetryCount:              1,
		CircuitBreakerThreshold: 5,
		CircuitBreakerCooldown:  time.Millisecond,
		RateLimitPerSecond:      1000,
	})

	node := ModuleDetailsBatchNode(config.QualityConfig{MaxModulesPerBatch: 10}, client, "", graph.Sequential{})
	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)
	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)
	_, err = node.Post(context.Background(), st, prep, exec)
	require.NoError(t, err)

	details := st.AllModuleDetails()
	require.Len(t, details, 2)
	require.Contains(t, details["core"], "core")
}

func TestModuleDetailsBatchNodeCapsAtMaxModulesPerBatch(t *testing.T) {
	st := newStoreWithModules()
	node := ModuleDetailsBatchNode(config.QualityConfig{MaxModulesPerBatch: 1}, nil, "", graph.Sequential{})

	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)

	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)
	_, err = node.Post(context.Background(), st, prep, exec)
	require.NoError(t, err)

	require.Len(t, st.AllModuleDetails(), 1)
}

func TestModuleDetailsBatchNodeRecordsWarningOnGenerationFailure(t *testing.T) {
	st := newStoreWithModules()
	client := llm.NewClient([]llm.Provider{&failingProvider{}}, llm.ClientConfig{
		RetryCount:              1,
		CircuitBreakerThreshold: 5,
		CircuitBreakerCooldown:  time.Millisecond,
		RateLimitPerSecond:      1000,
	})

	node := ModuleDetailsBatchNode(config.QualityConfig{MaxModulesPerBatch: 10}, client, "", graph.Sequential{})
	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)
	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)
	_, err = node.Post(context.Background(), st, prep, exec)
	require.NoError(t, err)

	errs := st.Errors()
	require.Len(t, errs, 2)
	for _, e := range errs {
		require.Equal(t, state.ErrorKindWarning, e.Kind)
	}
}

func TestSectionsBatchNodeWritesAllSections(t *testing.T) {
	st := newStoreWithModules()
	node := SectionsBatchNode(config.QualityConfig{}, nil, "", graph.Sequential{})

	prep, err := node.Prepare(context.Background(), st)
	require.NoError(t, err)
	exec, err := node.Execute(context.Background(), prep)
	require.NoError(t, err)
	_, err = node.Post(context.Background(), st, prep, exec)
	require.NoError(t, err)

	all := st.AllGeneratedContent()
	require.Len(t, all, len(Sections))
}
