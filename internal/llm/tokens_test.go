package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateTokensEmpty(t *testing.T) {
	require.Equal(t, 0, EstimateTokens(""))
}

func TestEstimateTokensScalesWithLength(t *testing.T) {
	short := EstimateTokens("hello world")
	long := EstimateTokens(strings.Repeat("hello world ", 100))
	require.Greater(t, long, short)
}

func TestTrimToBudgetNoopUnderBudget(t *testing.T) {
	s := "a short prompt that fits easily"
	require.Equal(t, s, TrimToBudget(s, 1000))
}

func TestTrimToBudgetDisabledAtZero(t *testing.T) {
	s := strings.Repeat("x", 10000)
	require.Equal(t, s, TrimToBudget(s, 0))
}

func TestTrimToBudgetCutsAtParagraphBoundary(t *testing.T) {
	para := strings.Repeat("word ", 20)
	s := para + "\n" + para + "\n" + para + "\n" + para
	budget := EstimateTokens(s) * 3 / 4
	trimmed := TrimToBudget(s, budget)

	require.LessOrEqual(t, EstimateTokens(trimmed), budget)
	require.Equal(t, para+"\n"+para, trimmed)
}

func TestTrimToBudgetFallsBackToHardCutWithoutBoundary(t *testing.T) {
	s := strings.Repeat("x", 10000)
	trimmed := TrimToBudget(s, 100)
	require.LessOrEqual(t, len(trimmed), 400)
	require.NotContains(t, trimmed, "\n")
}
