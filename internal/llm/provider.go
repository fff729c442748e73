// Package llm implements the call layer shared by every generation stage:
// provider dispatch, retry with backoff, a circuit breaker per provider,
// content-hash response caching, and token-budget trimming of oversized
// prompts.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Usage reports token accounting for a single completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Request is a single completion request, provider-agnostic.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Provider is the minimal surface every backend implements, allowing
// pluggable provider dispatch. Each provider owns its own wire format;
// Client owns retry, caching, and budget concerns above this line.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, Usage, error)
}

// Sentinel errors classify provider failures for the retry/circuit-breaker
// policy and for callers that need to react
// differently to, say, an oversized prompt versus a transient outage.
var (
	ErrAuth          = errors.New("llm: authentication rejected")
	ErrRateLimited   = errors.New("llm: rate limited")
	ErrProviderDown  = errors.New("llm: provider unavailable")
	ErrInputTooLarge = errors.New("llm: input exceeds provider limit")
	ErrInvalidOutput = errors.New("llm: provider returned an unusable response")
)

// HTTPStatusError preserves the provider's status code for classification
// into one of the sentinels above.
type HTTPStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Classify maps a raw provider error to one of the package sentinels so the
// retry/fallback policy can treat providers uniformly.
func Classify(err error) error {
	var hse *HTTPStatusError
	if errors.As(err, &hse) {
		switch {
		case hse.StatusCode == 401 || hse.StatusCode == 403:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case hse.StatusCode == 429:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case hse.StatusCode == 413:
			return fmt.Errorf("%w: %v", ErrInputTooLarge, err)
		case hse.StatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrProviderDown, err)
		}
	}
	return err
}
