package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/repodocs/repodocs/internal/config"
)

// NewClientFromConfig builds a Client whose primary provider matches
// cfg.LLM.Provider and whose fallback chain is every other configured
// provider with a usable API key, in a fixed, deterministic order. This
// keeps a single outage from stalling generation: a dead primary provider
// degrades to the next available one rather than failing the run outright.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	primary, err := newProvider(ctx, cfg.LLM.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: build primary provider %q: %w", cfg.LLM.Provider, err)
	}
	providers := []Provider{primary}

	for _, name := range config.ValidProviders {
		if name == cfg.LLM.Provider {
			continue
		}
		key := fallbackAPIKey(name)
		if key == "" {
			continue
		}
		fb, err := newProvider(ctx, name, cfg)
		if err != nil {
			continue // a broken optional fallback must not block the primary path
		}
		providers = append(providers, fb)
	}

	threshold := int(cfg.LLM.CircuitBreakerThreshold)
	if threshold < 1 {
		threshold = 3
	}

	return NewClient(providers, ClientConfig{
		RetryCount:              cfg.LLM.RetryCount,
		CircuitBreakerThreshold: threshold,
		CircuitBreakerCooldown:  cfg.GetCircuitBreakerCooldown(),
		RateLimitPerSecond:      2,
		CacheEnabled:            cfg.LLM.CacheEnabled,
		CacheDir:                cfg.LLM.CacheDir,
		CacheTTL:                cfg.GetCacheTTL(),
		MaxInputTokens:          cfg.LLM.MaxInputTokens,
	}), nil
}

func newProvider(ctx context.Context, name string, cfg *config.Config) (Provider, error) {
	timeout := cfg.GetLLMTimeout()
	apiKey := cfg.LLM.APIKey
	baseURL := cfg.LLM.BaseURL
	if name != cfg.LLM.Provider {
		apiKey = fallbackAPIKey(name)
		baseURL = "" // fall back to each provider's own default base URL
	}

	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey, baseURL, timeout), nil
	case "openai":
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return NewOpenAICompatProvider("openai", apiKey, baseURL, timeout, nil), nil
	case "xai":
		if baseURL == "" {
			baseURL = "https://api.x.ai/v1"
		}
		return NewOpenAICompatProvider("xai", apiKey, baseURL, timeout, nil), nil
	case "openrouter":
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return NewOpenAICompatProvider("openrouter", apiKey, baseURL, timeout, map[string]string{
			"HTTP-Referer": "https://github.com/repodocs/repodocs",
			"X-Title":      "repodocs",
		}), nil
	case "gemini":
		return NewGeminiProvider(ctx, apiKey)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", name)
	}
}

// fallbackAPIKey reads the process-variable key for a non-primary provider,
// since only the selected primary's key lives in cfg.LLM.APIKey.
func fallbackAPIKey(name string) string {
	switch name {
	case "anthropic":
		return envOrEmpty("ANTHROPIC_API_KEY")
	case "openai":
		return envOrEmpty("OPENAI_API_KEY")
	case "gemini":
		return envOrEmpty("GEMINI_API_KEY")
	case "xai":
		return envOrEmpty("XAI_API_KEY")
	case "openrouter":
		return envOrEmpty("OPENROUTER_API_KEY")
	default:
		return ""
	}
}

func envOrEmpty(key string) string {
	return os.Getenv(key)
}
