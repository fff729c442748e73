package report

import (
	"strings"

	"github.com/repodocs/repodocs/internal/llm"
)

// pricePerMillion holds USD cost per 1M tokens for a given model string
// (the "provider/model" form used by config.LLMConfig.Model).
type pricePerMillion struct {
	prompt     float64
	completion float64
}

// modelPricing covers the model identifiers a deployment is expected to
// configure. Unrecognized models fall back to providerPricing by provider
// prefix, then to a conservative default.
var modelPricing = map[string]pricePerMillion{
	"anthropic/claude-sonnet-4":     {prompt: 3.00, completion: 15.00},
	"anthropic/claude-opus-4":       {prompt: 15.00, completion: 75.00},
	"anthropic/claude-haiku-3.5":    {prompt: 0.80, completion: 4.00},
	"openai/gpt-4o":                 {prompt: 2.50, completion: 10.00},
	"openai/gpt-4o-mini":            {prompt: 0.15, completion: 0.60},
	"gemini/gemini-1.5-pro":         {prompt: 1.25, completion: 5.00},
	"gemini/gemini-1.5-flash":       {prompt: 0.075, completion: 0.30},
	"xai/grok-2":                    {prompt: 2.00, completion: 10.00},
	"openrouter/anthropic/claude-3": {prompt: 3.00, completion: 15.00},
}

// providerPricing is the fallback used when a configured model string
// isn't in modelPricing but its provider prefix is recognized.
var providerPricing = map[string]pricePerMillion{
	"anthropic":  {prompt: 3.00, completion: 15.00},
	"openai":     {prompt: 2.50, completion: 10.00},
	"gemini":     {prompt: 1.25, completion: 5.00},
	"xai":        {prompt: 2.00, completion: 10.00},
	"openrouter": {prompt: 2.00, completion: 10.00},
}

var defaultPricing = pricePerMillion{prompt: 2.00, completion: 10.00}

// EstimateCost converts a usage total into an estimated dollar figure
// using model's per-token pricing, falling back to its provider's default
// rate, then to a conservative flat rate if the provider is unrecognized.
func EstimateCost(model string, usage llm.UsageTotals) float64 {
	price, ok := modelPricing[model]
	if !ok {
		provider := model
		if i := strings.Index(model, "/"); i >= 0 {
			provider = model[:i]
		}
		price, ok = providerPricing[provider]
		if !ok {
			price = defaultPricing
		}
	}

	promptCost := float64(usage.PromptTokens) / 1_000_000 * price.prompt
	completionCost := float64(usage.CompletionTokens) / 1_000_000 * price.completion
	return roundToCents(promptCost + completionCost)
}

func roundToCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
