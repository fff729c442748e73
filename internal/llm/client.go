package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/repodocs/repodocs/internal/logging"
)

// UsageTotals accumulates token spend across every successful call a
// Client has made, for cost estimation and reporting.
type UsageTotals struct {
	PromptTokens     int64
	CompletionTokens int64
	Calls            int64
}

// ClientConfig wires a Client's retry, caching, and rate-limiting policy.
// Fields map directly onto the loaded LLM configuration.
type ClientConfig struct {
	RetryCount              int
	CircuitBreakerThreshold int
	CircuitBreakerCooldown  time.Duration
	RateLimitPerSecond      float64
	CacheEnabled            bool
	CacheDir                string
	CacheTTL                time.Duration
	MaxInputTokens          int
}

// Client dispatches completions across a primary provider and an ordered
// fallback chain, applying per-provider rate limiting, a circuit breaker,
// retry with exponential backoff, and an optional response cache
//.
type Client struct {
	providers []Provider
	cfg       ClientConfig
	cache     *ResponseCache
	limiters  map[string]*rate.Limiter
	breakers  map[string]*breaker

	promptTokens     int64
	completionTokens int64
	calls            int64
}

// Usage reports the running total of tokens spent across every successful
// call this Client has made since construction.
func (c *Client) Usage() UsageTotals {
	return UsageTotals{
		PromptTokens:     atomic.LoadInt64(&c.promptTokens),
		CompletionTokens: atomic.LoadInt64(&c.completionTokens),
		Calls:            atomic.LoadInt64(&c.calls),
	}
}

// NewClient builds a Client whose fallback order is exactly the order of
// providers (first is primary).
func NewClient(providers []Provider, cfg ClientConfig) *Client {
	c := &Client{
		providers: providers,
		cfg:       cfg,
		limiters:  make(map[string]*rate.Limiter),
		breakers:  make(map[string]*breaker),
	}
	if cfg.CacheEnabled {
		c.cache = NewResponseCache(cfg.CacheDir, cfg.CacheTTL)
	}
	limit := cfg.RateLimitPerSecond
	if limit <= 0 {
		limit = 2
	}
	for _, p := range providers {
		c.limiters[p.Name()] = rate.NewLimiter(rate.Limit(limit), 1)
		c.breakers[p.Name()] = newBreaker(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerCooldown)
	}
	return c
}

// Generate resolves req (trimming the prompt to the configured input budget,
// checking the cache, then walking the fallback chain) and returns the
// completion text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	req.UserPrompt = TrimToBudget(req.UserPrompt, c.cfg.MaxInputTokens)

	var cacheKey string
	if c.cache != nil {
		cacheKey = Key(req)
		if text, _, ok := c.cache.Get(cacheKey); ok {
			cacheHitsTotal.Inc()
			logging.LLMDebug("cache hit for model=%s", req.Model)
			return text, nil
		}
	}

	var lastErr error
	for _, p := range c.providers {
		text, usage, err := c.callWithRetry(ctx, p, req)
		if err == nil {
			if c.cache != nil {
				if putErr := c.cache.Put(cacheKey, req.Model, text, usage); putErr != nil {
					logging.LLMWarn("cache put failed: %v", putErr)
				}
			}
			return text, nil
		}
		lastErr = err
		logging.LLMWarn("provider %s failed, trying next in fallback chain: %v", p.Name(), err)
	}

	return "", fmt.Errorf("llm: all providers exhausted: %w", lastErr)
}

func (c *Client) callWithRetry(ctx context.Context, p Provider, req Request) (string, Usage, error) {
	name := p.Name()
	br := c.breakers[name]
	if !br.Allow() {
		return "", Usage{}, fmt.Errorf("%w: %s breaker open", ErrProviderDown, name)
	}

	limiter := c.limiters[name]
	maxRetries := c.cfg.RetryCount
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
			select {
			case <-ctx.Done():
				return "", Usage{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := limiter.Wait(ctx); err != nil {
			return "", Usage{}, err
		}

		start := time.Now()
		text, usage, err := p.Complete(ctx, req)
		callLatencySeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err == nil {
			callsTotal.WithLabelValues(name, "success").Inc()
			br.RecordSuccess()
			atomic.AddInt64(&c.promptTokens, int64(usage.PromptTokens))
			atomic.AddInt64(&c.completionTokens, int64(usage.CompletionTokens))
			atomic.AddInt64(&c.calls, 1)
			return text, usage, nil
		}

		lastErr = err
		callsTotal.WithLabelValues(name, "error").Inc()

		if errors.Is(err, ErrAuth) || errors.Is(err, ErrInputTooLarge) {
			br.RecordFailure()
			return "", Usage{}, err // not retryable
		}
	}

	br.RecordFailure()
	if br.IsOpen() {
		breakerOpenTotal.WithLabelValues(name).Inc()
	}
	return "", Usage{}, lastErr
}
