package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockProvider is a scripted Provider: it returns responses[] in order,
// wrapping errors via Classify the way a real HTTP-backed provider would.
type mockProvider struct {
	name      string
	responses []mockResponse
	calls     int32
}

type mockResponse struct {
	text string
	err  error
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(ctx context.Context, req Request) (string, Usage, error) {
	i := atomic.AddInt32(&m.calls, 1) - 1
	if int(i) >= len(m.responses) {
		i = int32(len(m.responses) - 1)
	}
	r := m.responses[i]
	if r.err != nil {
		return "", Usage{}, r.err
	}
	return r.text, Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

func testConfig() ClientConfig {
	return ClientConfig{
		RetryCount:              2,
		CircuitBreakerThreshold: 2,
		CircuitBreakerCooldown:  10 * time.Millisecond,
		RateLimitPerSecond:      1000,
		MaxInputTokens:          0,
	}
}

func TestGenerateReturnsFirstProviderSuccess(t *testing.T) {
	p := &mockProvider{name: "primary", responses: []mockResponse{{text: "hello"}}}
	c := NewClient([]Provider{p}, testConfig())

	text, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestUsageAccumulatesAcrossSuccessfulCalls(t *testing.T) {
	p := &mockProvider{name: "primary", responses: []mockResponse{{text: "a"}, {text: "b"}}}
	c := NewClient([]Provider{p}, testConfig())

	_, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "one"})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), Request{Model: "m", UserPrompt: "two"})
	require.NoError(t, err)

	usage := c.Usage()
	require.Equal(t, int64(2), usage.Calls)
	require.Equal(t, int64(2), usage.PromptTokens)
	require.Equal(t, int64(2), usage.CompletionTokens)
}

func TestGenerateFallsBackToSecondProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", responses: []mockResponse{
		{err: ErrProviderDown}, {err: ErrProviderDown},
	}}
	secondary := &mockProvider{name: "secondary", responses: []mockResponse{{text: "from secondary"}}}
	c := NewClient([]Provider{primary, secondary}, testConfig())

	text, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "from secondary", text)
}

func TestGenerateNonRetryableAuthErrorSkipsToNextProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", responses: []mockResponse{{err: ErrAuth}}}
	secondary := &mockProvider{name: "secondary", responses: []mockResponse{{text: "ok"}}}
	c := NewClient([]Provider{primary, secondary}, testConfig())

	_, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&primary.calls)) // no retries for auth errors
}

func TestGenerateAllProvidersExhaustedReturnsError(t *testing.T) {
	p := &mockProvider{name: "only", responses: []mockResponse{{err: ErrProviderDown}}}
	c := NewClient([]Provider{p}, testConfig())

	_, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "hi"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrProviderDown))
}

func TestCircuitBreakerOpensAfterThresholdAndRecoversHalfOpen(t *testing.T) {
	p := &mockProvider{name: "flaky", responses: []mockResponse{
		{err: ErrProviderDown}, {err: ErrProviderDown}, // trip breaker (threshold 2, retry exhausts both attempts)
	}}
	cfg := testConfig()
	cfg.RetryCount = 1 // one attempt per Generate call so two calls trip the threshold
	c := NewClient([]Provider{p}, cfg)

	_, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "a"})
	require.Error(t, err)
	_, err = c.Generate(context.Background(), Request{Model: "m", UserPrompt: "b"})
	require.Error(t, err)

	require.True(t, c.breakers["flaky"].IsOpen())

	// Still open immediately: calls don't even reach the provider.
	before := atomic.LoadInt32(&p.calls)
	_, err = c.Generate(context.Background(), Request{Model: "m", UserPrompt: "c"})
	require.Error(t, err)
	require.Equal(t, before, atomic.LoadInt32(&p.calls))

	// After cooldown, a half-open probe is allowed through.
	time.Sleep(20 * time.Millisecond)
	p.responses = append(p.responses, mockResponse{text: "recovered"})
	text, err := c.Generate(context.Background(), Request{Model: "m", UserPrompt: "d"})
	require.NoError(t, err)
	require.Equal(t, "recovered", text)
	require.False(t, c.breakers["flaky"].IsOpen())
}

func TestGenerateCachesSuccessfulResponse(t *testing.T) {
	p := &mockProvider{name: "primary", responses: []mockResponse{{text: "cached answer"}}}
	cfg := testConfig()
	cfg.CacheEnabled = true
	cfg.CacheDir = t.TempDir()
	cfg.CacheTTL = time.Hour
	c := NewClient([]Provider{p}, cfg)

	req := Request{Model: "m", UserPrompt: "cache me"}
	text1, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "cached answer", text1)

	text2, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "cached answer", text2)
	require.Equal(t, int32(1), atomic.LoadInt32(&p.calls)) // second call served from cache
}
