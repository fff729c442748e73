package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResponseCacheRoundTrip(t *testing.T) {
	c := NewResponseCache(t.TempDir(), time.Hour)
	req := Request{Model: "anthropic/claude-sonnet-4", UserPrompt: "summarize this module", MaxTokens: 512}
	key := Key(req)

	_, _, ok := c.Get(key)
	require.False(t, ok)

	require.NoError(t, c.Put(key, req.Model, "the module does X", Usage{PromptTokens: 10, CompletionTokens: 5}))

	text, usage, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "the module does X", text)
	require.Equal(t, 10, usage.PromptTokens)
}

func TestResponseCacheKeyVariesWithRequest(t *testing.T) {
	a := Key(Request{Model: "m", UserPrompt: "p1"})
	b := Key(Request{Model: "m", UserPrompt: "p2"})
	require.NotEqual(t, a, b)
}

func TestResponseCacheExpiresEntries(t *testing.T) {
	c := NewResponseCache(t.TempDir(), time.Millisecond)
	req := Request{Model: "m", UserPrompt: "p"}
	key := Key(req)
	require.NoError(t, c.Put(key, req.Model, "resp", Usage{}))

	time.Sleep(5 * time.Millisecond)
	_, _, ok := c.Get(key)
	require.False(t, ok)
}

func TestResponseCachePruneRemovesExpiredOnly(t *testing.T) {
	c := NewResponseCache(t.TempDir(), time.Millisecond)
	fresh := NewResponseCache(c.dir[:len(c.dir)-len("/llm")], time.Hour)

	require.NoError(t, c.Put("stale", "m", "r1", Usage{}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, fresh.Put("keep", "m", "r2", Usage{}))

	removed, err := c.Prune()
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, _, staleOK := c.Get("stale")
	require.False(t, staleOK)
	_, _, keepOK := c.Get("keep")
	require.True(t, keepOK)
}

func TestResponseCachePruneOnMissingDirectory(t *testing.T) {
	c := NewResponseCache(t.TempDir(), time.Hour)
	removed, err := c.Prune()
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}
