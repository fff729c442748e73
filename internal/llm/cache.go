package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/repodocs/repodocs/internal/logging"
)

// cacheEntry is one response cached keyed by the content hash of its request
//.
type cacheEntry struct {
	Response  string    `json:"response"`
	Usage     Usage     `json:"usage"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseCache is a one-file-per-entry disk cache under <dir>/llm/. It is
// safe for concurrent use: each key maps to its own file, and a per-process
// mutex serializes writes to avoid a torn file under concurrent identical
// requests.
type ResponseCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
}

// NewResponseCache roots the cache at filepath.Join(baseDir, "llm").
func NewResponseCache(baseDir string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{dir: filepath.Join(baseDir, "llm"), ttl: ttl}
}

// Key derives the cache key for a request: every field that changes the
// completion must be part of the hash, or a cache hit would silently return
// a stale answer for a different prompt.
func Key(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "model=%s\nmax_tokens=%d\ntemperature=%.4f\nsystem=%s\nuser=%s",
		req.Model, req.MaxTokens, req.Temperature, req.SystemPrompt, req.UserPrompt)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ResponseCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached response if present and not expired.
func (c *ResponseCache) Get(key string) (string, Usage, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", Usage{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logging.LLMWarn("cache: corrupt entry %s, ignoring: %v", key, err)
		return "", Usage{}, false
	}

	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		return "", Usage{}, false
	}

	return entry.Response, entry.Usage, true
}

// Put writes a response to the cache, replacing any prior entry for key.
func (c *ResponseCache) Put(key, model, response string, usage Usage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("llm cache: create directory: %w", err)
	}

	entry := cacheEntry{Response: response, Usage: usage, Model: model, CreatedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("llm cache: marshal entry: %w", err)
	}

	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("llm cache: write temp file: %w", err)
	}
	return os.Rename(tmp, c.path(key))
}

// Prune removes every entry older than the cache's TTL. Used by the
// cache-prune subcommand.
func (c *ResponseCache) Prune() (removed int, err error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("llm cache: read directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(c.dir, e.Name())
		data, readErr := os.ReadFile(full)
		if readErr != nil {
			continue
		}
		var entry cacheEntry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
			if os.Remove(full) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
