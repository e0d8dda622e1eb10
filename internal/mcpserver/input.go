package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oasdoc/internal/options"
	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/manifest"
)

// manifestInput represents the two ways a manifest can be provided to a tool.
// Exactly one of File or Content must be set.
type manifestInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a manifest file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline manifest content (JSON or YAML)"`
}

// resolve parses the manifest from whichever input was provided.
func (m manifestInput) resolve() (*manifest.Manifest, error) {
	if err := options.ExactlyOne("file or content", m.File != "", m.Content != ""); err != nil {
		return nil, err
	}

	if m.Content != "" {
		if int64(len(m.Content)) > cfg.MaxManifestBytes {
			return nil, fmt.Errorf("inline manifest size %d bytes exceeds maximum %d bytes; set OASDOC_MAX_MANIFEST_BYTES to increase",
				len(m.Content), cfg.MaxManifestBytes)
		}
		return manifest.Parse([]byte(m.Content))
	}

	info, err := os.Stat(m.File)
	if err != nil {
		return nil, err
	}
	if info.Size() > cfg.MaxManifestBytes {
		return nil, fmt.Errorf("manifest file size %d bytes exceeds maximum %d bytes; set OASDOC_MAX_MANIFEST_BYTES to increase",
			info.Size(), cfg.MaxManifestBytes)
	}
	return manifest.Load(m.File)
}

// goInput selects Go packages to read types from.
type goInput struct {
	Dir      string   `json:"dir,omitempty" jsonschema:"Directory package patterns are resolved from (default: working directory)"`
	Packages []string `json:"packages"      jsonschema:"Go package patterns, e.g. ./models or ./..."`
}

func (g *goInput) enabled() bool {
	return g != nil && len(g.Packages) > 0
}

// typeSource is an introspector that can enumerate its types.
type typeSource interface {
	introspect.Introspector
	Keys() []string
}

// loadSource loads Go packages. Replaced in tests.
var loadSource = func(ctx context.Context, dir string, patterns []string) (typeSource, error) {
	src, err := introspect.LoadSource(ctx, dir, patterns...)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// load returns the loaded packages, using the cache when enabled.
func (g *goInput) load(ctx context.Context) (typeSource, error) {
	if !g.enabled() {
		return nil, fmt.Errorf("at least one Go package pattern must be provided")
	}
	dir := g.Dir
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	key := makeCacheKey(absDir, g.Packages)
	if cfg.CacheEnabled {
		if cached := sourceCache.get(key); cached != nil {
			return cached, nil
		}
	}

	src, err := loadSource(ctx, absDir, g.Packages)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		sourceCache.putWithTTL(key, src, cfg.CacheTTL)
	}
	return src, nil
}

// makeCacheKey creates a cache key for a directory and package patterns.
func makeCacheKey(absDir string, patterns []string) string {
	return "go:" + absDir + ":" + strings.Join(patterns, ",")
}

// cacheEntry holds a loaded source with LRU ordering and TTL expiry.
type cacheEntry struct {
	source    typeSource
	insertAt  time.Time
	expiresAt time.Time
}

// sourceCacheStore provides a session-scoped cache of loaded Go packages,
// keyed by directory and patterns. Loading type-checks every package, so
// repeated tool calls against the same packages reuse the result until the
// TTL expires. A background sweeper removes expired entries.
type sourceCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var sourceCache = &sourceCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached source or nil. Expired entries are lazily removed.
func (c *sourceCacheStore) get(key string) typeSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.source
	}
	return nil
}

// putWithTTL stores a source with a specific TTL, evicting the oldest entry if at capacity.
func (c *sourceCacheStore) putWithTTL(key string, source typeSource, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{source: source, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *sourceCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *sourceCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *sourceCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *sourceCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
