package mcpserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdoc/introspect"
)

// stubSource replaces the Go package loader with a registry and counts
// loads. The cache is cleared before and after the test.
func stubSource(t *testing.T, r *introspect.Registry) *atomic.Int32 {
	t.Helper()
	var loads atomic.Int32
	saved := loadSource
	loadSource = func(context.Context, string, []string) (typeSource, error) {
		loads.Add(1)
		return r, nil
	}
	sourceCache.reset()
	t.Cleanup(func() {
		loadSource = saved
		sourceCache.reset()
	})
	return &loads
}

func TestManifestInput_Resolve(t *testing.T) {
	t.Run("content", func(t *testing.T) {
		m, err := manifestInput{Content: "info: {title: T}\n"}.resolve()
		require.NoError(t, err)
		assert.Equal(t, "T", m.Info.Title)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api.yaml")
		require.NoError(t, os.WriteFile(path, []byte("paths:\n  /a: {}\n"), 0o600))
		m, err := manifestInput{File: path}.resolve()
		require.NoError(t, err)
		assert.Len(t, m.Paths, 1)
	})

	t.Run("none", func(t *testing.T) {
		_, err := manifestInput{}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 0")
	})

	t.Run("both", func(t *testing.T) {
		_, err := manifestInput{File: "a.yaml", Content: "x: 1"}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 2")
	})

	t.Run("content too large", func(t *testing.T) {
		saved := cfg.MaxManifestBytes
		cfg.MaxManifestBytes = 8
		t.Cleanup(func() { cfg.MaxManifestBytes = saved })

		_, err := manifestInput{Content: "info: {title: Too long}\n"}.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds maximum")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := manifestInput{File: filepath.Join(t.TempDir(), "missing.yaml")}.resolve()
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestGoInput_LoadCaches(t *testing.T) {
	r := introspect.NewRegistry()
	r.Register("a.User", introspect.TypeDescription{})
	loads := stubSource(t, r)

	in := &goInput{Dir: t.TempDir(), Packages: []string{"./..."}}
	for range 3 {
		src, err := in.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a.User"}, src.Keys())
	}
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, 1, sourceCache.size())

	_, err := (&goInput{}).load(context.Background())
	assert.Error(t, err)
}

func TestSourceCache(t *testing.T) {
	sourceCache.reset()
	t.Cleanup(sourceCache.reset)
	r := introspect.NewRegistry()

	t.Run("expired entries are dropped", func(t *testing.T) {
		sourceCache.putWithTTL("k", r, -time.Second)
		assert.Nil(t, sourceCache.get("k"))
		assert.Equal(t, 0, sourceCache.size())
	})

	t.Run("oldest entry is evicted at capacity", func(t *testing.T) {
		sourceCache.reset()
		for i, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
			sourceCache.putWithTTL(key, r, time.Hour)
			if i == 0 {
				time.Sleep(time.Millisecond)
			}
		}
		sourceCache.putWithTTL("k", r, time.Hour)
		assert.Equal(t, sourceCache.maxSize, sourceCache.size())
		assert.Nil(t, sourceCache.get("a"))
		assert.NotNil(t, sourceCache.get("k"))
	})

	t.Run("sweep", func(t *testing.T) {
		sourceCache.reset()
		sourceCache.putWithTTL("old", r, -time.Second)
		sourceCache.putWithTTL("new", r, time.Hour)
		sourceCache.sweep()
		assert.Equal(t, 1, sourceCache.size())
	})
}
