package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasdoc/openapi"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Generation defaults.
	StrictAnnotations bool
	DefaultFormat     openapi.Format
	MaxManifestBytes  int64

	// Go source cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// list_types pagination.
	ListLimit int
	MaxLimit  int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASDOC_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		StrictAnnotations:  envBool("OASDOC_STRICT_ANNOTATIONS", false),
		DefaultFormat:      envFormat("OASDOC_DEFAULT_FORMAT", openapi.FormatJSON),
		MaxManifestBytes:   envInt64("OASDOC_MAX_MANIFEST_BYTES", 10*1024*1024),
		CacheEnabled:       envBool("OASDOC_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASDOC_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("OASDOC_CACHE_TTL", 5*time.Minute),
		CacheSweepInterval: envDuration("OASDOC_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("OASDOC_LIST_LIMIT", 100),
		MaxLimit:           envInt("OASDOC_MAX_LIMIT", 1000),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envFormat(key string, fallback openapi.Format) openapi.Format {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := openapi.ParseFormat(v)
	if err != nil {
		slog.Warn("invalid format env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return f
}
