package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/erraggy/docpatch/merge"
	"github.com/erraggy/docpatch/table"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Identifier matching defaults for the merge tool.
	IDField  string
	IDColumn string

	// MaxInputSize caps inline content and files read by any tool, in bytes.
	MaxInputSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from DOCPATCH_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		IDField:      envString("DOCPATCH_ID_FIELD", merge.DefaultIDField),
		IDColumn:     envString("DOCPATCH_ID_COLUMN", table.DefaultIDColumn),
		MaxInputSize: envInt64("DOCPATCH_MAX_INPUT_SIZE", 10*1024*1024),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
