package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acme-blogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "skip", cfg.Board.FailurePolicy)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestLoad_OverridesAndDurations(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:9000
  timeout: 1500ms
  breaker:
    enabled: false
board:
  failure_policy: abort
  concurrency: "8"
redis:
  addr: localhost:6379
  ttl: 2h
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.API.Timeout)
	assert.False(t, cfg.API.Breaker.Enabled)
	assert.Equal(t, uint32(5), cfg.API.Breaker.ConsecutiveFailures)
	assert.Equal(t, "abort", cfg.Board.FailurePolicy)
	assert.Equal(t, 8, cfg.Board.Concurrency)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "Acme Blogs", cfg.Board.Title)
}

func TestLoad_BoardCache(t *testing.T) {
	assert.Equal(t, 1024, Default().Server.MaxBoards)
	assert.Equal(t, 30*time.Minute, Default().Server.IdleTTL)

	cfg, err := Load(writeConfig(t, "server:\n  max_boards: 64\n  idle_ttl: 90s\n"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Server.MaxBoards)
	assert.Equal(t, 90*time.Second, cfg.Server.IdleTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "board:\n  colour: red\n", "invalid config"},
		{"bad duration", "api:\n  timeout: soon\n", "invalid config"},
		{"bad yaml", "api: [\n", "invalid yaml"},
		{"bad policy", "board:\n  failure_policy: retry\n", "board.failure_policy: failed oneof"},
		{"zero concurrency", "board:\n  concurrency: 0\n", "board.concurrency: failed gte=1"},
		{"bad url", "api:\n  base_url: not a url\n", "api.base_url: failed url"},
		{"bad redis addr", "redis:\n  addr: localhost\n", "redis.addr: failed hostname_port"},
		{"negative board cap", "server:\n  max_boards: -1\n", "server.max_boards: failed gte=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}
