package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nfalab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log_level: debug
max_pattern_length: 0
server:
  port: 9090
store:
  kind: redis
redis:
  addr: cache:6379
  ttl: 1h
playback:
  interval: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0, cfg.MaxPatternLength)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreRedis, cfg.Store.Kind)
	assert.Equal(t, ".nfalab/sessions", cfg.Store.Path, "unset keys keep their default")
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "nfalab:session:", cfg.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Playback.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  port: 9090\n")
	t.Setenv("NFALAB_SERVER_PORT", "7000")
	t.Setenv("NFALAB_REDIS_DB", "3")
	t.Setenv("NFALAB_SESSION_LOCK_TTL", "5s")
	t.Setenv("NFALAB_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Session.LockTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown Store", "store:\n  kind: s3\n"},
		{"Negative Length", "max_pattern_length: -1\n"},
		{"Bad Port", "server:\n  port: 70000\n"},
		{"Bad Duration", "playback:\n  interval: soon\n"},
		{"Unknown Key", "colour: blue\n"},
		{"Broken YAML", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "NFALAB_REDIS_TTL", EnvName("redis.ttl"))
	assert.Equal(t, "NFALAB_MAX_PATTERN_LENGTH", EnvName("max_pattern_length"))
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "max_pattern_length: 100")
	assert.Contains(t, out, "kind: file")
}
