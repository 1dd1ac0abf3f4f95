package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"RECORD_STORE", "WORK_QUEUE", "MAX_UPLOAD_BYTES", "CONFIG_FILE", "PORT", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.RecordStoreType)
	assert.Equal(t, "memory", cfg.WorkQueueType)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadNormalizesBackends(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RECORD_STORE", "PostgreSQL")
	t.Setenv("WORK_QUEUE", "SQS")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.RecordStoreType)
	assert.Equal(t, "sqs", cfg.WorkQueueType)
	assert.Equal(t, int64(defaultMaxUploadBytes), cfg.MaxUploadBytes)
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
record_store: pebble
pebble_dir: /var/lib/records
worker_concurrency: 4
cors_allow_origins:
  - https://a.example
  - https://b.example
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "pebble", cfg.RecordStoreType)
	assert.Equal(t, "/var/lib/records", cfg.PebbleDir)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestParseEnvLine(t *testing.T) {
	key, val, ok := parseEnvLine(`export REDIS_URL="redis://cache:6379/1"`)
	require.True(t, ok)
	assert.Equal(t, "REDIS_URL", key)
	assert.Equal(t, "redis://cache:6379/1", val)

	_, _, ok = parseEnvLine("# comment")
	assert.False(t, ok)
	_, _, ok = parseEnvLine("novalue")
	assert.False(t, ok)
}
