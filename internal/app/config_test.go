package app

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 10*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, "devmarket_session", cfg.SessionCookie)
	assert.Equal(t, 300, cfg.RateLimitPerMinute)
	assert.True(t, cfg.AuditDenials)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")
	t.Setenv("AUDIT_DENIALS", "false")
	t.Setenv("WORKER_CONCURRENCY", "2")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.False(t, cfg.AuditDenials)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "abc")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{AppEnv: "staging", LogFormat: "json"}, &buf)
	logger.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "staging", entry["env"])
}

func TestInTestModeRefresh(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
