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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.APIKeys)
	assert.Equal(t, OCRModeSystem, cfg.OCR.Mode)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OCR.AIBaseURL)
	assert.Equal(t, "gpt-4-vision-preview", cfg.OCR.AIModel)
	assert.Equal(t, 60*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, "env", cfg.Output.Format)
	assert.Equal(t, 100, cfg.History.Limit)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Contains(t, cfg.Store.DSN, "~/.formatapi/formatapi.db")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("OCR_MODE", "ai")
	t.Setenv("HISTORY_LIMIT", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, OCRModeAI, cfg.OCR.Mode)
	assert.Equal(t, 7, cfg.History.Limit)
}

func TestLoad_FileAndEnvRefs(t *testing.T) {
	t.Setenv("TEST_OCR_KEY", "sk-test-12345")
	t.Setenv("TEST_SERVER_KEY", "secret-1")

	path := writeConfig(t, `
server:
  port: "7000"
  api_keys:
    - "ENV:TEST_SERVER_KEY"
    - "plain-key"
    - "ENV:TEST_UNSET_KEY"
ocr:
  mode: ai
  ai_api_key: "ENV:TEST_OCR_KEY"
  ai_base_url: "https://api.anthropic.com/v1"
  cache_ttl: 5m
output:
  format: yaml
  minimal: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"secret-1", "plain-key"}, cfg.Server.APIKeys)
	assert.Equal(t, "sk-test-12345", cfg.OCR.AIAPIKey)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.OCR.AIBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.OCR.CacheTTL)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.Minimal)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
