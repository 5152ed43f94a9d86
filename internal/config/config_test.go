// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Browser.ActionTimeout)
	assert.InDelta(t, 0.95, cfg.Tagging.Coverage, 1e-9)
	assert.Equal(t, 3, cfg.Tagging.MinTrials)
	assert.Equal(t, 50, cfg.Tagging.NodesPerTrial)
	assert.Equal(t, []string{"image", "figure"}, cfg.Tagging.ExcludedRoles)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 2*time.Minute, cfg.LLM.RetryMaxElapsed)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagelens.yaml")
	content := []byte(`
logger:
  level: debug
tagging:
  coverage: 0.8
  classify_category: false
llm:
  provider: openai
  fast_model: gpt-4o-mini
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.InDelta(t, 0.8, cfg.Tagging.Coverage, 1e-9)
	assert.False(t, cfg.Tagging.ClassifyCategory)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.FastModel)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.Tagging.MinTrials)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagelens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: warn\n"), 0o600))

	t.Setenv("PAGELENS_LOGGER_LEVEL", "debug")
	t.Setenv("PAGELENS_LLM_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"coverage zero", func(c *Config) { c.Tagging.Coverage = 0 }},
		{"coverage above one", func(c *Config) { c.Tagging.Coverage = 1.5 }},
		{"no trials", func(c *Config) { c.Tagging.MinTrials = 0 }},
		{"bad provider", func(c *Config) { c.LLM.Provider = "llama-on-a-toaster" }},
		{"zero snapshot concurrency", func(c *Config) { c.Browser.SnapshotConcurrency = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefault()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
