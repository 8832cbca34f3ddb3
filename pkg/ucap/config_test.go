package ucap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ucap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
vendors:
  llm:
    provider: mock
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20000, cfg.Scoring.TimeoutMS)
	assert.Equal(t, 70, cfg.Dialogue.PassThreshold)
	assert.Equal(t, 1.0, cfg.Metrics.SampleRate)
	assert.True(t, cfg.Privacy.RedactPII)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test-123")
	path := writeConfig(t, `
vendors:
  llm:
    provider: openai
    settings:
      api_key: ${TEST_OPENAI_KEY}
      model: gpt-4o-mini
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.Vendors.LLM.Settings["api_key"])
}

func TestLoadConfigRejectsMissingLLM(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendors.llm.provider")
}

func TestLoadConfigRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
vendors:
  llm:
    provider: mock
dialogue:
  pass_threshold: 150
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass_threshold")
}

func TestDefaultRegistryBuildsMockProviders(t *testing.T) {
	reg := DefaultRegistry()
	cfg := Config{
		Vendors: VendorsConfig{
			LLM: VendorConfig{Provider: "mock", Settings: map[string]any{"response_text": "{}"}},
			STT: VendorConfig{Provider: "mock", Settings: map[string]any{"transcript": "hello"}},
			TTS: VendorConfig{Provider: "mock"},
		},
	}

	adapter, err := reg.BuildLLM(cfg.Vendors.LLM.Provider, cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock_llm", adapter.Name())

	_, err = reg.BuildSTT(cfg.Vendors.STT.Provider, cfg)
	require.NoError(t, err)

	_, err = reg.BuildTTS(cfg.Vendors.TTS.Provider, cfg)
	require.NoError(t, err)
}

func TestRegistryRejectsUnknownProvider(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.BuildLLM("nonexistent", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistryRejectsIncompleteSettings(t *testing.T) {
	reg := DefaultRegistry()
	cfg := Config{
		Vendors: VendorsConfig{
			LLM: VendorConfig{Provider: "openai", Settings: map[string]any{"model": "gpt-4o-mini"}},
		},
	}
	_, err := reg.BuildLLM("openai", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}
