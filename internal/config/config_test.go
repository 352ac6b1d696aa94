package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "GROQ_API_ENDPOINT", "GROQ_MODEL",
		"OPENROUTER_API_KEY", "OPENROUTER_API_ENDPOINT", "OPENROUTER_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL",
		"POLARASSIST_TIMEOUT", "POLARASSIST_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)

	s, err := Load("")
	require.NoError(t, err)

	assert.False(t, s.AnyProviderConfigured())
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
}

func TestLoadFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GROQ_MODEL", "llama-test")
	t.Setenv("POLARASSIST_TIMEOUT", "15s")
	t.Setenv("POLARASSIST_MAX_RETRIES", "3")

	s, err := Load("")
	require.NoError(t, err)

	assert.True(t, s.Groq.Configured())
	assert.False(t, s.OpenRouter.Configured())
	assert.Equal(t, "llama-test", s.Groq.Model)
	assert.Equal(t, 15*time.Second, s.Timeout)
	assert.Equal(t, 3, s.MaxRetries)
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := []byte("groq:\n  api_key: from-file\n  model: file-model\ntimeout: 30s\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("GROQ_API_KEY", "from-env")

	s, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file; untouched file values survive.
	assert.Equal(t, "from-env", s.Groq.APIKey)
	assert.Equal(t, "file-model", s.Groq.Model)
	assert.Equal(t, 30*time.Second, s.Timeout)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	clearProviderEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	clearProviderEnv(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groq: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestInvalidBudgetEnvIgnored(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("POLARASSIST_TIMEOUT", "not-a-duration")
	t.Setenv("POLARASSIST_MAX_RETRIES", "-2")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
}
