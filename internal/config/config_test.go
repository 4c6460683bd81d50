package config

import (
	"encoding/json"
	"fmt"
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

func TestLoadWithFile_Defaults(t *testing.T) {
	cfg, err := LoadWithFile(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "~/.config/testsmith/rag_store", cfg.Store.Path)
	assert.Equal(t, "ios_app", cfg.Store.Collection)
	assert.Equal(t, "fastembed", cfg.Embeddings.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embeddings.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.LLM.Model)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 50, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 5, cfg.Retrieval.MaxSnippets)
	assert.Equal(t, 500, cfg.Retrieval.SnippetChars)
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadWithFile_YAMLValues(t *testing.T) {
	cfg, err := LoadWithFile(writeConfig(t, `
server:
  http_port: 9090
logging:
  level: debug
  format: console
store:
  collection: my_app
llm:
  model: claude-opus-4
  temperature: 0.7
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "my_app", cfg.Store.Collection)
	assert.Equal(t, "claude-opus-4", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	t.Setenv("SERVER_HTTP_PORT", "9999")
	t.Setenv("LLM_API_KEY", "sk-test-key")
	t.Setenv("STORE_COLLECTION", "env_collection")

	cfg, err := LoadWithFile(writeConfig(t, `
server:
  http_port: 9090
store:
  collection: file_collection
`))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "sk-test-key", cfg.LLM.APIKey.Value())
	assert.Equal(t, "env_collection", cfg.Store.Collection)
}

func TestLoadWithFile_InvalidYAML(t *testing.T) {
	_, err := LoadWithFile(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)
}

func TestLoadWithFile_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	big := make([]byte, maxConfigFileSize+1)
	require.NoError(t, os.WriteFile(path, big, 0o600))

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadWithFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  http_port: 700000\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"bad embeddings provider", "embeddings:\n  provider: cohere\n"},
		{"bad llm provider", "llm:\n  provider: gemini\n"},
		{"temperature out of range", "llm:\n  temperature: 3.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestEnvToKey(t *testing.T) {
	assert.Equal(t, "server.http_port", envToKey("SERVER_HTTP_PORT"))
	assert.Equal(t, "llm.api_key", envToKey("LLM_API_KEY"))
	assert.Equal(t, "store.collection", envToKey("STORE_COLLECTION"))
	assert.Equal(t, "home", envToKey("HOME"))
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("sk-super-secret")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "sk-super-secret", s.Value())
	assert.True(t, s.IsSet())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"[REDACTED]"`, string(data))

	var empty Secret
	assert.Equal(t, "", empty.String())
	assert.False(t, empty.IsSet())
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))
}

func TestSecretUnmarshalText(t *testing.T) {
	var s Secret
	require.NoError(t, s.UnmarshalText([]byte("sk-from-yaml")))
	assert.Equal(t, "sk-from-yaml", s.Value())
}
