package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the testsmith daemon and CLI.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Store      StoreConfig      `koanf:"store"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	LLM        LLMConfig        `koanf:"llm"`
	Retrieval  RetrievalConfig  `koanf:"retrieval"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds structured-logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// StoreConfig holds the embedded vector store configuration.
type StoreConfig struct {
	Path       string `koanf:"path"`
	Collection string `koanf:"collection"`
	Compress   bool   `koanf:"compress"`
}

// EmbeddingsConfig selects and configures the embedding provider.
type EmbeddingsConfig struct {
	Provider string `koanf:"provider"` // fastembed, openai, or tei
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   Secret `koanf:"api_key"`
	CacheDir string `koanf:"cache_dir"`
}

// LLMConfig configures the test-generation completion client.
type LLMConfig struct {
	Provider          string  `koanf:"provider"` // anthropic or openai
	Model             string  `koanf:"model"`
	APIKey            Secret  `koanf:"api_key"`
	BaseURL           string  `koanf:"base_url"`
	Temperature       float64 `koanf:"temperature"`
	MaxTokens         int     `koanf:"max_tokens"`
	RequestsPerMinute int     `koanf:"requests_per_minute"`
	MaxRetries        int     `koanf:"max_retries"`
}

// RetrievalConfig bounds context assembly for generation.
type RetrievalConfig struct {
	TopK         int `koanf:"top_k"`
	MaxSnippets  int `koanf:"max_snippets"`
	SnippetChars int `koanf:"snippet_chars"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "~/.config/testsmith/rag_store"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "ios_app"
	}

	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "fastembed"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "anthropic"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.RequestsPerMinute == 0 {
		cfg.LLM.RequestsPerMinute = 50
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 3
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.MaxSnippets == 0 {
		cfg.Retrieval.MaxSnippets = 5
	}
	if cfg.Retrieval.SnippetChars == 0 {
		cfg.Retrieval.SnippetChars = 500
	}
}

// Validate checks the configuration for values that would fail later in a
// harder-to-diagnose way.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level invalid: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format invalid: %q (expected json or console)", c.Logging.Format)
	}

	switch c.Embeddings.Provider {
	case "fastembed", "openai", "tei":
	default:
		return fmt.Errorf("embeddings.provider invalid: %q", c.Embeddings.Provider)
	}

	switch c.LLM.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("llm.provider invalid: %q", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature out of range: %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be positive: %d", c.LLM.MaxTokens)
	}

	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be positive: %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MaxSnippets < 1 {
		return fmt.Errorf("retrieval.max_snippets must be positive: %d", c.Retrieval.MaxSnippets)
	}

	return nil
}
