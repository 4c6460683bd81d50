package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// RemoteConfig holds configuration for the OpenAI-compatible provider.
// It works for both the OpenAI API and a local TEI server.
type RemoteConfig struct {
	// BaseURL is the embeddings API base URL.
	BaseURL string

	// Model is the embedding model name, e.g. text-embedding-3-small or
	// BAAI/bge-small-en-v1.5 (TEI).
	Model string

	// APIKey authenticates the request. Optional for TEI.
	APIKey string
}

// Validate validates the configuration.
func (c RemoteConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// RemoteProvider generates embeddings through langchaingo against any
// OpenAI-compatible endpoint.
type RemoteProvider struct {
	embedder  *lcembeddings.EmbedderImpl
	dimension int
}

// NewRemoteProvider creates a provider for the given endpoint.
func NewRemoteProvider(cfg RemoteConfig) (*RemoteProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// langchaingo requires a token; TEI ignores it.
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return &RemoteProvider{
		embedder:  embedder,
		dimension: detectDimensionFromModel(cfg.Model),
	}, nil
}

// EmbedDocuments generates embeddings for multiple texts.
func (p *RemoteProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *RemoteProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}
	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	return vector, nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *RemoteProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the remote provider.
func (p *RemoteProvider) Close() error {
	return nil
}

var _ Provider = (*RemoteProvider)(nil)
