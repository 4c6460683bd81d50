package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Provider: "cohere"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDetectDimensionFromModel(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"sentence-transformers/all-MiniLM-L6-v2", 384},
		{"BAAI/bge-small-en-v1.5", 384},
		{"BAAI/bge-base-en-v1.5", 768},
		{"BAAI/bge-large-en-v1.5", 1024},
		{"some-unknown-model", 384},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectDimensionFromModel(tt.model), tt.model)
	}
}
