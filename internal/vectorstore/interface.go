// Package vectorstore adapts the embedded chromem-go similarity store for
// chunk ingestion and top-k retrieval.
//
// The store is treated as a black box: documents go in with deterministic
// caller-supplied IDs (add-or-replace, so re-ingestion is idempotent) and
// come back ranked by whatever similarity metric the store applies. No
// tie-break order is guaranteed beyond that.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts, one per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query. Some models
	// optimize differently for queries vs documents.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the similarity-search boundary of the indexing pipeline.
//
// Implementations embed document content, persist it under the caller's
// IDs, and answer nearest-neighbor queries. Ranking quality is the
// implementation's concern, not this interface's.
type Store interface {
	// AddDocuments embeds and add-or-replaces documents under their IDs in
	// the default collection. Re-adding an unchanged document is a no-op
	// from the caller's perspective: same ID, same content.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// Search returns up to k documents most similar to query from the
	// default collection, highest score first.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// SearchInCollection is Search against a named collection.
	SearchInCollection(ctx context.Context, collection, query string, k int) ([]SearchResult, error)

	// DeleteDocuments removes documents by ID from the default collection.
	DeleteDocuments(ctx context.Context, ids []string) error

	// DeleteCollection drops a collection and all its documents.
	DeleteCollection(ctx context.Context, collection string) error

	// Count reports the number of documents in the default collection.
	// A collection that has never been written counts as zero.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
