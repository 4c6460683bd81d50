package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var chromemTracer = otel.Tracer("testsmith.vectorstore.chromem")

// ChromemConfig holds configuration for the chromem-go embedded store.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection documents are written to and queried
	// from. Default: "ios_app".
	Collection string
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.config/testsmith/rag_store"
	}
	if c.Collection == "" {
		c.Collection = "ios_app"
	}
}

// ChromemStore implements Store on chromem-go, a pure-Go embedded vector
// database persisted to disk. One store handle maps to one persistence
// directory plus one default collection, mirroring the ingestion inputs.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger
}

// NewChromemStore opens (or creates) the persistent database at the
// configured path.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder must not be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	dir, err := resolveStoreDir(config.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path %q: %w", config.Path, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(dir, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("open chromem database at %s: %w", dir, err)
	}

	logger.Info("vector store ready",
		zap.String("path", dir),
		zap.String("collection", config.Collection),
		zap.Bool("compress", config.Compress),
	)

	return &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}, nil
}

// resolveStoreDir turns the configured path into an absolute directory,
// expanding a leading ~ to the user's home.
func resolveStoreDir(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// embedFn adapts the Embedder to chromem's per-query callback. Batch
// writes never hit it because AddDocuments pre-computes embeddings.
func (s *ChromemStore) embedFn() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// AddDocuments embeds docs in one batch and add-or-replaces them under
// their caller-provided IDs. Byte-identical re-ingestion therefore never
// grows the collection.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	ctx, span := chromemTracer.Start(ctx, "vectorstore.add_documents")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("document_count", len(docs)),
	)

	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("document at index %d has no ID; ingestion identity requires deterministic IDs", i)
		}
		texts[i] = doc.Content
	}

	collection, err := s.db.GetOrCreateCollection(s.config.Collection, nil, s.embedFn())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("open collection %s: %w", s.config.Collection, err)
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	ids := make([]string, len(docs))
	batch := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		batch[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  stringifyMetadata(doc.Metadata),
			Embedding: vectors[i],
		}
	}

	// Concurrency 1: the expensive embedding step already ran above.
	if err := collection.AddDocuments(ctx, batch, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("write batch to collection %s: %w", s.config.Collection, err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("indexed document batch",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}

// Search performs similarity search in the default collection.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return s.SearchInCollection(ctx, s.config.Collection, query, k)
}

// SearchInCollection performs similarity search in a named collection.
// A collection that does not exist yet (nothing ingested) returns no
// results rather than an error.
func (s *ChromemStore) SearchInCollection(ctx context.Context, collectionName, query string, k int) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "vectorstore.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", collectionName),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	collection := s.db.GetCollection(collectionName, s.embedFn())
	if collection == nil {
		span.SetStatus(codes.Ok, "collection not created yet")
		return []SearchResult{}, nil
	}

	// chromem rejects nResults above the document count, so clamp k.
	available := collection.Count()
	if available == 0 {
		return []SearchResult{}, nil
	}
	if k > available {
		k = available
	}

	hits, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query collection %s: %w", collectionName, err)
	}

	out := make([]SearchResult, len(hits))
	for i, hit := range hits {
		out[i] = SearchResult{
			ID:       hit.ID,
			Content:  hit.Content,
			Score:    hit.Similarity,
			Metadata: widenMetadata(hit.Metadata),
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(out)))
	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("similarity search",
		zap.String("collection", collectionName),
		zap.Int("k", k),
		zap.Int("results", len(out)),
	)
	return out, nil
}

// DeleteDocuments deletes documents by ID from the default collection.
func (s *ChromemStore) DeleteDocuments(ctx context.Context, ids []string) error {
	ctx, span := chromemTracer.Start(ctx, "vectorstore.delete_documents")
	defer span.End()
	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("id_count", len(ids)),
	)

	if len(ids) == 0 {
		return nil
	}

	collection := s.db.GetCollection(s.config.Collection, s.embedFn())
	if collection == nil {
		span.SetStatus(codes.Error, "collection not found")
		return ErrCollectionNotFound
	}

	var failed []string
	for _, id := range ids {
		if err := collection.Delete(ctx, nil, nil, id); err != nil {
			span.RecordError(err)
			s.logger.Error("document delete failed",
				zap.String("collection", s.config.Collection),
				zap.String("id", id),
				zap.Error(err),
			)
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		span.SetStatus(codes.Error, "partial deletion failure")
		return fmt.Errorf("delete failed for %d of %d documents: %v", len(failed), len(ids), failed)
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}

// DeleteCollection drops a collection and all its documents.
func (s *ChromemStore) DeleteCollection(ctx context.Context, collectionName string) error {
	_, span := chromemTracer.Start(ctx, "vectorstore.delete_collection")
	defer span.End()
	span.SetAttributes(attribute.String("collection", collectionName))

	if err := s.db.DeleteCollection(collectionName); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("drop collection %s: %w", collectionName, err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Info("dropped collection", zap.String("collection", collectionName))
	return nil
}

// Count reports the number of documents in the default collection.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	_, span := chromemTracer.Start(ctx, "vectorstore.count")
	defer span.End()

	collection := s.db.GetCollection(s.config.Collection, s.embedFn())
	if collection == nil {
		return 0, nil
	}
	n := collection.Count()
	span.SetAttributes(attribute.Int("count", n))
	return n, nil
}

// Close closes the store. chromem persists on write, so this is a no-op
// beyond logging.
func (s *ChromemStore) Close() error {
	s.logger.Debug("vector store closed")
	return nil
}

// stringifyMetadata converts metadata values to the flat string map
// chromem stores.
func stringifyMetadata(metadata map[string]any) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for key, v := range metadata {
		switch val := v.(type) {
		case string:
			out[key] = val
		case int:
			out[key] = strconv.Itoa(val)
		case int64:
			out[key] = strconv.FormatInt(val, 10)
		case float64:
			out[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(val)
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// widenMetadata lifts the stored string map back to map[string]any.
// Numeric values stay strings; consumers that need counts parse them.
func widenMetadata(metadata map[string]string) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for key, v := range metadata {
		out[key] = v
	}
	return out
}

var _ Store = (*ChromemStore)(nil)
