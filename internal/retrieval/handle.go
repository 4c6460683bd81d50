package retrieval

import (
	"context"
	"sync"

	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

// OpenFunc opens a vector store. It typically constructs the embedding
// provider as a side effect, which can be slow (model download on first
// use), so it is deferred until first retrieval.
type OpenFunc func(ctx context.Context) (vectorstore.Store, error)

// Handle opens the vector store lazily and at most once. A failed open is
// cached: subsequent calls return the same error without retrying, matching
// a daemon that serves non-RAG endpoints even when the store is broken.
type Handle struct {
	open  OpenFunc
	once  sync.Once
	store vectorstore.Store
	err   error
}

// NewHandle wraps an open function. NewHandle(nil) is invalid.
func NewHandle(open OpenFunc) *Handle {
	return &Handle{open: open}
}

// NewHandleFor wraps an already-open store, for tests and the CLI where
// the store is constructed eagerly.
func NewHandleFor(store vectorstore.Store) *Handle {
	h := &Handle{}
	h.once.Do(func() { h.store = store })
	return h
}

// Store returns the underlying store, opening it on first call.
func (h *Handle) Store(ctx context.Context) (vectorstore.Store, error) {
	h.once.Do(func() {
		h.store, h.err = h.open(ctx)
	})
	return h.store, h.err
}

// Close closes the store if it was ever opened.
func (h *Handle) Close() error {
	if h.store != nil {
		return h.store.Close()
	}
	return nil
}
