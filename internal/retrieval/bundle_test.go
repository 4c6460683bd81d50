package retrieval_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrovelabs/testsmith/internal/chunk"
	"github.com/ashgrovelabs/testsmith/internal/retrieval"
	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

// fakeStore serves canned search results and records calls.
type fakeStore struct {
	results   []vectorstore.SearchResult
	searchErr error
	lastQuery string
	lastK     int
	closed    bool
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	f.lastQuery = query
	f.lastK = k
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeStore) SearchInCollection(ctx context.Context, collection, query string, k int) ([]vectorstore.SearchResult, error) {
	return f.Search(ctx, query, k)
}

func (f *fakeStore) DeleteDocuments(ctx context.Context, ids []string) error { return nil }

func (f *fakeStore) DeleteCollection(ctx context.Context, collection string) error { return nil }

func (f *fakeStore) Count(ctx context.Context) (int, error) { return len(f.results), nil }

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func result(kind, path, screen, ids, content string) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		ID:      path + "#" + screen,
		Content: content,
		Metadata: map[string]any{
			chunk.MetaKind:             kind,
			chunk.MetaPath:             path,
			chunk.MetaScreen:           screen,
			chunk.MetaAccessibilityIDs: ids,
		},
	}
}

func TestAppContextAssemblesBundle(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		result(chunk.KindSwiftUIView, "App/LoginView.swift", "LoginView", "loginButton|emailTextField", "struct LoginView: View { ... }"),
		result(chunk.KindScreenCard, "App/LoginView.swift", "LoginView", "loginButton|emailTextField", `{"type":"SCREEN_CARD"}`),
		result(chunk.KindAccessibilityMap, "App/HomeView.swift", "", "homeTab", "ACCESSIBILITY_IDS\nhomeTab"),
		result(chunk.KindNavigationSignals, "App/HomeView.swift", "", "", "NAVIGATION_SIGNALS\n..."),
	}}
	asm := retrieval.NewAssembler(retrieval.NewHandleFor(store), retrieval.Options{}, nil)

	bundle := asm.AppContext(context.Background(), "test the login flow")

	assert.Equal(t, "test the login flow", store.lastQuery)
	assert.Equal(t, 10, store.lastK, "default retrieval depth")
	assert.Equal(t, 4, bundle.TotalMatches)
	assert.Empty(t, bundle.Error)
	assert.False(t, bundle.Empty())

	// Navigation digests contribute metadata but are never quoted.
	require.Len(t, bundle.Snippets, 3)
	assert.Equal(t, chunk.KindSwiftUIView, bundle.Snippets[0].Kind)
	assert.Equal(t, "App/LoginView.swift", bundle.Snippets[0].Path)
	assert.Equal(t, "LoginView", bundle.Snippets[0].Screen)

	assert.Equal(t, []string{"emailTextField", "homeTab", "loginButton"}, bundle.AccessibilityIDs)
	assert.Equal(t, []string{"LoginView"}, bundle.Screens)
}

func TestAppContextBounds(t *testing.T) {
	long := strings.Repeat("x", 600)
	var results []vectorstore.SearchResult
	for i := 0; i < 8; i++ {
		results = append(results, result(chunk.KindSwiftUIView, "App/V.swift", "V", "", long))
	}
	store := &fakeStore{results: results}
	asm := retrieval.NewAssembler(retrieval.NewHandleFor(store), retrieval.Options{}, nil)

	bundle := asm.AppContext(context.Background(), "anything")

	assert.Len(t, bundle.Snippets, 5, "default snippet cap")
	for _, s := range bundle.Snippets {
		assert.Len(t, s.Text, 500, "default truncation")
	}
	assert.Equal(t, 8, bundle.TotalMatches)
}

func TestAppContextTruncationKeepsRunesIntact(t *testing.T) {
	// 600 two-byte runes: a byte-indexed cut at 500 would land mid-rune.
	long := strings.Repeat("é", 600)
	store := &fakeStore{results: []vectorstore.SearchResult{
		result(chunk.KindSwiftUIView, "App/V.swift", "V", "", long),
	}}
	asm := retrieval.NewAssembler(retrieval.NewHandleFor(store), retrieval.Options{}, nil)

	bundle := asm.AppContext(context.Background(), "anything")

	require.Len(t, bundle.Snippets, 1)
	text := bundle.Snippets[0].Text
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, 500, utf8.RuneCountInString(text))
}

func TestAppContextTopKOverride(t *testing.T) {
	store := &fakeStore{}
	asm := retrieval.NewAssembler(retrieval.NewHandleFor(store), retrieval.Options{TopK: 10}, nil)

	asm.AppContextTopK(context.Background(), "q", 3)
	assert.Equal(t, 3, store.lastK)

	asm.AppContextTopK(context.Background(), "q", 0)
	assert.Equal(t, 10, store.lastK, "non-positive override falls back to the default")
}

func TestAppContextDegradesOnSearchError(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("index corrupted")}
	asm := retrieval.NewAssembler(retrieval.NewHandleFor(store), retrieval.Options{}, nil)

	bundle := asm.AppContext(context.Background(), "q")

	assert.True(t, bundle.Empty())
	assert.Equal(t, "index corrupted", bundle.Error)
	assert.Zero(t, bundle.TotalMatches)
}

func TestAppContextDegradesOnOpenError(t *testing.T) {
	handle := retrieval.NewHandle(func(ctx context.Context) (vectorstore.Store, error) {
		return nil, errors.New("model download failed")
	})
	asm := retrieval.NewAssembler(handle, retrieval.Options{}, nil)

	bundle := asm.AppContext(context.Background(), "q")

	assert.True(t, bundle.Empty())
	assert.Equal(t, "model download failed", bundle.Error)
}

func TestHandleOpensOnce(t *testing.T) {
	store := &fakeStore{}
	opens := 0
	handle := retrieval.NewHandle(func(ctx context.Context) (vectorstore.Store, error) {
		opens++
		return store, nil
	})

	for i := 0; i < 3; i++ {
		got, err := handle.Store(context.Background())
		require.NoError(t, err)
		assert.Same(t, store, got.(*fakeStore))
	}
	assert.Equal(t, 1, opens)

	require.NoError(t, handle.Close())
	assert.True(t, store.closed)
}

func TestHandleCachesOpenFailure(t *testing.T) {
	opens := 0
	handle := retrieval.NewHandle(func(ctx context.Context) (vectorstore.Store, error) {
		opens++
		return nil, errors.New("boom")
	})

	_, err1 := handle.Store(context.Background())
	_, err2 := handle.Store(context.Background())
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, 1, opens)

	assert.NoError(t, handle.Close(), "never-opened handle closes cleanly")
}
