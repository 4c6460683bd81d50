package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrovelabs/testsmith/internal/audit"
	"github.com/ashgrovelabs/testsmith/internal/chunk"
	"github.com/ashgrovelabs/testsmith/internal/ingest"
	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

// recordingStore captures every AddDocuments batch.
type recordingStore struct {
	vectorstore.Store
	batches [][]vectorstore.Document
	addErr  error
}

func (r *recordingStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.batches = append(r.batches, docs)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

const labeledView = `struct LoginView: View {
    var body: some View {
        Button("Log In") { login() }
            .accessibilityIdentifier("loginButton")
    }
}
`

const unlabeledView = `struct BareView: View {
    var body: some View {
        Button("Tap") { tap() }
    }
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestRunIndexesTree(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App/LoginView.swift": labeledView,
	})
	store := &recordingStore{}
	ing := ingest.New(store, nil, "/tmp/rag_store", "ios_app")

	status, err := ing.Run(context.Background(), ingest.Options{AppDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "ok", status.Status)
	assert.NotEmpty(t, status.RunID)
	assert.Equal(t, 1, status.IndexedSwiftFiles)
	assert.Equal(t, "/tmp/rag_store", status.PersistDir)
	assert.Equal(t, "ios_app", status.Collection)
	assert.Zero(t, status.AccessibilityAudit.FlaggedScreens)
	assert.Equal(t, audit.Note, status.AccessibilityAudit.Note)

	require.Len(t, store.batches, 1)
	docs := store.batches[0]
	assert.Equal(t, status.DocumentsUpserted, len(docs))

	// The audit summary rides first, then the file chunks.
	assert.Equal(t, chunk.KindAccessibilityAudit, docs[0].Metadata[chunk.MetaKind])
	assert.Equal(t, "_audit_", docs[0].Metadata[chunk.MetaPath])
	assert.Equal(t, chunk.KindSwiftUIView, docs[1].Metadata[chunk.MetaKind])
	assert.Equal(t, "App/LoginView.swift", docs[1].Metadata[chunk.MetaPath])

	for _, d := range docs {
		assert.NotEmpty(t, d.ID)
	}
}

func TestRunDeterministicDocumentIDs(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App/LoginView.swift": labeledView,
	})
	store := &recordingStore{}
	ing := ingest.New(store, nil, "", "")

	_, err := ing.Run(context.Background(), ingest.Options{AppDir: dir})
	require.NoError(t, err)
	_, err = ing.Run(context.Background(), ingest.Options{AppDir: dir})
	require.NoError(t, err)

	require.Len(t, store.batches, 2)
	require.Equal(t, len(store.batches[0]), len(store.batches[1]))
	for i := range store.batches[0] {
		assert.Equal(t, store.batches[0][i].ID, store.batches[1][i].ID)
	}
}

func TestRunNoSwiftFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"README.md": "no swift here",
	})
	ing := ingest.New(&recordingStore{}, nil, "", "")

	_, err := ing.Run(context.Background(), ingest.Options{AppDir: dir})
	assert.ErrorIs(t, err, ingest.ErrNoSwiftFiles)
}

func TestRunMissingDir(t *testing.T) {
	ing := ingest.New(&recordingStore{}, nil, "", "")

	_, err := ing.Run(context.Background(), ingest.Options{AppDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestRunAuditGateBlocksAllWrites(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App/BareView.swift":  unlabeledView,
		"App/LoginView.swift": labeledView,
	})
	store := &recordingStore{}
	ing := ingest.New(store, nil, "", "")

	_, err := ing.Run(context.Background(), ingest.Options{AppDir: dir, FailFast: true})

	var gateErr *ingest.AuditGateError
	require.ErrorAs(t, err, &gateErr)
	require.Len(t, gateErr.Findings, 1)
	assert.Equal(t, "BareView", gateErr.Findings[0].Screen)
	assert.Equal(t, "App/BareView.swift", gateErr.Findings[0].Path)

	assert.Empty(t, store.batches, "gated runs must write nothing")
}

func TestRunWithoutFailFastPersistsFindings(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App/BareView.swift": unlabeledView,
	})
	store := &recordingStore{}
	ing := ingest.New(store, nil, "", "")

	status, err := ing.Run(context.Background(), ingest.Options{AppDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, status.AccessibilityAudit.FlaggedScreens)
	require.Len(t, store.batches, 1)
	assert.Contains(t, store.batches[0][0].Content, "BareView")
}

func TestRunStoreFailure(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"App/LoginView.swift": labeledView,
	})
	ing := ingest.New(&recordingStore{addErr: errors.New("disk full")}, nil, "", "")

	_, err := ing.Run(context.Background(), ingest.Options{AppDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAuditGateErrorExamples(t *testing.T) {
	findings := make([]audit.Finding, 30)
	gateErr := &ingest.AuditGateError{Findings: findings}

	assert.Len(t, gateErr.Examples(), 20)
	assert.Contains(t, gateErr.Error(), "30 screens")
}
