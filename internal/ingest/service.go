// Package ingest runs the indexing pipeline: scan a Swift source tree,
// build retrieval chunks, audit accessibility coverage, and upsert the
// result into the vector store.
//
// Ingestion is recompute-and-upsert: every run rebuilds all chunks from the
// current file contents and writes them under deterministic content-hash
// IDs, so re-running over an unchanged tree never grows the store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/audit"
	"github.com/ashgrovelabs/testsmith/internal/chunk"
	"github.com/ashgrovelabs/testsmith/internal/swiftscan"
	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

// ErrNoSwiftFiles is returned when the scan root contains no Swift source.
var ErrNoSwiftFiles = errors.New("no .swift files found under app dir")

// maxGateExamples caps the findings reported by the fail-fast gate.
const maxGateExamples = 20

// AuditGateError aborts a fail-fast ingestion before any store write.
// It is a policy gate, not a pipeline failure.
type AuditGateError struct {
	Findings []audit.Finding
}

func (e *AuditGateError) Error() string {
	return fmt.Sprintf("accessibility audit failed: %d screens with interactive elements but no accessibility identifiers", len(e.Findings))
}

// Examples returns up to 20 findings for the error surface.
func (e *AuditGateError) Examples() []audit.Finding {
	if len(e.Findings) > maxGateExamples {
		return e.Findings[:maxGateExamples]
	}
	return e.Findings
}

// Options configures one ingestion run.
type Options struct {
	// AppDir is the root of the iOS app source tree.
	AppDir string

	// FailFast aborts before any store write when the accessibility audit
	// produces findings.
	FailFast bool
}

// AuditStatus summarizes the audit outcome in the status record.
type AuditStatus struct {
	FlaggedScreens int    `json:"flagged_screens"`
	Note           string `json:"note"`
}

// Status is the result record of a successful ingestion run.
type Status struct {
	Status             string      `json:"status"`
	RunID              string      `json:"run_id"`
	IndexedSwiftFiles  int         `json:"indexed_swift_files"`
	DocumentsUpserted  int         `json:"documents_upserted"`
	PersistDir         string      `json:"persist_dir"`
	Collection         string      `json:"collection"`
	GitCommit          string      `json:"git_commit,omitempty"`
	AccessibilityAudit AuditStatus `json:"accessibility_audit"`
}

// Ingestor drives the scan -> chunk -> audit -> upsert pipeline against one
// store handle.
type Ingestor struct {
	store      vectorstore.Store
	logger     *zap.Logger
	persistDir string
	collection string
}

// New creates an Ingestor. persistDir and collection are echoed into the
// status record; the store handle already binds to them.
func New(store vectorstore.Store, logger *zap.Logger, persistDir, collection string) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		store:      store,
		logger:     logger,
		persistDir: persistDir,
		collection: collection,
	}
}

// Run executes one ingestion pass. No error in scanning or chunking is
// fatal (unreadable files degrade to empty content); the only aborts are a
// missing/empty source tree, the opt-in audit gate, and store write failure.
func (ing *Ingestor) Run(ctx context.Context, opts Options) (*Status, error) {
	files, err := swiftscan.Scan(opts.AppDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSwiftFiles
	}

	var chunks []chunk.Chunk
	for _, f := range files {
		text := swiftscan.ReadText(f)
		if text == "" {
			continue
		}
		chunks = append(chunks, chunk.BuildFile(text, f.RelPath)...)
	}

	findings, summary := audit.Run(chunks)

	if opts.FailFast && len(findings) > 0 {
		ing.logger.Warn("accessibility audit gate triggered",
			zap.Int("flagged_screens", len(findings)),
			zap.String("app_dir", opts.AppDir),
		)
		return nil, &AuditGateError{Findings: findings}
	}

	// The audit summary is always persisted as one extra document so the
	// audit result is itself retrievable.
	docs := make([]vectorstore.Document, 0, len(chunks)+1)
	docs = append(docs, toDocument(audit.SummaryChunk(findings, summary)))
	for _, ch := range chunks {
		docs = append(docs, toDocument(ch))
	}

	if _, err := ing.store.AddDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("upserting documents: %w", err)
	}

	status := &Status{
		Status:            "ok",
		RunID:             uuid.NewString(),
		IndexedSwiftFiles: len(files),
		DocumentsUpserted: len(docs),
		PersistDir:        ing.persistDir,
		Collection:        ing.collection,
		GitCommit:         headCommit(opts.AppDir),
		AccessibilityAudit: AuditStatus{
			FlaggedScreens: len(findings),
			Note:           summary.Note,
		},
	}

	ing.logger.Info("ingestion complete",
		zap.String("run_id", status.RunID),
		zap.Int("files", status.IndexedSwiftFiles),
		zap.Int("documents", status.DocumentsUpserted),
		zap.Int("flagged_screens", len(findings)),
	)

	return status, nil
}

func toDocument(ch chunk.Chunk) vectorstore.Document {
	return vectorstore.Document{
		ID:       ch.ID(),
		Content:  ch.Text,
		Metadata: ch.Meta,
	}
}
