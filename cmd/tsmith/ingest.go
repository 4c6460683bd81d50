package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/ingest"
)

var (
	ingestAppDir   string
	ingestFailFast bool
	ingestWatch    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index an iOS app's Swift sources into the vector store",
	Long: `Scan an iOS app source tree, extract views, view controllers, and
accessibility signals, and upsert the resulting chunks into the local
vector store.

Exit codes:
  0  ingestion succeeded
  2  app dir missing, unreadable, or contains no Swift files
  3  --fail-fast set and the accessibility audit produced findings

Examples:
  # Index an app
  tsmith ingest --app-dir ~/code/MyApp

  # Gate CI on accessibility coverage
  tsmith ingest --app-dir ~/code/MyApp --fail-fast

  # Keep the index current while developing
  tsmith ingest --app-dir ~/code/MyApp --watch`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestAppDir, "app-dir", "", "path to the iOS app source tree (required)")
	ingestCmd.Flags().BoolVar(&ingestFailFast, "fail-fast", false, "abort before writing when the accessibility audit finds screens with interactive elements but no identifiers")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "stay running and re-ingest when Swift files change")
	registerStoreFlags(ingestCmd)
	_ = ingestCmd.MarkFlagRequired("app-dir")
}

func runIngest(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(ingestAppDir)
	if err != nil || !info.IsDir() {
		return &exitError{code: 2, err: fmt.Errorf("app dir %s is not a readable directory", ingestAppDir)}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, embedder, err := openLocalStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
		_ = embedder.Close()
	}()

	ing := ingest.New(store, logger, cfg.Store.Path, cfg.Store.Collection)
	ctx := cmd.Context()

	if err := ingestOnce(ctx, ing); err != nil {
		return err
	}

	if !ingestWatch {
		return nil
	}

	watcher, err := ingest.NewWatcher(ingestAppDir, logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = watcher.Start(watchCtx, func() {
		// Watch mode never gates: a transient red audit while editing
		// should not kill the session.
		if _, err := ing.Run(watchCtx, ingest.Options{AppDir: ingestAppDir}); err != nil {
			logger.Error("re-ingestion failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "[tsmith] watching %s for changes, Ctrl-C to stop\n", ingestAppDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-watchCtx.Done():
	}
	return nil
}

// ingestOnce runs one ingestion pass and prints the status record as JSON.
func ingestOnce(ctx context.Context, ing *ingest.Ingestor) error {
	status, err := ing.Run(ctx, ingest.Options{
		AppDir:   ingestAppDir,
		FailFast: ingestFailFast,
	})
	if err != nil {
		var gate *ingest.AuditGateError
		if errors.As(err, &gate) {
			printGateFindings(gate)
			return &exitError{code: 3, err: err}
		}
		if errors.Is(err, ingest.ErrNoSwiftFiles) {
			return &exitError{code: 2, err: err}
		}
		return err
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// printGateFindings reports audit-gate findings to stderr, capped at 20
// examples.
func printGateFindings(gate *ingest.AuditGateError) {
	fmt.Fprintf(os.Stderr, "[tsmith] accessibility audit failed: %d flagged screens\n", len(gate.Findings))
	for _, f := range gate.Examples() {
		fmt.Fprintf(os.Stderr, "  %s (%s, %s): %d interactive elements, 0 accessibility identifiers\n",
			f.Screen, f.UI, f.Path, f.InteractiveCount)
	}
	if len(gate.Findings) > len(gate.Examples()) {
		fmt.Fprintf(os.Stderr, "  ... and %d more\n", len(gate.Findings)-len(gate.Examples()))
	}
}
