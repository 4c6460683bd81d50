// Testsmithd is the test-generation daemon.
//
// It serves the HTTP API for generating Swift XCTest and XCUITest code from
// natural-language descriptions, optionally enriched with retrieved context
// from an indexed iOS app.
//
// Configuration is loaded from ~/.config/testsmith/config.yaml plus
// environment overrides. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	testsmithd
//
//	# Configure via environment
//	SERVER_HTTP_PORT=9000 LLM_API_KEY=sk-... testsmithd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/config"
	"github.com/ashgrovelabs/testsmith/internal/embeddings"
	"github.com/ashgrovelabs/testsmith/internal/generator"
	"github.com/ashgrovelabs/testsmith/internal/httpapi"
	"github.com/ashgrovelabs/testsmith/internal/logging"
	"github.com/ashgrovelabs/testsmith/internal/retrieval"
	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/testsmith/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  testsmithd           Start the testsmith daemon\n")
			fmt.Fprintf(os.Stderr, "  testsmithd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("testsmithd by Ashgrove Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the daemon and blocks until the context is cancelled.
//
// The vector store (and its embedding provider) opens lazily on the first
// RAG request, so the daemon starts fast and serves non-RAG endpoints even
// when the index is absent or broken.
func run(ctx context.Context, configPath string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("starting testsmithd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	llmClient, err := generator.NewClient(generator.ClientConfig{
		Provider:          cfg.LLM.Provider,
		Model:             cfg.LLM.Model,
		APIKey:            cfg.LLM.APIKey.Value(),
		BaseURL:           cfg.LLM.BaseURL,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		MaxRetries:        cfg.LLM.MaxRetries,
	})
	llmConfigured := err == nil
	if err != nil {
		logger.Warn("llm client not configured, generation requests will fail", zap.Error(err))
		llmClient = generator.Unconfigured(err)
	}

	gen := generator.New(llmClient, cfg.LLM.Provider, cfg.LLM.Model, logger)

	handle := retrieval.NewHandle(func(ctx context.Context) (vectorstore.Store, error) {
		return openStore(cfg, logger)
	})
	defer func() {
		_ = handle.Close()
	}()

	assembler := retrieval.NewAssembler(handle, retrieval.Options{
		TopK:         cfg.Retrieval.TopK,
		MaxSnippets:  cfg.Retrieval.MaxSnippets,
		SnippetChars: cfg.Retrieval.SnippetChars,
	}, logger)

	srv, err := httpapi.NewServer(gen, assembler, httpapi.NewMetrics(), logger, &httpapi.Config{
		Host:          "0.0.0.0",
		Port:          cfg.Server.Port,
		ServiceName:   "iOS Test Generator API",
		Version:       version,
		AppName:       "SampleApp",
		LLMConfigured: llmConfigured,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the embedding provider and opens the chromem store. It
// runs on the first RAG request via the lazy retrieval handle.
func openStore(cfg *config.Config, logger *zap.Logger) (vectorstore.Store, error) {
	embedder, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider: cfg.Embeddings.Provider,
		Model:    cfg.Embeddings.Model,
		BaseURL:  cfg.Embeddings.BaseURL,
		APIKey:   cfg.Embeddings.APIKey.Value(),
		CacheDir: cfg.Embeddings.CacheDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	logger.Info("embedding provider initialized",
		zap.String("provider", cfg.Embeddings.Provider),
		zap.String("model", cfg.Embeddings.Model),
		zap.Int("dimension", embedder.Dimension()))

	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       cfg.Store.Path,
		Compress:   cfg.Store.Compress,
		Collection: cfg.Store.Collection,
	}, embedder, logger)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	return store, nil
}
