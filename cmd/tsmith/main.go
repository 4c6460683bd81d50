// Package main implements the tsmith CLI for indexing iOS app sources and
// generating tests against the testsmithd HTTP server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/config"
	"github.com/ashgrovelabs/testsmith/internal/embeddings"
	"github.com/ashgrovelabs/testsmith/internal/logging"
	"github.com/ashgrovelabs/testsmith/internal/vectorstore"
)

var (
	// cfgFile overrides the default config file path
	cfgFile string
	// serverURL is the base URL for the testsmithd HTTP server
	serverURL string
	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		os.Exit(code)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsmith",
	Short: "CLI for indexing iOS apps and generating XCTest/XCUITest code",
	Long: `tsmith indexes an iOS app's Swift sources into a local vector store and
generates Swift test code from natural-language descriptions via the
testsmithd server.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default ~/.config/testsmith/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "testsmithd server URL")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

// exitError carries a specific process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tsmith by Ashgrove Labs\n")
		fmt.Printf("Version: %s\n", version)
	},
}

// Store override flags shared by the commands that open the local store.
var (
	storePersist    string
	storeCollection string
	storeEmbedModel string
)

// registerStoreFlags adds the local-store override flags to a command.
func registerStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storePersist, "persist", "", "vector store directory (default from config)")
	cmd.Flags().StringVar(&storeCollection, "collection", "", "collection name (default from config: ios_app)")
	cmd.Flags().StringVar(&storeEmbedModel, "embed-model", "", "embedding model name (default from config)")
}

// loadConfig loads configuration honoring the --config flag and any store
// override flags.
func loadConfig() (*config.Config, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if storePersist != "" {
		cfg.Store.Path = storePersist
	}
	if storeCollection != "" {
		cfg.Store.Collection = storeCollection
	}
	if storeEmbedModel != "" {
		cfg.Embeddings.Model = storeEmbedModel
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Console format regardless of config:
// CLI output goes to a terminal, and stdout must stay clean for JSON.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, "console")
}

// openLocalStore constructs the embedding provider and opens the local
// vector store for commands that bypass the daemon (ingest, query).
func openLocalStore(cfg *config.Config, logger *zap.Logger) (vectorstore.Store, embeddings.Provider, error) {
	embedder, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider: cfg.Embeddings.Provider,
		Model:    cfg.Embeddings.Model,
		BaseURL:  cfg.Embeddings.BaseURL,
		APIKey:   cfg.Embeddings.APIKey.Value(),
		CacheDir: cfg.Embeddings.CacheDir,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       cfg.Store.Path,
		Compress:   cfg.Store.Compress,
		Collection: cfg.Store.Collection,
	}, embedder, logger)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	return store, embedder, nil
}
