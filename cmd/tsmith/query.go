package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashgrovelabs/testsmith/internal/chunk"
)

var queryK int

// querySnippetChars bounds snippets in query output; a trailing ellipsis
// marks truncation.
const querySnippetChars = 400

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the indexed app and print matching chunks",
	Long: `Run a similarity search against the local vector store and print the
results as JSON.

Examples:
  # Find login-related chunks
  tsmith query "login screen accessibility identifiers"

  # Retrieve more results
  tsmith query --k 15 "tab bar navigation"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryK, "k", 8, "number of results to retrieve")
	registerStoreFlags(queryCmd)
}

// QueryResult is one row of query output.
type QueryResult struct {
	ID      string  `json:"id"`
	Score   float32 `json:"score"`
	Kind    string  `json:"kind"`
	Path    string  `json:"path"`
	Screen  string  `json:"screen,omitempty"`
	Snippet string  `json:"snippet"`
}

// QueryOutput is the full query report printed to stdout.
type QueryOutput struct {
	Q       string        `json:"q"`
	K       int           `json:"k"`
	Results []QueryResult `json:"results"`
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	results, err := store.Search(cmd.Context(), args[0], queryK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	rows := make([]QueryResult, 0, len(results))
	for _, res := range results {
		kind, _ := res.Metadata[chunk.MetaKind].(string)
		path, _ := res.Metadata[chunk.MetaPath].(string)
		screen, _ := res.Metadata[chunk.MetaScreen].(string)
		if screen == "" {
			screen, _ = res.Metadata[chunk.MetaSymbol].(string)
		}

		snippet := res.Content
		if len(snippet) > querySnippetChars {
			snippet = snippet[:querySnippetChars] + "..."
		}

		rows = append(rows, QueryResult{
			ID:      res.ID,
			Score:   res.Score,
			Kind:    kind,
			Path:    path,
			Screen:  screen,
			Snippet: snippet,
		})
	}

	out, err := json.MarshalIndent(QueryOutput{Q: args[0], K: queryK, Results: rows}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
