// Package retrieval assembles retrieved app context into the bounded
// bundle handed to the test generator.
package retrieval

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/chunk"
)

// Snippet is one retrieved piece of app context.
type Snippet struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Screen string `json:"screen,omitempty"`
	Text   string `json:"text"`
}

// ContextBundle is the bounded view of the indexed app handed to prompt
// construction. A failed retrieval degrades to an empty bundle carrying an
// error string; generation proceeds without app context.
type ContextBundle struct {
	Snippets         []Snippet `json:"snippets"`
	AccessibilityIDs []string  `json:"accessibility_ids"`
	Screens          []string  `json:"screens"`
	TotalMatches     int       `json:"total_matches"`
	Error            string    `json:"error,omitempty"`
}

// Empty reports whether the bundle carries no usable context.
func (b ContextBundle) Empty() bool {
	return len(b.Snippets) == 0 && len(b.AccessibilityIDs) == 0 && len(b.Screens) == 0
}

// snippetKinds are the chunk kinds worth quoting in a prompt. Cards and
// accessibility maps are compact and identifier-dense; raw fallbacks and
// navigation digests are deliberately excluded.
var snippetKinds = map[string]bool{
	chunk.KindSwiftUIView:      true,
	chunk.KindAccessibilityMap: true,
	chunk.KindScreenCard:       true,
}

// Options bounds one bundle assembly.
type Options struct {
	// TopK is how many documents to retrieve before filtering.
	TopK int
	// MaxSnippets caps how many retrieved documents are quoted.
	MaxSnippets int
	// SnippetChars truncates each quoted snippet.
	SnippetChars int
}

func (o *Options) applyDefaults() {
	if o.TopK <= 0 {
		o.TopK = 10
	}
	if o.MaxSnippets <= 0 {
		o.MaxSnippets = 5
	}
	if o.SnippetChars <= 0 {
		o.SnippetChars = 500
	}
}

// Assembler queries the vector store and folds results into bundles.
type Assembler struct {
	handle *Handle
	opts   Options
	logger *zap.Logger
}

// NewAssembler creates an Assembler over a lazily opened store handle.
func NewAssembler(handle *Handle, opts Options, logger *zap.Logger) *Assembler {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{handle: handle, opts: opts, logger: logger}
}

// AppContext retrieves and assembles app context for a natural-language
// query. It never fails: store or search errors produce an empty bundle
// with Error set, so callers can always generate something.
func (a *Assembler) AppContext(ctx context.Context, query string) ContextBundle {
	return a.AppContextTopK(ctx, query, 0)
}

// AppContextTopK is AppContext with a per-call retrieval depth override.
// topK <= 0 uses the configured default.
func (a *Assembler) AppContextTopK(ctx context.Context, query string, topK int) ContextBundle {
	if topK <= 0 {
		topK = a.opts.TopK
	}

	store, err := a.handle.Store(ctx)
	if err != nil {
		a.logger.Warn("vector store unavailable", zap.Error(err))
		return ContextBundle{Error: err.Error()}
	}

	results, err := store.Search(ctx, query, topK)
	if err != nil {
		a.logger.Warn("retrieval failed", zap.String("query", query), zap.Error(err))
		return ContextBundle{Error: err.Error()}
	}

	bundle := ContextBundle{TotalMatches: len(results)}
	idSet := make(map[string]bool)
	screenSet := make(map[string]bool)

	for _, res := range results {
		kind, _ := res.Metadata[chunk.MetaKind].(string)
		path, _ := res.Metadata[chunk.MetaPath].(string)
		screen, _ := res.Metadata[chunk.MetaScreen].(string)

		if joined, ok := res.Metadata[chunk.MetaAccessibilityIDs].(string); ok {
			for _, id := range chunk.SplitList(joined) {
				idSet[id] = true
			}
		}
		if screen != "" {
			screenSet[screen] = true
		}

		if !snippetKinds[kind] || len(bundle.Snippets) >= a.opts.MaxSnippets {
			continue
		}
		bundle.Snippets = append(bundle.Snippets, Snippet{
			Kind:   kind,
			Path:   path,
			Screen: screen,
			Text:   truncate(res.Content, a.opts.SnippetChars),
		})
	}

	bundle.AccessibilityIDs = sortedKeys(idSet)
	bundle.Screens = sortedKeys(screenSet)
	return bundle
}

// truncate clips s to at most max characters, never splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
