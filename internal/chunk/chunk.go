// Package chunk turns one Swift source file into the typed, addressable
// units that get embedded and stored for retrieval.
package chunk

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Chunk kinds. Every stored document carries exactly one of these in its
// "kind" metadata field.
const (
	KindSwiftUIView        = "swiftui_view"
	KindUIKitController    = "uikit_viewcontroller"
	KindScreenCard         = "screen_card"
	KindAccessibilityMap   = "accessibility_map"
	KindNavigationSignals  = "navigation_signals"
	KindRawFallback        = "swift_raw"
	KindAccessibilityAudit = "accessibility_audit"
)

// Metadata keys persisted per document. Lists are stored "|"-joined because
// the store only takes flat string/number metadata values.
const (
	MetaKind                 = "kind"
	MetaPath                 = "path"
	MetaScreen               = "screen"
	MetaSymbol               = "symbol"
	MetaAccessibilityIDs     = "accessibility_ids"
	MetaAccessibilityIDCount = "accessibility_id_count"
	MetaButtons              = "buttons"
	MetaButtonCount          = "button_count"
	MetaNavSignals           = "navigation_signals"
)

// ListSep joins list-valued metadata fields.
const ListSep = "|"

// Chunk is the unit of retrieval: the text to embed plus flat metadata.
type Chunk struct {
	Text string
	Meta map[string]any
}

// Kind returns the chunk's kind tag.
func (c Chunk) Kind() string {
	kind, _ := c.Meta[MetaKind].(string)
	return kind
}

// ID is the chunk's storage identity: a hash of its content concatenated
// with its canonically serialized metadata. Re-ingesting byte-identical
// chunks therefore always produces the same document ID, and any content or
// metadata change produces a new one.
func (c Chunk) ID() string {
	meta, err := json.Marshal(c.Meta) // map keys marshal in sorted order
	if err != nil {
		meta = nil
	}
	sum := sha1.Sum(append([]byte(c.Text), meta...))
	return hex.EncodeToString(sum[:])
}

// JoinList flattens a list metadata value, keeping at most limit items.
func JoinList(items []string, limit int) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ListSep)
}

// SplitList undoes JoinList, dropping empty entries.
func SplitList(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(joined, ListSep) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
