package chunk

import (
	"encoding/json"
	"strings"

	"github.com/ashgrovelabs/testsmith/internal/swiftscan"
)

const (
	// maxRawChars caps the fallback chunk for files with no recognized
	// structure.
	maxRawChars = 4000
	// maxNavLines caps the per-file navigation digest.
	maxNavLines = 60
	// maxIDsPerCard and maxButtonsPerCard bound card/metadata lists.
	maxIDsPerCard     = 200
	maxButtonsPerCard = 50
)

// viewCard and controllerCard are the compact structured summaries stored
// next to each block chunk. Field order is the canonical card encoding;
// controller cards carry no button list because button extraction is a
// SwiftUI-only heuristic.
type viewCard struct {
	Type                 string   `json:"type"`
	UI                   string   `json:"ui"`
	Screen               string   `json:"screen"`
	Path                 string   `json:"path"`
	Buttons              []string `json:"buttons"`
	AccessibilityIDs     []string `json:"accessibility_ids"`
	HasNavigationSignals bool     `json:"has_navigation_signals"`
}

type controllerCard struct {
	Type                 string   `json:"type"`
	UI                   string   `json:"ui"`
	Screen               string   `json:"screen"`
	Path                 string   `json:"path"`
	AccessibilityIDs     []string `json:"accessibility_ids"`
	HasNavigationSignals bool     `json:"has_navigation_signals"`
}

// BuildFile produces the chunk list for one source file, in policy order:
// view block+card pairs, controller block+card pairs, one accessibility map
// (if any identifier appears anywhere in the file), one navigation digest
// (if any line carries a navigation signal), and a raw fallback only when
// nothing else was produced. No chunk ever spans files.
func BuildFile(fileText, relPath string) []Chunk {
	var chunks []Chunk

	for _, b := range swiftscan.ViewBlocks(fileText) {
		ids := swiftscan.AccessibilityIDs(b.Text, swiftscan.SwiftUI)
		buttons := swiftscan.ButtonLabels(b.Text)
		navHits := swiftscan.NavigationHits(b.Text)

		meta := map[string]any{
			MetaKind:                 KindSwiftUIView,
			MetaPath:                 relPath,
			MetaScreen:               b.Name,
			MetaSymbol:               b.Name,
			MetaAccessibilityIDs:     JoinList(ids, maxIDsPerCard),
			MetaAccessibilityIDCount: len(ids),
			MetaButtons:              JoinList(buttons, maxButtonsPerCard),
			MetaButtonCount:          len(buttons),
			MetaNavSignals:           navHits,
		}
		chunks = append(chunks, Chunk{Text: b.Text, Meta: meta})

		card := viewCard{
			Type:                 "SCREEN_CARD",
			UI:                   string(swiftscan.SwiftUI),
			Screen:               b.Name,
			Path:                 relPath,
			Buttons:              capList(buttons, maxButtonsPerCard),
			AccessibilityIDs:     capList(ids, maxIDsPerCard),
			HasNavigationSignals: navHits > 0,
		}
		chunks = append(chunks, Chunk{Text: encodeCard(card), Meta: withKind(meta, KindScreenCard)})
	}

	for _, b := range swiftscan.ControllerBlocks(fileText) {
		ids := swiftscan.AccessibilityIDs(b.Text, swiftscan.UIKit)
		navHits := swiftscan.NavigationHits(b.Text)

		meta := map[string]any{
			MetaKind:                 KindUIKitController,
			MetaPath:                 relPath,
			MetaScreen:               b.Name,
			MetaSymbol:               b.Name,
			MetaAccessibilityIDs:     JoinList(ids, maxIDsPerCard),
			MetaAccessibilityIDCount: len(ids),
			MetaNavSignals:           navHits,
		}
		chunks = append(chunks, Chunk{Text: b.Text, Meta: meta})

		card := controllerCard{
			Type:                 "SCREEN_CARD",
			UI:                   string(swiftscan.UIKit),
			Screen:               b.Name,
			Path:                 relPath,
			AccessibilityIDs:     capList(ids, maxIDsPerCard),
			HasNavigationSignals: navHits > 0,
		}
		chunks = append(chunks, Chunk{Text: encodeCard(card), Meta: withKind(meta, KindScreenCard)})
	}

	// Accessibility map: identifiers found anywhere in the file, not just
	// inside matched blocks. This is what makes exact-ID queries retrieve.
	if fileIDs := swiftscan.AllAccessibilityIDs(fileText); len(fileIDs) > 0 {
		text := "ACCESSIBILITY_IDS\npath: " + relPath + "\n" + strings.Join(fileIDs, "\n")
		chunks = append(chunks, Chunk{Text: text, Meta: map[string]any{
			MetaKind:                 KindAccessibilityMap,
			MetaPath:                 relPath,
			MetaAccessibilityIDs:     JoinList(fileIDs, maxIDsPerCard),
			MetaAccessibilityIDCount: len(fileIDs),
		}})
	}

	if navLines := swiftscan.NavigationLines(fileText, maxNavLines); len(navLines) > 0 {
		text := "NAVIGATION_SIGNALS\npath: " + relPath + "\n" + strings.Join(navLines, "\n")
		chunks = append(chunks, Chunk{Text: text, Meta: map[string]any{
			MetaKind: KindNavigationSignals,
			MetaPath: relPath,
		}})
	}

	// Raw fallback only when nothing above matched, so unstructured files
	// still retrieve instead of vanishing from the index.
	if len(chunks) == 0 {
		raw := strings.TrimSpace(fileText)
		if raw != "" {
			if len(raw) > maxRawChars {
				raw = raw[:maxRawChars]
			}
			chunks = append(chunks, Chunk{Text: raw, Meta: map[string]any{
				MetaKind: KindRawFallback,
				MetaPath: relPath,
			}})
		}
	}

	return chunks
}

func withKind(meta map[string]any, kind string) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	out[MetaKind] = kind
	return out
}

func capList(items []string, limit int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func encodeCard(card any) string {
	data, err := json.Marshal(card)
	if err != nil {
		return ""
	}
	return string(data)
}
