// Package audit flags screens that expose interactive controls without a
// single accessibility identifier, which makes them unreachable by UI
// test automation.
//
// The check is a heuristic over extracted block text. It can under-report
// (identifiers applied by a shared modifier helper outside the block) and
// over-report (decorative elements that happen to match the control
// vocabulary). It is advisory; treating findings as fatal is an opt-in
// ingestion policy.
package audit

import (
	"encoding/json"

	"github.com/ashgrovelabs/testsmith/internal/chunk"
	"github.com/ashgrovelabs/testsmith/internal/swiftscan"
)

// Note is the fixed explanation attached to every audit summary.
const Note = "Heuristic audit: interactive elements exist but no accessibility identifiers were detected inside the screen block."

// maxPersistedFindings caps the finding list embedded in the summary chunk.
const maxPersistedFindings = 200

// Finding is one flagged screen block.
type Finding struct {
	Path                 string `json:"path"`
	Screen               string `json:"screen"`
	UI                   string `json:"ui"`
	InteractiveCount     int    `json:"interactive_count"`
	AccessibilityIDCount int    `json:"accessibility_id_count"`
}

// Summary aggregates one audit pass.
type Summary struct {
	FlaggedScreens int    `json:"flagged_screens"`
	Note           string `json:"note"`
}

// Run re-scans each screen block chunk's own stored text and flags blocks
// with interactive controls but zero accessibility identifiers. Counts are
// block-local, not file-wide.
func Run(chunks []chunk.Chunk) ([]Finding, Summary) {
	var findings []Finding
	for _, ch := range chunks {
		var paradigm swiftscan.Paradigm
		switch ch.Kind() {
		case chunk.KindSwiftUIView:
			paradigm = swiftscan.SwiftUI
		case chunk.KindUIKitController:
			paradigm = swiftscan.UIKit
		default:
			continue
		}

		interactive := swiftscan.InteractiveCount(ch.Text, paradigm)
		ids := swiftscan.AccessibilityIDCount(ch.Text, paradigm)
		if interactive > 0 && ids == 0 {
			path, _ := ch.Meta[chunk.MetaPath].(string)
			screen, _ := ch.Meta[chunk.MetaScreen].(string)
			findings = append(findings, Finding{
				Path:                 path,
				Screen:               screen,
				UI:                   string(paradigm),
				InteractiveCount:     interactive,
				AccessibilityIDCount: ids,
			})
		}
	}

	return findings, Summary{FlaggedScreens: len(findings), Note: Note}
}

// SummaryChunk renders the audit result as one extra chunk so it is
// retrievable alongside the code it describes.
func SummaryChunk(findings []Finding, summary Summary) chunk.Chunk {
	flagged := findings
	if len(flagged) > maxPersistedFindings {
		flagged = flagged[:maxPersistedFindings]
	}
	if flagged == nil {
		flagged = []Finding{}
	}
	body, err := json.Marshal(struct {
		Type         string    `json:"type"`
		Summary      Summary   `json:"summary"`
		Flagged      []Finding `json:"flagged"`
		TotalFlagged int       `json:"total_flagged"`
	}{
		Type:         "ACCESSIBILITY_AUDIT",
		Summary:      summary,
		Flagged:      flagged,
		TotalFlagged: len(findings),
	})
	if err != nil {
		body = nil
	}
	return chunk.Chunk{
		Text: string(body),
		Meta: map[string]any{
			chunk.MetaKind: chunk.KindAccessibilityAudit,
			chunk.MetaPath: "_audit_",
		},
	}
}
