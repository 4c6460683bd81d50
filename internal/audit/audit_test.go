package audit_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrovelabs/testsmith/internal/audit"
	"github.com/ashgrovelabs/testsmith/internal/chunk"
)

func blockChunk(kind, path, screen, text string) chunk.Chunk {
	return chunk.Chunk{Text: text, Meta: map[string]any{
		chunk.MetaKind:   kind,
		chunk.MetaPath:   path,
		chunk.MetaScreen: screen,
	}}
}

func TestRunFlagsInteractiveWithoutIDs(t *testing.T) {
	bare := blockChunk(chunk.KindSwiftUIView, "App/BareView.swift", "BareView",
		`struct BareView: View {
    var body: some View {
        Button("Tap") { action() }
    }
}`)
	findings, summary := audit.Run([]chunk.Chunk{bare})

	require.Len(t, findings, 1)
	assert.Equal(t, audit.Finding{
		Path:                 "App/BareView.swift",
		Screen:               "BareView",
		UI:                   "SwiftUI",
		InteractiveCount:     1,
		AccessibilityIDCount: 0,
	}, findings[0])
	assert.Equal(t, 1, summary.FlaggedScreens)
	assert.Equal(t, audit.Note, summary.Note)
}

func TestRunSkipsLabeledScreens(t *testing.T) {
	labeled := blockChunk(chunk.KindSwiftUIView, "App/GoodView.swift", "GoodView",
		`struct GoodView: View {
    var body: some View {
        Button("Tap") { action() }
            .accessibilityIdentifier("tapButton")
    }
}`)
	findings, summary := audit.Run([]chunk.Chunk{labeled})
	assert.Empty(t, findings)
	assert.Zero(t, summary.FlaggedScreens)
}

func TestRunSkipsNonInteractiveScreens(t *testing.T) {
	static := blockChunk(chunk.KindSwiftUIView, "App/StaticView.swift", "StaticView",
		`struct StaticView: View {
    var body: some View { Color.red }
}`)
	findings, _ := audit.Run([]chunk.Chunk{static})
	assert.Empty(t, findings)
}

func TestRunIgnoresNonBlockChunks(t *testing.T) {
	card := chunk.Chunk{Text: `{"type":"SCREEN_CARD"}`, Meta: map[string]any{
		chunk.MetaKind: chunk.KindScreenCard,
		chunk.MetaPath: "App/BareView.swift",
	}}
	accMap := chunk.Chunk{Text: "ACCESSIBILITY_IDS\npath: x\nButton", Meta: map[string]any{
		chunk.MetaKind: chunk.KindAccessibilityMap,
	}}
	findings, _ := audit.Run([]chunk.Chunk{card, accMap})
	assert.Empty(t, findings)
}

func TestRunUIKitParadigm(t *testing.T) {
	controller := blockChunk(chunk.KindUIKitController, "App/MenuViewController.swift", "MenuViewController",
		`class MenuViewController: UIViewController {
    let openButton = UIButton()
}`)
	findings, _ := audit.Run([]chunk.Chunk{controller})
	require.Len(t, findings, 1)
	assert.Equal(t, "UIKit", findings[0].UI)
	assert.Equal(t, 1, findings[0].InteractiveCount)
}

func TestSummaryChunkShape(t *testing.T) {
	findings := []audit.Finding{{
		Path: "App/BareView.swift", Screen: "BareView", UI: "SwiftUI",
		InteractiveCount: 2,
	}}
	ch := audit.SummaryChunk(findings, audit.Summary{FlaggedScreens: 1, Note: audit.Note})

	assert.Equal(t, chunk.KindAccessibilityAudit, ch.Kind())
	assert.Equal(t, "_audit_", ch.Meta[chunk.MetaPath])

	var decoded struct {
		Type    string `json:"type"`
		Summary struct {
			FlaggedScreens int    `json:"flagged_screens"`
			Note           string `json:"note"`
		} `json:"summary"`
		Flagged      []audit.Finding `json:"flagged"`
		TotalFlagged int             `json:"total_flagged"`
	}
	require.NoError(t, json.Unmarshal([]byte(ch.Text), &decoded))
	assert.Equal(t, "ACCESSIBILITY_AUDIT", decoded.Type)
	assert.Equal(t, 1, decoded.Summary.FlaggedScreens)
	assert.Equal(t, audit.Note, decoded.Summary.Note)
	assert.Equal(t, findings, decoded.Flagged)
	assert.Equal(t, 1, decoded.TotalFlagged)
}

func TestSummaryChunkCapsFindings(t *testing.T) {
	findings := make([]audit.Finding, 250)
	for i := range findings {
		findings[i] = audit.Finding{Path: fmt.Sprintf("App/V%d.swift", i), Screen: fmt.Sprintf("V%d", i)}
	}
	ch := audit.SummaryChunk(findings, audit.Summary{FlaggedScreens: 250, Note: audit.Note})

	var decoded struct {
		Flagged      []audit.Finding `json:"flagged"`
		TotalFlagged int             `json:"total_flagged"`
	}
	require.NoError(t, json.Unmarshal([]byte(ch.Text), &decoded))
	assert.Len(t, decoded.Flagged, 200)
	assert.Equal(t, 250, decoded.TotalFlagged)
}

func TestSummaryChunkEmptyFindingsMarshalAsList(t *testing.T) {
	ch := audit.SummaryChunk(nil, audit.Summary{FlaggedScreens: 0, Note: audit.Note})
	assert.Contains(t, ch.Text, `"flagged":[]`)
}
