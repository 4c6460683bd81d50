package chunk_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashgrovelabs/testsmith/internal/chunk"
)

const loginView = `struct LoginView: View {
    var body: some View {
        VStack {
            TextField("Email", text: $email)
                .accessibilityIdentifier("emailTextField")
            Button("Log In") {
                viewModel.login()
            }
            .accessibilityIdentifier("loginButton")
        }
        .sheet(isPresented: $showHelp) {
            HelpView()
        }
    }
}
`

const settingsController = `final class SettingsViewController: UIViewController {
    override func viewDidLoad() {
        super.viewDidLoad()
        saveButton.accessibilityIdentifier = "saveButton"
    }

    func close() {
        navigationController?.pushViewController(HomeViewController(), animated: true)
    }
}
`

func kinds(chunks []chunk.Chunk) []string {
	out := make([]string, len(chunks))
	for i, ch := range chunks {
		out[i] = ch.Kind()
	}
	return out
}

func TestBuildFileSwiftUI(t *testing.T) {
	chunks := chunk.BuildFile(loginView, "App/LoginView.swift")

	// Block, its card, the file accessibility map, and the nav digest.
	require.Equal(t, []string{
		chunk.KindSwiftUIView,
		chunk.KindScreenCard,
		chunk.KindAccessibilityMap,
		chunk.KindNavigationSignals,
	}, kinds(chunks))

	block := chunks[0]
	assert.Contains(t, block.Text, `Button("Log In")`)
	assert.Equal(t, "App/LoginView.swift", block.Meta[chunk.MetaPath])
	assert.Equal(t, "LoginView", block.Meta[chunk.MetaScreen])
	assert.Equal(t, "emailTextField|loginButton", block.Meta[chunk.MetaAccessibilityIDs])
	assert.Equal(t, 2, block.Meta[chunk.MetaAccessibilityIDCount])
	assert.Equal(t, "Log In", block.Meta[chunk.MetaButtons])
	assert.Equal(t, 1, block.Meta[chunk.MetaButtonCount])

	card := chunks[1]
	assert.Equal(t, "LoginView", card.Meta[chunk.MetaScreen])
	var decoded struct {
		Type                 string   `json:"type"`
		UI                   string   `json:"ui"`
		Screen               string   `json:"screen"`
		Path                 string   `json:"path"`
		Buttons              []string `json:"buttons"`
		AccessibilityIDs     []string `json:"accessibility_ids"`
		HasNavigationSignals bool     `json:"has_navigation_signals"`
	}
	require.NoError(t, json.Unmarshal([]byte(card.Text), &decoded))
	assert.Equal(t, "SCREEN_CARD", decoded.Type)
	assert.Equal(t, "SwiftUI", decoded.UI)
	assert.Equal(t, []string{"Log In"}, decoded.Buttons)
	assert.Equal(t, []string{"emailTextField", "loginButton"}, decoded.AccessibilityIDs)
	assert.True(t, decoded.HasNavigationSignals)

	accMap := chunks[2]
	assert.True(t, strings.HasPrefix(accMap.Text, "ACCESSIBILITY_IDS\npath: App/LoginView.swift\n"))
	assert.Contains(t, accMap.Text, "emailTextField")

	nav := chunks[3]
	assert.True(t, strings.HasPrefix(nav.Text, "NAVIGATION_SIGNALS\n"))
	assert.Contains(t, nav.Text, ".sheet(isPresented: $showHelp) {")
}

func TestBuildFileUIKitCardHasNoButtons(t *testing.T) {
	chunks := chunk.BuildFile(settingsController, "App/SettingsViewController.swift")
	require.Equal(t, []string{
		chunk.KindUIKitController,
		chunk.KindScreenCard,
		chunk.KindAccessibilityMap,
		chunk.KindNavigationSignals,
	}, kinds(chunks))

	// Controller cards carry no buttons key at all.
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(chunks[1].Text), &raw))
	assert.NotContains(t, raw, "buttons")
	assert.Equal(t, "UIKit", raw["ui"])
	assert.Equal(t, []any{"saveButton"}, raw["accessibility_ids"])
}

func TestBuildFileViewCardKeepsEmptyButtonList(t *testing.T) {
	text := "struct StaticView: View {\n    var body: some View { Text(\"hi\") }\n}\n"
	chunks := chunk.BuildFile(text, "App/StaticView.swift")
	require.Len(t, chunks, 2)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(chunks[1].Text), &raw))
	assert.Equal(t, []any{}, raw["buttons"])
	assert.Equal(t, []any{}, raw["accessibility_ids"])
}

func TestBuildFileRawFallback(t *testing.T) {
	text := "enum Routes {\n    case home\n}\n"
	chunks := chunk.BuildFile(text, "App/Routes.swift")
	require.Len(t, chunks, 1)
	assert.Equal(t, chunk.KindRawFallback, chunks[0].Kind())
	assert.Equal(t, strings.TrimSpace(text), chunks[0].Text)
}

func TestBuildFileRawFallbackTruncated(t *testing.T) {
	text := strings.Repeat("let x = 1\n", 1000) // well over 4000 chars
	chunks := chunk.BuildFile(text, "App/Big.swift")
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0].Text, 4000)
}

func TestBuildFileNoFallbackWhenStructured(t *testing.T) {
	chunks := chunk.BuildFile(loginView, "App/LoginView.swift")
	for _, ch := range chunks {
		assert.NotEqual(t, chunk.KindRawFallback, ch.Kind())
	}
}

func TestBuildFileEmpty(t *testing.T) {
	assert.Empty(t, chunk.BuildFile("", "App/Empty.swift"))
	assert.Empty(t, chunk.BuildFile("   \n\t\n", "App/Blank.swift"))
}

func TestChunkIDDeterministic(t *testing.T) {
	a := chunk.BuildFile(loginView, "App/LoginView.swift")
	b := chunk.BuildFile(loginView, "App/LoginView.swift")
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID(), b[i].ID())
	}
}

func TestChunkIDChangesWithContentAndMetadata(t *testing.T) {
	base := chunk.Chunk{Text: "hello", Meta: map[string]any{chunk.MetaKind: chunk.KindRawFallback, chunk.MetaPath: "a.swift"}}
	sameBytes := chunk.Chunk{Text: "hello", Meta: map[string]any{chunk.MetaKind: chunk.KindRawFallback, chunk.MetaPath: "a.swift"}}
	otherText := chunk.Chunk{Text: "hello!", Meta: base.Meta}
	otherPath := chunk.Chunk{Text: "hello", Meta: map[string]any{chunk.MetaKind: chunk.KindRawFallback, chunk.MetaPath: "b.swift"}}

	assert.Equal(t, base.ID(), sameBytes.ID())
	assert.NotEqual(t, base.ID(), otherText.ID())
	assert.NotEqual(t, base.ID(), otherPath.ID())
	assert.Len(t, base.ID(), 40) // sha1 hex
}

func TestJoinAndSplitList(t *testing.T) {
	assert.Equal(t, "a|b", chunk.JoinList([]string{"a", "b"}, 10))
	assert.Equal(t, "a|b", chunk.JoinList([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "", chunk.JoinList(nil, 10))

	assert.Equal(t, []string{"a", "b"}, chunk.SplitList("a|b"))
	assert.Nil(t, chunk.SplitList(""))
	assert.Equal(t, []string{"a"}, chunk.SplitList("a|"))
}
