package swiftscan

import (
	"regexp"
	"strings"
)

// Paradigm identifies which UI framework a block belongs to.
type Paradigm string

const (
	// SwiftUI marks struct-based View declarations.
	SwiftUI Paradigm = "SwiftUI"
	// UIKit marks class-based UIViewController declarations.
	UIKit Paradigm = "UIKit"
)

// SwiftSuffix is the source file extension this package indexes.
const SwiftSuffix = ".swift"

// excludedDirs are vendor, build-output, and project-container directories
// that never hold app source worth indexing.
var excludedDirs = map[string]bool{
	".git":         true,
	"Pods":         true,
	"Carthage":     true,
	"DerivedData":  true,
	".build":       true,
	".swiftpm":     true,
	"Build":        true,
	".xcodeproj":   true,
	".xcworkspace": true,
}

// ExcludedDir reports whether a directory name is pruned from scans.
// Dot-prefixed names are always pruned.
func ExcludedDir(name string) bool {
	return excludedDirs[name] || strings.HasPrefix(name, ".")
}

// Declaration anchors. The name capture group differs between the two:
// group 2 for views, group 3 for controllers (group 2 is the optional
// "final" modifier).
var (
	viewDeclRE = regexp.MustCompile(
		`(?m)^\s*(public|internal|private|fileprivate|open)?\s*struct\s+([A-Za-z_]\w*)\s*:\s*View\s*\{`)
	controllerDeclRE = regexp.MustCompile(
		`(?m)^\s*(public|internal|private|fileprivate|open)?\s*(final\s+)?class\s+([A-Za-z_]\w*)\s*:\s*([^{\n]*\bUIViewController\b[^{\n]*)\s*\{`)
)

// Accessibility identifier forms: the SwiftUI modifier call and the UIKit
// property assignment. Both capture the quoted identifier literal.
var (
	swiftUIAccessibilityIDRE = regexp.MustCompile(`\.accessibilityIdentifier\(\s*"([^"]+)"\s*\)`)
	uiKitAccessibilityIDRE   = regexp.MustCompile(`\.accessibilityIdentifier\s*=\s*"([^"]+)"`)
)

// buttonLabelRE matches the labeled SwiftUI trigger idiom Button("..").
// Trailing-closure and label-builder forms are deliberately not counted;
// widening this heuristic is an open question left unresolved upstream.
var buttonLabelRE = regexp.MustCompile(`Button\(\s*"([^"]+)"\s*\)`)

// navPatterns are the fixed set of "this changes which screen is visible"
// signals, covering UIKit push/present and SwiftUI navigation containers.
var navPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bnavigationController\?\.\s*pushViewController\s*\(`),
	regexp.MustCompile(`\bpushViewController\s*\(`),
	regexp.MustCompile(`\bpresent\s*\(`),
	regexp.MustCompile(`\bNavigationStack\b`),
	regexp.MustCompile(`\bnavigationDestination\s*\(`),
	regexp.MustCompile(`\bsheet\s*\(`),
	regexp.MustCompile(`\bfullScreenCover\s*\(`),
}

// Interactive-control vocabularies used by the accessibility audit.
var (
	swiftUIInteractiveRE = regexp.MustCompile(`\b(Button|TextField|SecureField|Toggle|Picker)\b`)
	uiKitInteractiveRE   = regexp.MustCompile(`\b(UIButton|UITextField|UISwitch|UISegmentedControl|UITableView|UICollectionView)\b`)
)
