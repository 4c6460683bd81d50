package generator

import (
	"fmt"
	"sort"
	"strings"
)

// buildContextSection renders an AppContext into prompt text. A nil or
// empty context renders to "".
func buildContextSection(appCtx *AppContext) string {
	if appCtx == nil {
		return ""
	}

	var sections []string

	if appCtx.AppName != "" {
		sections = append(sections, "App Name: "+appCtx.AppName)
	}
	if len(appCtx.Screens) > 0 {
		sections = append(sections, "Available Screens: "+strings.Join(appCtx.Screens, ", "))
	}
	if len(appCtx.UIElements) > 0 {
		screens := make([]string, 0, len(appCtx.UIElements))
		for screen := range appCtx.UIElements {
			screens = append(screens, screen)
		}
		sort.Strings(screens)
		lines := make([]string, 0, len(screens))
		for _, screen := range screens {
			lines = append(lines, fmt.Sprintf("  %s: %s", screen, strings.Join(appCtx.UIElements[screen], ", ")))
		}
		sections = append(sections, "UI Elements:\n"+strings.Join(lines, "\n"))
	}
	if len(appCtx.AccessibilityIDs) > 0 {
		sections = append(sections, "Accessibility IDs: "+strings.Join(appCtx.AccessibilityIDs, ", "))
	}
	if len(appCtx.CustomTypes) > 0 {
		sections = append(sections, "Custom Types: "+strings.Join(appCtx.CustomTypes, ", "))
	}
	if appCtx.SourceCodeSnippets != "" {
		// Raw Swift without markdown fences; models sometimes echo fences back.
		sections = append(sections, "Relevant Code:\n"+appCtx.SourceCodeSnippets)
	}

	if len(sections) == 0 {
		return ""
	}
	return "App Context:\n" + strings.Join(sections, "\n\n")
}

// buildClassNameSection renders the class-name instruction.
func buildClassNameSection(className string) string {
	if className != "" {
		return "Test Class Name: " + className
	}
	return "Generate an appropriate test class name based on the test description."
}

// buildUserMessage assembles the full user message for one request.
// testType must already be normalized.
func buildUserMessage(req Request, testType string) string {
	kind := "XCTest unit test"
	if testType == TestTypeUI {
		kind = "XCUITest UI test"
	}

	return fmt.Sprintf(`Generate a Swift %s for the following:

Test Description: %s

%s

%s

Include comments: %t

Output ONLY Swift code.
`, kind, req.TestDescription, buildContextSection(req.AppContext), buildClassNameSection(req.ClassName), req.WantComments())
}
