package swiftscan

import (
	"sort"
	"strings"
)

// AccessibilityIDs returns the sorted, deduplicated identifier literals for
// one paradigm's marker form.
func AccessibilityIDs(text string, p Paradigm) []string {
	switch p {
	case UIKit:
		return captureSet(uiKitAccessibilityIDRE.FindAllStringSubmatch(text, -1))
	default:
		return captureSet(swiftUIAccessibilityIDRE.FindAllStringSubmatch(text, -1))
	}
}

// AllAccessibilityIDs unions both marker forms across the whole text.
func AllAccessibilityIDs(text string) []string {
	matches := swiftUIAccessibilityIDRE.FindAllStringSubmatch(text, -1)
	matches = append(matches, uiKitAccessibilityIDRE.FindAllStringSubmatch(text, -1)...)
	return captureSet(matches)
}

// AccessibilityIDCount counts marker occurrences (not deduplicated) for the
// given paradigm. The audit predicate wants raw occurrence counts.
func AccessibilityIDCount(text string, p Paradigm) int {
	switch p {
	case UIKit:
		return len(uiKitAccessibilityIDRE.FindAllString(text, -1))
	default:
		return len(swiftUIAccessibilityIDRE.FindAllString(text, -1))
	}
}

// ButtonLabels returns the sorted, deduplicated labels of Button("...")
// triggers in text.
func ButtonLabels(text string) []string {
	return captureSet(buttonLabelRE.FindAllStringSubmatch(text, -1))
}

// InteractiveCount counts interactive-control keyword occurrences from the
// paradigm's fixed vocabulary.
func InteractiveCount(text string, p Paradigm) int {
	switch p {
	case UIKit:
		return len(uiKitInteractiveRE.FindAllString(text, -1))
	default:
		return len(swiftUIInteractiveRE.FindAllString(text, -1))
	}
}

// NavigationHits counts how many of the navigation-trigger patterns match
// at least once in text. The result is a pattern count (0..7), not a match
// count.
func NavigationHits(text string) int {
	hits := 0
	for _, p := range navPatterns {
		if p.MatchString(text) {
			hits++
		}
	}
	return hits
}

// NavigationLines returns up to max trimmed lines of text that match any
// navigation-trigger pattern, in file order.
func NavigationLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		for _, p := range navPatterns {
			if p.MatchString(line) {
				lines = append(lines, strings.TrimSpace(line))
				break
			}
		}
		if len(lines) >= max {
			break
		}
	}
	return lines
}

// captureSet collects the first capture group of each match into a sorted,
// deduplicated slice.
func captureSet(matches [][]string) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		if len(m) < 2 || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	sort.Strings(out)
	return out
}
