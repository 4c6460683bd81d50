package swiftscan

import (
	"regexp"
	"strings"
)

// Block is the textual extent of one recognized top-level construct, from
// its declaration line through the matching closing brace.
type Block struct {
	// Name is the declared type name.
	Name string
	// Text is the trimmed declaration-to-closing-brace span.
	Text string
}

// ViewBlocks returns every SwiftUI View declaration in text.
func ViewBlocks(text string) []Block {
	return extractBlocks(text, viewDeclRE, 2)
}

// ControllerBlocks returns every UIViewController subclass declaration in text.
func ControllerBlocks(text string) []Block {
	return extractBlocks(text, controllerDeclRE, 3)
}

// extractBlocks finds each declaration match, then brace-matches forward
// from the first opening brace at or after the match end. A match with no
// opening brace anywhere after it is skipped.
func extractBlocks(text string, declRE *regexp.Regexp, nameGroup int) []Block {
	var blocks []Block
	for _, m := range declRE.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2*nameGroup]:m[2*nameGroup+1]]
		open := strings.Index(text[m[1]-1:], "{")
		if open < 0 {
			continue
		}
		open += m[1] - 1
		end := matchingBrace(text, open)
		blocks = append(blocks, Block{
			Name: name,
			Text: strings.TrimSpace(text[m[0] : end+1]),
		})
	}
	return blocks
}

// matchingBrace returns the index of the brace that closes the one at open.
// Braces inside strings and comments are counted like any other. If depth
// never returns to zero the block runs to end of text; that is a documented
// degenerate case, not an error.
func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text) - 1
}
