// Package swiftscan walks Swift source trees and recovers screen-level
// structure from raw text: SwiftUI View blocks, UIKit view controller
// blocks, accessibility identifiers, interactive controls, and navigation
// signals.
//
// Extraction is regex plus brace matching, not a parser. Braces inside
// string literals and comments are counted like any other brace, so block
// extents are best-effort. That is acceptable here: the output feeds a
// retrieval index, and a slightly long or short block still retrieves.
// A grammar-based parser could replace this package behind the same
// (name, block text) interface without touching downstream consumers.
package swiftscan
