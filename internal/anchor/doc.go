// Package anchor locates externally supplied comment snippets in a
// document and maps each onto the minimal set of paragraphs (and exact
// substrings) that should receive the annotation.
//
// Snippets are approximate quotations: whitespace drift, paraphrase, OCR
// noise and multi-paragraph spans are all expected. The engine leans on
// the match package's strategy cascade and adds paragraph-level search:
//
//	eng := anchor.New(nil)
//	res, err := eng.Anchor(doc, comments, 0.8)
//	// res.Placements: where each comment goes
//	// res.Unmatched:  snippets skipped, with reasons
//
// # Determinism
//
// Map iteration order never leaks into results: snippets are processed
// longest-first (ties lexicographic), so when two keys could claim the
// same paragraph the more specific one wins, every run.
//
// # Single vs Multi-Paragraph
//
// Snippets without embedded newlines anchor within one paragraph; the
// outer loop is paragraph order, so a snippet takes the first paragraph
// that satisfies it and anchors at most once. Snippets with newlines were
// composed from several original paragraphs and cascade through three
// strategies: recombined single-paragraph retry, strict contiguous window
// alignment, and a flexible scattered scan. Multi-paragraph placements
// carry a RangeNote so a writer without range-annotation support can
// degrade to first-paragraph attachment without silently dropping the
// span information.
//
// # Failure Semantics
//
// A snippet that clears no strategy is recorded in Unmatched with a
// reason and processing continues; only an empty document or an empty
// comment map aborts the pass. This is part of the return contract, not a
// logging concern.
package anchor
