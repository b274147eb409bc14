// Package match computes normalized text similarity and locates approximate
// matches of a target string inside a body of text.
//
// # Similarity
//
// Similarity scores two strings in [0,1] using the Ratcliff/Obershelp
// matching ratio (2*M/T over matching blocks) computed on whitespace-free
// NFC-normalized rune sequences. The score is symmetric and insensitive to
// line wrapping and spacing noise:
//
//	match.Similarity("合同条款", "合同 条款") // 1.0
//
// # Match Location
//
// Engine.FindMatch degrades through a fixed strategy cascade (exact
// containment, whitespace-normalized containment, sentence-level scoring,
// consecutive-sentence combination, sliding windows, keyword density) and
// stops at the first strategy that clears the caller's threshold. This
// trades precision for recall: near-duplicate, reordered or truncated
// snippets still resolve, and the caller tunes the threshold to taste.
//
//	e := match.NewEngine()
//	m := e.FindMatch(snippet, paragraphText, 0.8)
//	if m.Found {
//	    attach(m.Text, m.Score)
//	}
//
// A failed cascade returns the zero Match rather than an error: not finding
// a fuzzy match is an expected outcome.
//
// An Engine carries an LRU cache of normalized strings (the sliding-window
// scan re-normalizes the same target thousands of times) and is safe for
// concurrent use.
package match
