package types

// Placement is the result of anchoring one comment onto the document: the
// paragraph(s) that carry the annotation and the exact substring matched in
// each, so the write layer can isolate the target run(s).
type Placement struct {
	// Snippet is the original lookup key supplied by the caller.
	Snippet string
	// Comment is the annotation payload to attach.
	Comment string
	// Paragraphs are the matched paragraphs in document order. A
	// single-paragraph placement has exactly one entry.
	Paragraphs []ParagraphRef
	// Matched holds the matched substring per paragraph, parallel to
	// Paragraphs.
	Matched []string
	// Score is the achieved similarity in [0,1]; 1.0 for exact matches.
	Score float64
	// RangeNote is a human-readable description of the covered span for
	// multi-paragraph placements (e.g. "批注范围：第3-5段"). Writers that
	// cannot express range annotations append it to the payload when
	// degrading to first-paragraph attachment.
	RangeNote string
}

// Spans reports whether the placement covers more than one paragraph.
func (p *Placement) Spans() bool {
	return len(p.Paragraphs) > 1
}

// Unmatched records a comment that could not be anchored anywhere at or
// above the requested threshold, with the reason it was skipped. Skipping
// is an expected outcome, never an error: a comment is dropped with a
// report rather than forced onto an unrelated location.
type Unmatched struct {
	Snippet string
	Reason  string
}

// AnchorResult is the complete outcome of one anchoring pass.
type AnchorResult struct {
	Placements []Placement
	Unmatched  []Unmatched
}

// ApplyStats summarizes what the write layer did with a set of placements.
type ApplyStats struct {
	// Applied counts placements written to the document, including
	// degraded ones.
	Applied int
	// Degraded counts multi-paragraph placements the writer had to fall
	// back to first-paragraph attachment for, and placements written as
	// inline markers because native comments were unavailable.
	Degraded int
	// Failed counts placements the writer could not express at all.
	Failed int
}
