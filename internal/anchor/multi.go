package anchor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

// Relaxations applied during multi-paragraph scans. Individual lines match
// at a lower bar than the caller's threshold, but the accepted window's
// average must stay close to it.
const (
	lineThresholdFactor    = 0.7
	averageThresholdFactor = 0.8
	// strictMinLineRatio is the fraction of snippet lines that must match
	// contiguously for a partial strict-scan success.
	strictMinLineRatio = 0.5
	// flexibleMinLineRatio is the fraction of snippet lines that must
	// match anywhere in the document for the flexible scan to accept.
	flexibleMinLineRatio = 0.6
)

// anchorMulti resolves a snippet whose embedded newlines say it was built
// from several original paragraphs. Strategies cascade: treat the newlines
// as an artifact and retry as one string; scan for a contiguous paragraph
// window; finally allow the lines to match scattered paragraphs.
func (e *Engine) anchorMulti(paragraphs []types.ParagraphRef, snippet, comment string, threshold float64, result *types.AnchorResult) {
	lines := splitSnippetLines(snippet)
	if len(lines) == 0 {
		result.Unmatched = append(result.Unmatched, types.Unmatched{
			Snippet: snippet,
			Reason:  "snippet contains no usable lines",
		})
		return
	}

	// a. The newlines may be wrapping noise: retry the recombined text as
	// a single-paragraph search.
	combined := strings.Join(lines, " ")
	for _, ref := range paragraphs {
		if m := e.matcher.FindMatch(combined, ref.Paragraph.Text, threshold); m.Found {
			e.logf("anchored multi-line snippet %q recombined in paragraph %d (score %.2f)", clip(snippet), ref.Index, m.Score)
			result.Placements = append(result.Placements, types.Placement{
				Snippet:    snippet,
				Comment:    comment,
				Paragraphs: []types.ParagraphRef{ref},
				Matched:    []string{m.Text},
				Score:      m.Score,
			})
			return
		}
	}

	// b. Strict contiguous scan over candidate start positions.
	if p, ok := e.strictScan(paragraphs, lines, threshold); ok {
		p.Snippet = snippet
		p.Comment = comment
		p.RangeNote = rangeNote(p.Paragraphs)
		e.logf("anchored multi-line snippet %q across paragraphs %d-%d (score %.2f)",
			clip(snippet), p.Paragraphs[0].Index, p.Paragraphs[len(p.Paragraphs)-1].Index, p.Score)
		result.Placements = append(result.Placements, p)
		return
	}

	// c. Flexible scan: each line independently, anywhere.
	if p, ok := e.flexibleScan(paragraphs, lines, threshold); ok {
		p.Snippet = snippet
		p.Comment = comment
		p.RangeNote = rangeNote(p.Paragraphs)
		e.logf("anchored multi-line snippet %q across %d scattered paragraphs (score %.2f)",
			clip(snippet), len(p.Paragraphs), p.Score)
		result.Placements = append(result.Placements, p)
		return
	}

	result.Unmatched = append(result.Unmatched, types.Unmatched{
		Snippet: snippet,
		Reason:  fmt.Sprintf("no contiguous or scattered paragraph span matched at threshold %.2f", threshold),
	})
}

// strictScan tries to align snippet line i with paragraph start+i for every
// candidate start. Lines must match contiguously from the start; a full
// alignment wins outright, a partial one needs at least half the lines and
// a strong average. The best-scoring window across all starts is kept.
func (e *Engine) strictScan(paragraphs []types.ParagraphRef, lines []string, threshold float64) (types.Placement, bool) {
	lineThreshold := threshold * lineThresholdFactor
	averageThreshold := threshold * averageThresholdFactor

	best := types.Placement{}
	found := false

	for start := range paragraphs {
		var (
			refs    []types.ParagraphRef
			matches []string
			total   float64
		)
		for i, line := range lines {
			pi := start + i
			if pi >= len(paragraphs) {
				break
			}
			m := e.matcher.FindMatch(line, paragraphs[pi].Paragraph.Text, lineThreshold)
			if !m.Found {
				break
			}
			refs = append(refs, paragraphs[pi])
			matches = append(matches, m.Text)
			total += m.Score
		}
		if len(refs) == 0 {
			continue
		}

		avg := total / float64(len(refs))
		full := len(refs) == len(lines)
		partial := float64(len(refs))/float64(len(lines)) >= strictMinLineRatio && avg >= averageThreshold
		if !full && !partial {
			continue
		}
		if !found || avg > best.Score {
			best = types.Placement{Paragraphs: refs, Matched: matches, Score: avg}
			found = true
		}
	}
	return best, found
}

// flexibleScan matches each line against every paragraph independently and
// keeps each line's best hit wherever it lies. Accepts when enough lines
// resolved and their average similarity holds up; the placement covers the
// matched paragraphs in document order.
func (e *Engine) flexibleScan(paragraphs []types.ParagraphRef, lines []string, threshold float64) (types.Placement, bool) {
	lineThreshold := threshold * lineThresholdFactor
	averageThreshold := threshold * averageThresholdFactor

	type hit struct {
		ref   types.ParagraphRef
		text  string
		score float64
	}
	var hits []hit

	for _, line := range lines {
		var best *hit
		for _, ref := range paragraphs {
			m := e.matcher.FindMatch(line, ref.Paragraph.Text, lineThreshold)
			if m.Found && (best == nil || m.Score > best.score) {
				best = &hit{ref: ref, text: m.Text, score: m.Score}
			}
		}
		if best != nil {
			hits = append(hits, *best)
		}
	}

	if float64(len(hits))/float64(len(lines)) < flexibleMinLineRatio {
		return types.Placement{}, false
	}
	total := 0.0
	for _, h := range hits {
		total += h.score
	}
	avg := total / float64(len(hits))
	if avg < averageThreshold {
		return types.Placement{}, false
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].ref.Index < hits[j].ref.Index })

	p := types.Placement{Score: avg}
	for _, h := range hits {
		// Two lines may resolve to the same paragraph; keep one entry per
		// paragraph so the writer does not double-anchor.
		if n := len(p.Paragraphs); n > 0 && p.Paragraphs[n-1].Index == h.ref.Index {
			continue
		}
		p.Paragraphs = append(p.Paragraphs, h.ref)
		p.Matched = append(p.Matched, h.text)
	}
	return p, true
}

// splitSnippetLines breaks a multi-paragraph snippet into its non-empty
// lines.
func splitSnippetLines(snippet string) []string {
	var lines []string
	for _, line := range strings.Split(snippet, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// rangeNote renders the human-readable span description appended to the
// payload when a writer degrades a multi-paragraph placement to
// first-paragraph attachment. Paragraph numbers are 1-based.
func rangeNote(refs []types.ParagraphRef) string {
	if len(refs) < 2 {
		return ""
	}
	return fmt.Sprintf("（批注范围：第%d段至第%d段）", refs[0].Index+1, refs[len(refs)-1].Index+1)
}
