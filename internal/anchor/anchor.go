package anchor

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/czfsss/word-tool/internal/match"
	"github.com/czfsss/word-tool/pkg/types"
)

// Threshold bounds. An out-of-range or unset threshold falls back to the
// default rather than failing the whole request.
const (
	MinThreshold     = 0.1
	MaxThreshold     = 1.0
	DefaultThreshold = match.DefaultThreshold
)

// Engine anchors approximate text snippets onto document paragraphs. It
// holds no state between calls beyond the similarity engine's
// normalization cache and is safe for concurrent use on independent
// documents.
type Engine struct {
	matcher *match.Engine
	logger  *log.Logger // optional; nil means silent
}

// New creates an anchoring engine. logger may be nil; the engine never
// configures process-wide logging itself.
func New(logger *log.Logger) *Engine {
	return &Engine{matcher: match.NewEngine(), logger: logger}
}

// ClampThreshold normalizes a caller-supplied similarity threshold: zero
// means default, anything outside [0.1, 1.0] is pulled to the nearest
// bound.
func ClampThreshold(t float64) float64 {
	if t == 0 {
		return DefaultThreshold
	}
	if t < MinThreshold {
		return MinThreshold
	}
	if t > MaxThreshold {
		return MaxThreshold
	}
	return t
}

// Anchor locates every comment snippet in the document and returns the
// placements plus the snippets that could not be anchored at or above the
// threshold. A snippet that misses is reported, never guessed: forcing an
// annotation onto an unrelated location would be worse than skipping it.
func (e *Engine) Anchor(doc *types.Document, comments map[string]string, threshold float64) (*types.AnchorResult, error) {
	if doc == nil || len(doc.Blocks) == 0 {
		return nil, types.ErrEmptyDocument
	}
	if len(comments) == 0 {
		return nil, types.ErrNoValidComments
	}
	threshold = ClampThreshold(threshold)

	// Map iteration order is random; decide ties deterministically by
	// processing longer (more specific) snippets first, then
	// lexicographically.
	snippets := make([]string, 0, len(comments))
	for s := range comments {
		snippets = append(snippets, s)
	}
	sort.Slice(snippets, func(i, j int) bool {
		ri, rj := len([]rune(snippets[i])), len([]rune(snippets[j]))
		if ri != rj {
			return ri > rj
		}
		return snippets[i] < snippets[j]
	})

	var single, multi []string
	for _, s := range snippets {
		if strings.Contains(s, "\n") {
			multi = append(multi, s)
		} else {
			single = append(single, s)
		}
	}

	paragraphs := doc.NonEmptyParagraphs()
	result := &types.AnchorResult{}

	matched := e.anchorSingles(paragraphs, single, comments, threshold, result)
	for _, s := range single {
		if !matched[s] {
			result.Unmatched = append(result.Unmatched, types.Unmatched{
				Snippet: s,
				Reason:  fmt.Sprintf("no paragraph matched at threshold %.2f", threshold),
			})
		}
	}

	for _, s := range multi {
		e.anchorMulti(paragraphs, s, comments[s], threshold, result)
	}

	return result, nil
}

// anchorSingles runs the single-paragraph pass: the outer loop is
// paragraph order, so the first paragraph that satisfies a snippet wins,
// and a snippet anchors at most once. One paragraph may satisfy several
// snippets.
func (e *Engine) anchorSingles(paragraphs []types.ParagraphRef, snippets []string, comments map[string]string, threshold float64, result *types.AnchorResult) map[string]bool {
	matched := make(map[string]bool, len(snippets))
	for _, ref := range paragraphs {
		text := ref.Paragraph.Text
		for _, snippet := range snippets {
			if matched[snippet] {
				continue
			}
			m := e.matcher.FindMatch(snippet, text, threshold)
			if !m.Found {
				continue
			}
			matched[snippet] = true
			e.logf("anchored %q in paragraph %d (score %.2f)", clip(snippet), ref.Index, m.Score)
			result.Placements = append(result.Placements, types.Placement{
				Snippet:    snippet,
				Comment:    comments[snippet],
				Paragraphs: []types.ParagraphRef{ref},
				Matched:    []string{m.Text},
				Score:      m.Score,
			})
		}
	}
	return matched
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// clip shortens a string for log lines.
func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= 30 {
		return s
	}
	return string(runes[:30]) + "..."
}
