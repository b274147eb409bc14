package match

import (
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultThreshold is the similarity required to accept a fuzzy match
	// when the caller does not say otherwise.
	DefaultThreshold = 0.8

	// normCacheSize bounds the per-engine cache of normalized strings. The
	// sliding-window search normalizes the same target many thousands of
	// times; caching turns that into one normalization per distinct string.
	normCacheSize = 4096
)

// Engine computes text similarity and locates approximate matches. An
// Engine owns only a memoization cache and is safe for concurrent use.
type Engine struct {
	norms *lru.Cache[string, string]
}

// NewEngine creates a similarity engine.
func NewEngine() *Engine {
	cache, _ := lru.New[string, string](normCacheSize)
	return &Engine{norms: cache}
}

// Normalize returns s in NFC form with all whitespace removed. Comparing
// normalized forms makes the similarity score insensitive to line wrapping,
// OCR spacing noise, and composed/decomposed unicode differences.
func Normalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (e *Engine) normalize(s string) string {
	if cached, ok := e.norms.Get(s); ok {
		return cached
	}
	n := Normalize(s)
	e.norms.Add(s, n)
	return n
}

// Similarity returns a [0,1] similarity between two strings: the
// Ratcliff/Obershelp matching ratio 2*M/T over their normalized forms,
// where M is the total length of matching blocks and T the combined
// length. It is symmetric, and 1.0 for equal non-empty inputs.
func Similarity(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

// Similarity is the cached-engine variant of the package-level function.
func (e *Engine) Similarity(a, b string) float64 {
	return ratio(e.normalize(a), e.normalize(b))
}

// ratio computes the Ratcliff/Obershelp matching ratio over runes.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingTotal(ra, rb)
	return 2 * float64(matched) / float64(total)
}

// matchingTotal sums the lengths of the matching blocks found by
// recursively locating the longest common substring and matching the
// pieces to its left and right.
func matchingTotal(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingTotal(a[:ai], b[:bi])
	total += matchingTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common contiguous run between a and
// b, returning its start in each and its length. Ties resolve to the
// earliest position in a, then in b, which keeps results deterministic.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	// Positions of each rune in b, so the scan over a only visits
	// plausible alignments.
	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	// lengths[j] is the length of the common run ending at a[i-1], b[j-1].
	lengths := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(lengths))
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return ai, bi, size
}
