package match

import (
	"math"
	"strings"
	"unicode"
)

// minKeywordRatio is the fraction of target keywords that must appear
// somewhere in the body for the keyword fallback to accept.
const minKeywordRatio = 0.7

// stopWords are filtered out of keyword extraction. Bilingual because the
// documents this tool sees mix Chinese body text with English terms.
var stopWords = map[string]struct{}{
	"的": {}, "了": {}, "和": {}, "是": {}, "在": {}, "我": {}, "有": {},
	"这": {}, "个": {}, "那": {}, "你": {}, "会": {}, "说": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
}

// tokenize lowercases text and splits it into runs of letters, digits and
// underscores. Unspaced CJK text yields long tokens, which is fine: they
// behave as high-precision keywords.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// extractKeywords returns the target's tokens minus stop words and
// single-rune fragments.
func extractKeywords(text string) []string {
	var keys []string
	for _, w := range tokenize(text) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 1 {
			continue
		}
		keys = append(keys, w)
	}
	return keys
}

// keywordMatch is the last-resort strategy: accept when at least 70% of the
// target's keywords occur in the body, and report the body fragment that
// scores best on keyword density, in-order appearance and positional
// clustering. The reported similarity is the keyword ratio, floored at the
// threshold, so downstream averaging still treats the hit as acceptable.
func (e *Engine) keywordMatch(target, body string, threshold float64) Match {
	keys := extractKeywords(target)
	if len(keys) == 0 {
		return Match{}
	}

	bodyWords := make(map[string]struct{})
	for _, w := range tokenize(body) {
		bodyWords[w] = struct{}{}
	}

	matched := 0
	for _, k := range keys {
		if _, ok := bodyWords[k]; ok {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(keys))
	if ratio < minKeywordRatio {
		return Match{}
	}

	text := bestKeywordFragment(body, keys)
	score := ratio
	if threshold > score {
		score = threshold
	}
	return Match{Found: true, Text: text, Score: score}
}

// bestKeywordFragment picks the sentence (or pair of adjacent sentences)
// whose keyword placement scores highest. Weighting: density 50%, in-order
// appearance 30%, positional clustering 20%.
func bestKeywordFragment(body string, keys []string) string {
	sentences := SplitSentences(body)

	best := ""
	bestScore := -1.0
	consider := func(fragment string) {
		if len([]rune(fragment)) < minSentenceRunes {
			return
		}
		if s := keywordScore(fragment, keys); s > bestScore {
			bestScore = s
			best = fragment
		}
	}

	for i, sentence := range sentences {
		consider(sentence)
		if i+1 < len(sentences) {
			consider(strings.TrimSpace(sentence + " " + sentences[i+1]))
		}
	}

	if best == "" {
		// No scorable sentence at all; fall back to the body's head so the
		// caller still gets a concrete anchor.
		runes := []rune(body)
		if len(runes) > 100 {
			runes = runes[:100]
		}
		return strings.TrimSpace(string(runes))
	}
	return best
}

// keywordScore rates a candidate fragment for the given keywords.
func keywordScore(fragment string, keys []string) float64 {
	words := tokenize(fragment)
	if len(words) == 0 {
		return 0
	}

	// First occurrence of each matched keyword, iterated in target order.
	positions := make([]int, 0, len(keys))
	matched := 0
	for _, k := range keys {
		for i, w := range words {
			if w == k {
				positions = append(positions, i)
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}

	density := float64(matched) / float64(len(words))

	order := 1.0
	if len(positions) > 1 {
		inOrder := 0
		for i := 1; i < len(positions); i++ {
			if positions[i] >= positions[i-1] {
				inOrder++
			}
		}
		order = float64(inOrder) / float64(len(positions)-1)
	}

	clustering := 1.0
	if len(positions) > 1 {
		mean := 0.0
		for _, p := range positions {
			mean += float64(p)
		}
		mean /= float64(len(positions))
		variance := 0.0
		for _, p := range positions {
			d := float64(p) - mean
			variance += d * d
		}
		variance /= float64(len(positions))
		// Low variance relative to the fragment length means the keywords
		// cluster together instead of being scattered.
		clustering = 1.0 / (1.0 + math.Sqrt(variance)/float64(len(words)))
	}

	return 0.5*density + 0.3*order + 0.2*clustering
}
