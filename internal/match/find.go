package match

import (
	"strings"
	"unicode"
)

// Match is the outcome of locating a target string inside a body of text.
// Found is false when no strategy produced a confident-enough result; the
// zero value is "not found".
type Match struct {
	Found bool
	Text  string
	Score float64
}

// sentenceDelimiters are the clause boundaries the sentence-level
// strategies split on. Newlines count as boundaries so the same splitter
// works on whole-document text.
const sentenceDelimiters = "。！？.!?；;,、\n\r"

// minSentenceRunes filters out fragments too short to score meaningfully.
const minSentenceRunes = 5

// FindMatch locates target inside body, degrading through a cascade of
// strategies until one succeeds:
//
//  1. exact substring containment (score 1.0)
//  2. whitespace-normalized containment (score 1.0, position mapped back)
//  3. best single sentence at or above threshold
//  4. for long targets, 2–3 consecutive sentences
//  5. for long targets, a sliding window at several size factors
//  6. keyword-density fallback
//
// The first successful strategy wins. Failure returns the zero Match: the
// caller decides whether that is an error or an expected miss.
func (e *Engine) FindMatch(target, body string, threshold float64) Match {
	target = strings.TrimSpace(target)
	if target == "" || body == "" {
		return Match{}
	}

	// 1. Exact containment.
	if strings.Contains(body, target) {
		return Match{Found: true, Text: target, Score: 1.0}
	}

	// 2. Containment after whitespace normalization, mapped back into the
	// raw body so the writer gets a real substring.
	if text, ok := normalizedContainment(target, body); ok {
		return Match{Found: true, Text: text, Score: 1.0}
	}

	sentences := SplitSentences(body)

	// 3. Best single sentence.
	best := Match{}
	for _, sentence := range sentences {
		if len([]rune(sentence)) < minSentenceRunes {
			continue
		}
		if s := e.Similarity(target, sentence); s >= threshold && s > best.Score {
			best = Match{Found: true, Text: sentence, Score: s}
		}
	}

	// 4. Multi-sentence targets: try joining 2 and 3 consecutive sentences.
	if !best.Found && len([]rune(target)) > 30 {
		best = e.combinedSentences(target, sentences, threshold)
	}

	// 5. Sliding window across the raw body.
	if !best.Found && len([]rune(target)) > 20 {
		best = e.slidingWindow(target, body, threshold)
	}

	// 6. Keyword fallback.
	if !best.Found {
		best = e.keywordMatch(target, body, threshold)
	}

	return best
}

// SplitSentences splits text on sentence and clause delimiters, dropping
// empty fragments. Fragments keep their surrounding whitespace trimmed.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(sentenceDelimiters, r)
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizedContainment checks whether target occurs in body once both are
// stripped of whitespace, and maps the normalized hit back to a substring
// of the raw body.
func normalizedContainment(target, body string) (string, bool) {
	normTarget := stripSpace([]rune(target))
	if len(normTarget) == 0 {
		return "", false
	}

	bodyRunes := []rune(body)
	// normBody mirrors the whitespace-stripped body rune by rune; origIdx
	// maps each stripped rune back to its index in bodyRunes.
	normBody := make([]rune, 0, len(bodyRunes))
	origIdx := make([]int, 0, len(bodyRunes))
	for i, r := range bodyRunes {
		if unicode.IsSpace(r) {
			continue
		}
		normBody = append(normBody, r)
		origIdx = append(origIdx, i)
	}

	start := indexRunes(normBody, normTarget)
	if start < 0 {
		return "", false
	}
	end := start + len(normTarget) - 1
	return string(bodyRunes[origIdx[start] : origIdx[end]+1]), true
}

// stripSpace removes whitespace runes.
func stripSpace(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}

// combinedSentences tries windows of 2 and 3 consecutive sentences for
// targets that were themselves composed of several clauses.
func (e *Engine) combinedSentences(target string, sentences []string, threshold float64) Match {
	best := Match{}
	for i := 0; i+1 < len(sentences); i++ {
		pair := strings.TrimSpace(sentences[i] + " " + sentences[i+1])
		if len([]rune(pair)) >= 10 {
			if s := e.Similarity(target, pair); s >= threshold && s > best.Score {
				best = Match{Found: true, Text: pair, Score: s}
			}
		}
		if i+2 < len(sentences) {
			triple := strings.TrimSpace(pair + " " + sentences[i+2])
			if len([]rune(triple)) >= 15 {
				if s := e.Similarity(target, triple); s >= threshold && s > best.Score {
					best = Match{Found: true, Text: triple, Score: s}
				}
			}
		}
	}
	return best
}

// windowFactors are the window-size multipliers tried in order. The scan
// stops at the first factor that produces any hit.
var windowFactors = []float64{1.0, 0.8, 0.6, 1.2}

// slidingWindow slides fixed-size windows across the body, comparing each
// against the target. The base window tracks the target length so the
// comparison is between similarly sized texts.
func (e *Engine) slidingWindow(target, body string, threshold float64) Match {
	targetLen := len([]rune(target))
	base := targetLen - 10
	if half := targetLen / 2; half > base {
		base = half
	}
	if base < 30 {
		base = 30
	}

	bodyRunes := []rune(body)
	best := Match{}
	for _, factor := range windowFactors {
		size := int(float64(base) * factor)
		if size < 1 || size > len(bodyRunes) {
			continue
		}
		for i := 0; i+size <= len(bodyRunes); i++ {
			window := string(bodyRunes[i : i+size])
			if s := e.Similarity(target, window); s >= threshold && s > best.Score {
				best = Match{Found: true, Text: window, Score: s}
			}
		}
		if best.Found {
			break
		}
	}
	return best
}

// indexRunes returns the index of the first occurrence of needle in
// haystack, or -1.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
