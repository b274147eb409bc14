package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/czfsss/word-tool/pkg/types"
)

// Style names that mark a paragraph as a heading regardless of content.
var styleTitleMarkers = []string{"heading", "title", "chapter", "header", "标题", "titulo"}

// Caption markers: short paragraphs containing these are figure/table
// captions or notes, not headings.
var captionMarkers = []string{"图", "表", "注："}

// Contract-specific heading patterns.
var contractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^第[一二三四五六七八九十百千万\d]+条`),
	regexp.MustCompile(`^甲方[：:]`),
	regexp.MustCompile(`^乙方[：:]`),
	regexp.MustCompile(`^合同编号[：:]`),
	regexp.MustCompile(`^(合同名称|签订地点|签订日期)[：:]?`),
}

// Policy-specific heading patterns.
var policyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^第[一二三四五六七八九十百千万\d]+章`),
	regexp.MustCompile(`^(总则|附则|罚则)$`),
	regexp.MustCompile(`^[（(][一二三四五六七八九十\d]+[）)]`),
}

// General structural heading patterns.
var generalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\d+`),            // 1.1 two-level numbering
	regexp.MustCompile(`^\d+\.[\s\t]*`),        // 1. one-level numbering
	regexp.MustCompile(`^[IVXLCDM]+\.`),        // Roman numerals
	regexp.MustCompile(`^第[一二三四五六七八九十百千万\d]+[章节条]`), // 第X章/节/条
	regexp.MustCompile(`^[一二三四五六七八九十百千万\d]+[.、]`),  // Chinese ordinals
	regexp.MustCompile(`^[A-Z][A-Z\s]+$`),      // ALL-CAPS phrase
	regexp.MustCompile(`^附录[A-Za-z0-9一二三四五六七八九十]*[：:]?`),
}

// deepNumbering matches numeric prefixes with three or more dot-separated
// levels (1.1.1 and deeper): sub-clause detail, not a heading.
var deepNumbering = regexp.MustCompile(`^\d+(\.\d+){2,}`)

// separatorRunes open visual separator lines (----, ====, ……).
const separatorRunes = "-—=_－＝＿"

// Section keywords recognized by the text-feature fallback.
var sectionKeywords = []string{"摘要", "附录", "参考文献", "目录", "致谢", "章节"}

var docTypeKeywords = map[DocType][]string{
	DocTypeContract: {"合同", "协议", "甲方", "乙方"},
	DocTypePolicy:   {"制度", "规定", "办法", "细则"},
}

// IsTitle decides whether a paragraph functions as a heading, using a
// layered cascade: strong structural signals (style name, domain patterns,
// centering, numbering) dominate run formatting, which dominates weak text
// features. The style-name check is the one override that beats the
// caption exclusion.
func IsTitle(p *types.Paragraph, cfg Config) bool {
	text := p.CleanText()
	textLen := len([]rune(text))
	if textLen == 0 {
		return false
	}

	// Style name wins outright: the author told us it is a heading.
	style := strings.ToLower(p.StyleName)
	for _, marker := range styleTitleMarkers {
		if strings.Contains(style, marker) {
			return true
		}
	}

	// Caption/separator exclusions for everything below.
	if textLen < 15 {
		for _, marker := range captionMarkers {
			if strings.Contains(text, marker) {
				return false
			}
		}
	}
	if isSeparatorLine(text) || isFullyParenthesized(text) {
		return false
	}

	// Domain numbering for the genres that have one.
	switch cfg.DocType {
	case DocTypeContract:
		for _, re := range contractPatterns {
			if re.MatchString(text) {
				return true
			}
		}
	case DocTypePolicy:
		for _, re := range policyPatterns {
			if re.MatchString(text) {
				return true
			}
		}
	}

	// Centered short lines are almost always headings.
	if p.Alignment == types.AlignCenter && textLen >= 3 && textLen <= 50 {
		return true
	}

	// General structural numbering, except deep numbering like 1.1.1,
	// which is sub-clause detail and falls through to the weaker rules.
	if !deepNumbering.MatchString(text) {
		for _, re := range generalPatterns {
			if re.MatchString(text) {
				return true
			}
		}
	}

	if titleByRunFormat(p, cfg.MedianFontSize) {
		return true
	}

	return titleByTextFeatures(text, textLen, cfg.DocType)
}

// titleByRunFormat applies the formatting heuristics: mostly-bold
// paragraphs, heading fonts (黑体 family), or oversized type.
func titleByRunFormat(p *types.Paragraph, medianFontSize float64) bool {
	if len(p.Runs) == 0 {
		return false
	}

	bold, heiFont, oversized := 0, 0, 0
	for i := range p.Runs {
		r := &p.Runs[i]
		if r.IsBold() {
			bold++
		}
		if name := r.FontName; name != "" {
			if strings.Contains(name, "黑体") || strings.Contains(name, "Hei") ||
				strings.Contains(name, "Heiti") || strings.Contains(name, "SimHei") {
				heiFont++
			}
		}
		if r.FontSize > medianFontSize*1.6 {
			oversized++
		}
	}

	total := float64(len(p.Runs))
	if float64(bold)/total > 0.8 {
		return true
	}
	if float64(heiFont)/total > 0.5 || float64(oversized)/total > 0.5 {
		return true
	}
	return false
}

// titleByTextFeatures is the weakest layer: section keywords, or short
// all-caps lines without terminal punctuation.
func titleByTextFeatures(text string, textLen int, dt DocType) bool {
	if textLen < 2 || textLen > 50 {
		return false
	}

	for _, kw := range sectionKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range docTypeKeywords[dt] {
		if strings.Contains(text, kw) {
			return true
		}
	}

	if endsWithTerminalPunct(text) {
		return false
	}
	return isAllUpper(text)
}

// endsWithTerminalPunct reports whether text ends in sentence-terminal
// punctuation.
func endsWithTerminalPunct(text string) bool {
	runes := []rune(text)
	switch runes[len(runes)-1] {
	case '。', '，', '.', ',':
		return true
	}
	return false
}

// isAllUpper reports whether text has at least one upper-case letter and
// no lower-case ones. Uncased scripts (Han) never qualify on their own.
func isAllUpper(text string) bool {
	hasUpper := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// isSeparatorLine reports whether the text opens with a run of visual
// separator characters.
func isSeparatorLine(text string) bool {
	runes := []rune(text)
	if len(runes) < 3 {
		return false
	}
	for _, r := range runes[:3] {
		if !strings.ContainsRune(separatorRunes, r) {
			return false
		}
	}
	return true
}

// isFullyParenthesized reports whether the entire text is one parenthetical.
func isFullyParenthesized(text string) bool {
	runes := []rune(text)
	if len(runes) < 2 {
		return false
	}
	first, last := runes[0], runes[len(runes)-1]
	open := first == '(' || first == '（'
	closed := last == ')' || last == '）'
	if !open || !closed {
		return false
	}
	// Reject when the opening parenthetical closes before the end, e.g.
	// "(一)总则(续)" is not parenthetical-only.
	depth := 0
	for i, r := range runes {
		switch r {
		case '(', '（':
			depth++
		case ')', '）':
			depth--
			if depth == 0 && i != len(runes)-1 {
				return false
			}
		}
	}
	return true
}
