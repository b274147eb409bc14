package segment

import (
	"regexp"
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

// Segment walks the document's blocks in order and groups them into
// chunks. Headings open chunks, short body paragraphs merge into the
// current chunk, long body paragraphs (threshold per cfg.MinLength) close
// the open chunk and start the next one, and tables always attach to the
// most recent heading context. Empty blocks are skipped. Every non-empty block's text appears
// in exactly one output chunk, in document order.
func Segment(doc *types.Document, cfg Config) []string {
	var chunks []string
	var current []string
	consecutiveTitles := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for bi := range doc.Blocks {
		block := &doc.Blocks[bi]
		text := block.Text()
		if text == "" {
			continue
		}

		if block.Kind == types.BlockTable {
			// A table belongs to whatever heading context precedes it and
			// is never split across chunks.
			switch {
			case len(current) > 0:
				current = append(current, text)
			case len(chunks) > 0:
				chunks[len(chunks)-1] += "\n" + text
			default:
				current = []string{text}
			}
			consecutiveTitles = 0
			continue
		}

		if IsTitle(block.Paragraph, cfg) {
			// A sub-heading of the chunk's opening title stays with it:
			// "1.1.1" continues a chunk opened by "1.1".
			if len(current) > 0 && isSubHeading(current[0], text) {
				current = append(current, text)
				consecutiveTitles = 0
				continue
			}

			consecutiveTitles++
			if len(current) > 0 && consecutiveTitles == 1 {
				// First title after body content closes the open chunk.
				flush()
				current = []string{text}
			} else {
				// Consecutive titles (or a title opening the document)
				// accumulate into one chunk.
				current = append(current, text)
			}
			continue
		}

		// Body paragraph.
		textLen := len([]rune(text))
		switch {
		case consecutiveTitles > 0:
			// Attach body text to the heading(s) directly above it.
			current = append(current, text)
			consecutiveTitles = 0
		case textLen < cfg.MinLength && len(current) > 0:
			current = append(current, text)
		case textLen >= cfg.MinLength && len(current) == 0:
			// A long paragraph with nothing open is a meaningful chunk
			// all by itself.
			chunks = append(chunks, text)
		case textLen >= cfg.MinLength:
			// A long paragraph closes the open chunk and opens the next
			// one, so trailing short paragraphs merge in behind it.
			flush()
			current = []string{text}
		default:
			// Short paragraph with nothing open: seed a chunk and hope
			// later short paragraphs merge in.
			current = []string{text}
		}
	}

	flush()
	return chunks
}

// numericPrefix matches a leading dot-separated numbering like "1", "1.2"
// or "1.2.3".
var numericPrefix = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)

// isSubHeading reports whether title is numerically a sub-heading of
// opening: same top-level number with strictly more dot-separated levels.
func isSubHeading(opening, title string) bool {
	op := numericPrefix.FindString(strings.TrimSpace(opening))
	tp := numericPrefix.FindString(strings.TrimSpace(title))
	if op == "" || tp == "" {
		return false
	}
	opParts := strings.Split(op, ".")
	tpParts := strings.Split(tp, ".")
	return opParts[0] == tpParts[0] && len(tpParts) > len(opParts)
}
