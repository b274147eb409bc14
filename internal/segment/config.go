package segment

import (
	"fmt"
	"sort"

	"github.com/czfsss/word-tool/pkg/types"
)

// DocType tunes segmentation and title detection to a document genre.
type DocType string

const (
	// DocTypeGeneral is the default tuning.
	DocTypeGeneral DocType = "general"
	// DocTypeContract tunes for legal contracts (第X条 clause numbering,
	// party markers, shorter standalone paragraphs).
	DocTypeContract DocType = "contract"
	// DocTypePolicy tunes for policy/regulation documents (章节 numbering,
	// longer standalone paragraphs).
	DocTypePolicy DocType = "policy"
)

// ParseDocType validates a doc_type string. Empty means general.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case "", DocTypeGeneral:
		return DocTypeGeneral, nil
	case DocTypeContract:
		return DocTypeContract, nil
	case DocTypePolicy:
		return DocTypePolicy, nil
	default:
		return "", fmt.Errorf("unknown doc_type %q (want general, contract or policy)", s)
	}
}

// Default paragraph-length thresholds per doc type, in runes. A body
// paragraph at or above the threshold is long enough to stand alone as a
// chunk.
const (
	defaultMinLength  = 1000
	contractMinLength = 800
	policyMinLength   = 1200

	// defaultMedianFontSize is the assumed document median font size in
	// points when the caller has no better estimate.
	defaultMedianFontSize = 10
)

// Config carries all doc-type-specific segmentation behavior as one
// immutable value, built once by the caller and passed down.
type Config struct {
	DocType DocType
	// MinLength is the standalone-paragraph threshold in runes.
	MinLength int
	// MedianFontSize is the document's median font size in points, used by
	// the oversized-font title heuristic.
	MedianFontSize float64
}

// NewConfig builds the tuning for a doc type.
func NewConfig(dt DocType) Config {
	cfg := Config{
		DocType:        dt,
		MinLength:      defaultMinLength,
		MedianFontSize: defaultMedianFontSize,
	}
	switch dt {
	case DocTypeContract:
		cfg.MinLength = contractMinLength
	case DocTypePolicy:
		cfg.MinLength = policyMinLength
	}
	return cfg
}

// MeasureMedianFontSize sets MedianFontSize from the document's runs.
// Runs without an explicit size are skipped; a document with none keeps
// the default estimate.
func (c *Config) MeasureMedianFontSize(doc *types.Document) {
	var sizes []float64
	for _, ref := range doc.Paragraphs() {
		for _, r := range ref.Paragraph.Runs {
			if r.FontSize > 0 {
				sizes = append(sizes, r.FontSize)
			}
		}
	}
	if len(sizes) == 0 {
		return
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		c.MedianFontSize = sizes[mid]
	} else {
		c.MedianFontSize = (sizes[mid-1] + sizes[mid]) / 2
	}
}
