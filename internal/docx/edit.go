package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// runSpan is one <w:r> element inside a paragraph: its byte range, its
// plain text, and its raw <w:rPr> element bytes (empty when absent).
type runSpan struct {
	start int
	end   int
	text  string
	rPr   string
}

// paraLayout is the editable anatomy of a single <w:p> element.
type paraLayout struct {
	// contentStart is the offset right after the paragraph properties
	// (or after the open tag when there are none): the earliest point
	// run-level content may be inserted.
	contentStart int
	// closeStart is the offset of the literal "</w:p>" close tag.
	closeStart int
	// selfClosing is true for <w:p/> with no close tag.
	selfClosing bool
	runs        []runSpan
}

// scanPara maps the structure of one paragraph element so edits can be
// spliced at exact byte offsets.
func scanPara(paraXML []byte) (*paraLayout, error) {
	d := xml.NewDecoder(bytes.NewReader(paraXML))
	layout := &paraLayout{}

	depth := 0
	inRPr := false
	inT := false
	var run *runSpan
	var rPrStart int64 = -1
	sawPPr := false

	for {
		before := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scanning paragraph: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space != "w" {
				continue
			}
			switch {
			case depth == 1 && t.Name.Local == "p":
				layout.contentStart = int(d.InputOffset())
			case depth == 2 && t.Name.Local == "pPr":
				sawPPr = true
			case depth == 2 && t.Name.Local == "r":
				run = &runSpan{start: int(before)}
			case run != nil && t.Name.Local == "rPr" && !inRPr:
				inRPr = true
				rPrStart = before
			case run != nil && !inRPr && t.Name.Local == "t":
				inT = true
			case run != nil && !inRPr && t.Name.Local == "tab":
				run.text += "\t"
			case run != nil && !inRPr && t.Name.Local == "br":
				run.text += "\n"
			}
		case xml.EndElement:
			depth--
			if t.Name.Space != "w" {
				continue
			}
			switch {
			case depth == 0 && t.Name.Local == "p":
				if int(before) >= len(paraXML) {
					layout.selfClosing = true
					layout.closeStart = len(paraXML)
				} else {
					layout.closeStart = int(before)
				}
			case depth == 1 && t.Name.Local == "pPr" && sawPPr:
				layout.contentStart = int(d.InputOffset())
				sawPPr = false
			case depth == 1 && t.Name.Local == "r" && run != nil:
				run.end = int(d.InputOffset())
				layout.runs = append(layout.runs, *run)
				run = nil
			case inRPr && t.Name.Local == "rPr":
				inRPr = false
				if run != nil {
					run.rPr = string(paraXML[rPrStart:d.InputOffset()])
				}
			case t.Name.Local == "t":
				inT = false
			}
		case xml.CharData:
			if inT && run != nil {
				run.text += string(t)
			}
		}
	}
	return layout, nil
}

// edit is one byte-splice against a paragraph: either a pure insertion
// (start == end) or a replacement of the range [start, end).
type edit struct {
	start int
	end   int
	text  string
}

// applyEdits rebuilds the paragraph bytes with the edits spliced in.
// Edits must not overlap; they are applied in offset order.
func applyEdits(paraXML []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var sb strings.Builder
	prev := 0
	for _, e := range edits {
		if e.start < prev {
			continue
		}
		sb.Write(paraXML[prev:e.start])
		sb.WriteString(e.text)
		prev = e.end
	}
	sb.Write(paraXML[prev:])
	return []byte(sb.String())
}

// reopenSelfClosing turns "<w:p .../>" into "<w:p ...>" + body + "</w:p>".
func reopenSelfClosing(paraXML []byte, body string) []byte {
	open := strings.TrimSuffix(strings.TrimSpace(string(paraXML)), "/>")
	return []byte(open + ">" + body + "</w:p>")
}

// serializeRun builds a <w:r> element from raw run properties and text.
func serializeRun(rPr, text string) string {
	var sb strings.Builder
	sb.WriteString("<w:r>")
	sb.WriteString(rPr)
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(text))
	sb.WriteString("</w:t></w:r>")
	return sb.String()
}

// withHighlight adds a yellow highlight to raw run properties, creating
// the properties element when the run has none.
func withHighlight(rPr string) string {
	const highlight = `<w:highlight w:val="yellow"/>`
	if rPr == "" {
		return "<w:rPr>" + highlight + "</w:rPr>"
	}
	if idx := strings.LastIndex(rPr, "</w:rPr>"); idx >= 0 {
		return rPr[:idx] + highlight + rPr[idx:]
	}
	// Self-closing <w:rPr/>; rebuild it.
	return "<w:rPr>" + highlight + "</w:rPr>"
}

// escapeXML escapes text for use in XML character data and attributes.
func escapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
