package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

const documentPart = "word/document.xml"

// File is an opened DOCX package: the raw parts plus the parsed abstract
// document and the byte spans needed to edit word/document.xml in place.
type File struct {
	order []string
	parts map[string][]byte

	doc *types.Document
	// spans holds the byte range of each <w:p> element in
	// word/document.xml, in canonical traversal order (same order as
	// doc.Paragraphs()).
	spans []span
}

// span is a half-open byte range [Start, End) in the document part.
type span struct {
	Start int64
	End   int64
}

// Read opens a DOCX package from bytes.
func Read(data []byte) (*File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	f := &File{parts: make(map[string][]byte)}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		f.order = append(f.order, entry.Name)
		f.parts[entry.Name] = content
	}

	if _, ok := f.parts[documentPart]; !ok {
		return nil, fmt.Errorf("missing required file: %s", documentPart)
	}
	if _, ok := f.parts["[Content_Types].xml"]; !ok {
		return nil, fmt.Errorf("missing required file: [Content_Types].xml")
	}

	styles := parseStyles(f.parts["word/styles.xml"])
	doc, spans, err := parseDocument(f.parts[documentPart], styles)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	f.doc = doc
	f.spans = spans
	return f, nil
}

// Document returns the parsed abstract document. Callers treat it as
// read-only; edits go through the writer functions on File.
func (f *File) Document() *types.Document {
	return f.doc
}

// Bytes re-packs the (possibly edited) parts into a DOCX byte stream.
func (f *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range f.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		if _, err := w.Write(f.parts[name]); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// setPart replaces or appends a package part.
func (f *File) setPart(name string, content []byte) {
	if _, ok := f.parts[name]; !ok {
		f.order = append(f.order, name)
	}
	f.parts[name] = content
}

// stylesXML mirrors the fragment of word/styles.xml we need: style IDs and
// their display names.
type stylesXML struct {
	Styles []struct {
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// parseStyles builds the styleId→name map. Styles are optional; a missing
// or malformed part yields an empty map.
func parseStyles(data []byte) map[string]string {
	names := make(map[string]string)
	if len(data) == 0 {
		return names
	}
	var parsed stylesXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return names
	}
	for _, s := range parsed.Styles {
		if s.StyleID != "" {
			names[s.StyleID] = s.Name.Val
		}
	}
	return names
}

// parseDocument walks word/document.xml token by token, building the
// abstract document and recording each paragraph element's byte span. A
// single raw-token pass keeps the span order and the traversal order
// identical by construction.
func parseDocument(data []byte, styles map[string]string) (*types.Document, []span, error) {
	p := &docParser{styles: styles, doc: &types.Document{}}
	d := xml.NewDecoder(bytes.NewReader(data))

	for {
		before := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("tokenizing document.xml: %w", err)
		}
		p.handle(tok, before, d.InputOffset())
	}
	p.finish()
	return p.doc, p.spans, nil
}

// docParser accumulates parser state for one pass over document.xml.
type docParser struct {
	styles map[string]string
	doc    *types.Document
	spans  []span

	// Paragraph under construction, if any.
	para      *types.Paragraph
	paraStart int64
	styleID   string
	text      strings.Builder
	// skipDepth > 0 means we are inside nested content we ignore
	// (a paragraph within a paragraph, i.e. textbox content).
	skipDepth int

	// Run under construction.
	run   *types.Run
	inRPr bool
	inT   bool

	// Table under construction. Nested tables degrade into the outer one.
	table    *types.Table
	tblDepth int
	row      []types.Cell
	cell     *types.Cell
}

func (p *docParser) handle(tok xml.Token, start, end int64) {
	switch t := tok.(type) {
	case xml.StartElement:
		p.startElement(t, start)
	case xml.EndElement:
		p.endElement(t, end)
	case xml.CharData:
		if p.inT && p.run != nil && p.skipDepth == 0 {
			p.run.Text += string(t)
		}
	}
}

func (p *docParser) startElement(t xml.StartElement, offset int64) {
	if t.Name.Space != "w" {
		return
	}
	if p.skipDepth > 0 {
		if t.Name.Local == "p" {
			p.skipDepth++
		}
		return
	}

	switch t.Name.Local {
	case "p":
		if p.para != nil {
			// Paragraph inside a paragraph: textbox content. Skip it so
			// traversal order stays aligned with top-level spans.
			p.skipDepth = 1
			return
		}
		p.para = &types.Paragraph{}
		p.paraStart = offset
		p.styleID = ""
		p.text.Reset()
	case "tbl":
		if p.tblDepth == 0 {
			p.table = &types.Table{}
		}
		p.tblDepth++
	case "tr":
		if p.tblDepth == 1 {
			p.row = nil
		}
	case "tc":
		if p.tblDepth == 1 {
			p.cell = &types.Cell{}
		}
	case "pStyle":
		if p.para != nil && p.run == nil {
			p.styleID = attr(t, "val")
		}
	case "jc":
		if p.para != nil && p.run == nil {
			p.para.Alignment = parseAlignment(attr(t, "val"))
		}
	case "r":
		if p.para != nil {
			p.run = &types.Run{}
		}
	case "rPr":
		if p.run != nil {
			p.inRPr = true
		}
	case "b":
		if p.run != nil && p.inRPr {
			val := parseOnOff(attr(t, "val"))
			p.run.Bold = &val
		}
	case "i":
		if p.run != nil && p.inRPr {
			val := parseOnOff(attr(t, "val"))
			p.run.Italic = &val
		}
	case "rFonts":
		if p.run != nil && p.inRPr {
			// East Asian font carries the 黑体-style signal; fall back to
			// the ASCII font name.
			if ea := attr(t, "eastAsia"); ea != "" {
				p.run.FontName = ea
			} else if ascii := attr(t, "ascii"); ascii != "" {
				p.run.FontName = ascii
			}
		}
	case "sz":
		if p.run != nil && p.inRPr {
			if half, err := strconv.ParseFloat(attr(t, "val"), 64); err == nil {
				p.run.FontSize = half / 2
			}
		}
	case "t":
		if p.run != nil && !p.inRPr {
			p.inT = true
		}
	case "tab":
		if p.run != nil && !p.inRPr {
			p.run.Text += "\t"
		}
	case "br":
		if p.run != nil && !p.inRPr {
			p.run.Text += "\n"
		}
	}
}

func (p *docParser) endElement(t xml.EndElement, offset int64) {
	if t.Name.Space != "w" {
		return
	}
	if p.skipDepth > 0 {
		if t.Name.Local == "p" {
			p.skipDepth--
		}
		return
	}

	switch t.Name.Local {
	case "p":
		if p.para == nil {
			return
		}
		for _, r := range p.para.Runs {
			p.text.WriteString(r.Text)
		}
		p.para.Text = p.text.String()
		if p.styleID != "" {
			if name, ok := p.styles[p.styleID]; ok && name != "" {
				p.para.StyleName = name
			} else {
				p.para.StyleName = p.styleID
			}
		}
		p.spans = append(p.spans, span{Start: p.paraStart, End: offset})

		switch {
		case p.cell != nil:
			p.cell.Paragraphs = append(p.cell.Paragraphs, *p.para)
		case p.tblDepth > 0:
			// Paragraph directly inside a table but outside any cell:
			// malformed, keep it as a body paragraph so no text is lost.
			p.doc.AddParagraph(*p.para)
		default:
			p.doc.AddParagraph(*p.para)
		}
		p.para = nil
	case "tbl":
		p.tblDepth--
		if p.tblDepth == 0 && p.table != nil {
			p.doc.AddTable(*p.table)
			p.table = nil
		}
	case "tr":
		if p.tblDepth == 1 && p.table != nil {
			p.table.Rows = append(p.table.Rows, p.row)
			p.row = nil
		}
	case "tc":
		if p.tblDepth == 1 && p.cell != nil {
			p.row = append(p.row, *p.cell)
			p.cell = nil
		}
	case "r":
		if p.run != nil {
			p.para.Runs = append(p.para.Runs, *p.run)
			p.run = nil
		}
	case "rPr":
		p.inRPr = false
	case "t":
		p.inT = false
	}
}

func (p *docParser) finish() {
	// Unterminated structures from truncated XML degrade to whatever was
	// collected; the zip layer already validated the part exists.
	if p.table != nil {
		p.doc.AddTable(*p.table)
	}
}

// attr fetches a w: attribute value by local name.
func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parseOnOff interprets OOXML boolean attribute values; an empty value on
// a present element means "on".
func parseOnOff(val string) bool {
	switch val {
	case "false", "0", "none", "off":
		return false
	}
	return true
}

func parseAlignment(val string) types.Alignment {
	switch val {
	case "center":
		return types.AlignCenter
	case "left", "start":
		return types.AlignLeft
	case "right", "end":
		return types.AlignRight
	case "both", "distribute":
		return types.AlignJustify
	}
	return types.AlignNone
}
