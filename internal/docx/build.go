package docx

import (
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

const stylesXMLContent = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + wordprocessingNS + `"><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`

// Build creates a new DOCX package from an abstract document. The format
// supplies default fonts for runs that carry none of their own.
func Build(doc *types.Document, format TextFormat) ([]byte, error) {
	var body strings.Builder
	for bi := range doc.Blocks {
		b := &doc.Blocks[bi]
		switch b.Kind {
		case types.BlockParagraph:
			if b.Paragraph != nil {
				body.WriteString(paragraphXMLFragment(b.Paragraph, format))
			}
		case types.BlockTable:
			if b.Table != nil {
				body.WriteString(tableXMLFragment(b.Table, format))
			}
		}
	}

	var document strings.Builder
	document.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	document.WriteString(`<w:document xmlns:w="` + wordprocessingNS + `"><w:body>`)
	document.WriteString(body.String())
	document.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800"/></w:sectPr>`)
	document.WriteString(`</w:body></w:document>`)

	f := &File{parts: make(map[string][]byte)}
	f.setPart(contentTypesPart, []byte(contentTypesXML))
	f.setPart("_rels/.rels", []byte(rootRelsXML))
	f.setPart(documentRelsPart, []byte(documentRelsXML))
	f.setPart("word/styles.xml", []byte(stylesXMLContent))
	f.setPart(documentPart, []byte(document.String()))
	return f.Bytes()
}

// tableXMLFragment serializes a table with single-line borders.
func tableXMLFragment(t *types.Table, format TextFormat) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		sb.WriteString(`<w:` + side + ` w:val="single" w:sz="4" w:color="auto"/>`)
	}
	sb.WriteString(`</w:tblBorders></w:tblPr>`)
	for ri := range t.Rows {
		sb.WriteString("<w:tr>")
		for ci := range t.Rows[ri] {
			sb.WriteString("<w:tc>")
			cell := &t.Rows[ri][ci]
			if len(cell.Paragraphs) == 0 {
				// A table cell must hold at least one paragraph.
				sb.WriteString("<w:p/>")
			}
			for pi := range cell.Paragraphs {
				sb.WriteString(paragraphXMLFragment(&cell.Paragraphs[pi], format))
			}
			sb.WriteString("</w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}
