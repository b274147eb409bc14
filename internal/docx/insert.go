package docx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/czfsss/word-tool/pkg/types"
)

// Position says where inserted content goes relative to the existing body.
type Position string

const (
	PositionStart Position = "start"
	PositionEnd   Position = "end"
)

// ParsePosition validates a position argument; empty means PositionEnd.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "", string(PositionEnd):
		return PositionEnd, nil
	case string(PositionStart):
		return PositionStart, nil
	}
	return "", fmt.Errorf("invalid position %q: must be %q or %q", s, PositionStart, PositionEnd)
}

// TextFormat is the default character formatting for inserted content.
// Run-level formatting on the paragraphs themselves takes precedence.
type TextFormat struct {
	// FontName is used for East Asian text; empty inherits the document
	// default.
	FontName string
	// AsciiFont overrides the Latin-script font; empty falls back to
	// FontName.
	AsciiFont string
	// Size in points; 0 inherits.
	Size float64
	// Color as an RRGGBB hex string; empty inherits.
	Color string
}

// InsertParagraphs adds the given paragraphs to the start or end of the
// document body and refreshes the parsed view.
func (f *File) InsertParagraphs(paras []types.Paragraph, pos Position, format TextFormat) error {
	if len(paras) == 0 {
		return nil
	}
	var sb strings.Builder
	for i := range paras {
		sb.WriteString(paragraphXMLFragment(&paras[i], format))
	}

	data := string(f.parts[documentPart])
	offset := -1
	switch pos {
	case PositionStart:
		if idx := strings.Index(data, "<w:body>"); idx >= 0 {
			offset = idx + len("<w:body>")
		} else if loc := bodyOpenPattern.FindStringIndex(data); loc != nil {
			offset = loc[1]
		}
	case PositionEnd:
		// Keep the section properties last; they must close the body.
		if idx := strings.LastIndex(data, "<w:sectPr"); idx >= 0 {
			offset = idx
		} else if idx := strings.LastIndex(data, "</w:body>"); idx >= 0 {
			offset = idx
		}
	}
	if offset < 0 {
		return fmt.Errorf("document body not found")
	}

	f.parts[documentPart] = []byte(data[:offset] + sb.String() + data[offset:])
	return f.refresh()
}

var bodyOpenPattern = regexp.MustCompile(`<w:body[^>]*>`)

// paragraphXMLFragment serializes one abstract paragraph for splicing into
// an existing document body. Style names are not emitted; run formatting
// carries everything so the fragment never depends on the target
// document's style table.
func paragraphXMLFragment(p *types.Paragraph, format TextFormat) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	if props := paragraphPropsXML(p); props != "" {
		sb.WriteString(props)
	}
	if len(p.Runs) == 0 && p.Text != "" {
		sb.WriteString(serializeRun(runPropsXML(types.Run{}, format), p.Text))
	}
	for _, r := range p.Runs {
		sb.WriteString(serializeRun(runPropsXML(r, format), r.Text))
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

func paragraphPropsXML(p *types.Paragraph) string {
	jc := ""
	switch p.Alignment {
	case types.AlignCenter:
		jc = "center"
	case types.AlignLeft:
		jc = "left"
	case types.AlignRight:
		jc = "right"
	case types.AlignJustify:
		jc = "both"
	}
	if jc == "" {
		return ""
	}
	return `<w:pPr><w:jc w:val="` + jc + `"/></w:pPr>`
}

// runPropsXML builds a <w:rPr> element merging run-level formatting with
// the insertion defaults. Returns an empty string when nothing is set.
func runPropsXML(r types.Run, format TextFormat) string {
	var sb strings.Builder
	if r.IsBold() {
		sb.WriteString(`<w:b/><w:bCs/>`)
	}
	if r.IsItalic() {
		sb.WriteString(`<w:i/><w:iCs/>`)
	}
	eastAsia := r.FontName
	if eastAsia == "" {
		eastAsia = format.FontName
	}
	ascii := r.FontName
	if ascii == "" {
		if format.AsciiFont != "" {
			ascii = format.AsciiFont
		} else {
			ascii = format.FontName
		}
	}
	if eastAsia != "" || ascii != "" {
		sb.WriteString(`<w:rFonts`)
		if ascii != "" {
			sb.WriteString(` w:ascii="` + escapeXML(ascii) + `" w:hAnsi="` + escapeXML(ascii) + `"`)
		}
		if eastAsia != "" {
			sb.WriteString(` w:eastAsia="` + escapeXML(eastAsia) + `"`)
		}
		sb.WriteString(`/>`)
	}
	if format.Color != "" {
		sb.WriteString(`<w:color w:val="` + escapeXML(format.Color) + `"/>`)
	}
	size := r.FontSize
	if size == 0 {
		size = format.Size
	}
	if size > 0 {
		half := int(size * 2)
		fmt.Fprintf(&sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, half, half)
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<w:rPr>" + sb.String() + "</w:rPr>"
}

// colorNames maps common Chinese and English color names to RRGGBB hex.
var colorNames = map[string]string{
	"黑色": "000000", "黑": "000000", "black": "000000",
	"红色": "FF0000", "红": "FF0000", "red": "FF0000",
	"蓝色": "0000FF", "蓝": "0000FF", "blue": "0000FF",
	"绿色": "008000", "绿": "008000", "green": "008000",
	"黄色": "FFFF00", "黄": "FFFF00", "yellow": "FFFF00",
	"白色": "FFFFFF", "白": "FFFFFF", "white": "FFFFFF",
	"灰色": "808080", "灰": "808080", "gray": "808080", "grey": "808080",
	"橙色": "FFA500", "橙": "FFA500", "orange": "FFA500",
	"紫色": "800080", "紫": "800080", "purple": "800080",
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})$`)

// ParseColor resolves a color name or hex string to an RRGGBB value.
// Empty input means "inherit" and resolves to the empty string.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if hex, ok := colorNames[strings.ToLower(s)]; ok {
		return hex, nil
	}
	if m := hexColorPattern.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]), nil
	}
	return "", fmt.Errorf("unrecognized color %q: use a known color name or RRGGBB hex", s)
}
