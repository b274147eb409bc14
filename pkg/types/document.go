package types

import "strings"

// Alignment represents paragraph justification.
type Alignment string

const (
	AlignNone    Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Run is a fragment of paragraph text carrying its own character formatting.
type Run struct {
	Text     string
	Bold     *bool   // nil when the source document does not say
	Italic   *bool   // nil when the source document does not say
	FontName string  // empty when inherited from the style
	FontSize float64 // points; 0 when inherited
}

// IsBold reports whether the run is explicitly bold.
func (r *Run) IsBold() bool {
	return r.Bold != nil && *r.Bold
}

// IsItalic reports whether the run is explicitly italic.
func (r *Run) IsItalic() bool {
	return r.Italic != nil && *r.Italic
}

// Paragraph is a single block of text with optional style metadata.
type Paragraph struct {
	Text      string
	StyleName string
	Alignment Alignment
	Runs      []Run
}

// CleanText returns the paragraph text with surrounding whitespace removed.
func (p *Paragraph) CleanText() string {
	return strings.TrimSpace(p.Text)
}

// Cell is one table cell, holding its own paragraph sequence.
type Cell struct {
	Paragraphs []Paragraph
}

// Text joins the cell's paragraph texts with spaces.
func (c *Cell) Text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for i := range c.Paragraphs {
		if t := c.Paragraphs[i].CleanText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Table is a grid of cells. Rows may be ragged in malformed documents;
// serialization degrades to ragged text rows rather than failing.
type Table struct {
	Rows [][]Cell
}

// Text returns a tab-separated, newline-delimited serialization of the table.
// Newlines inside cells are replaced with spaces so each row stays one line.
func (t *Table) Text() string {
	var sb strings.Builder
	for i := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j := range t.Rows[i] {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strings.ReplaceAll(t.Rows[i][j].Text(), "\n", " "))
		}
	}
	return sb.String()
}

// BlockKind discriminates the Block variant.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

// Block is a tagged variant: exactly one of Paragraph or Table is set,
// according to Kind. New block kinds extend the variant rather than
// duck-typing on field presence.
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *Table
}

// ParagraphBlock wraps a paragraph as a document block.
func ParagraphBlock(p *Paragraph) Block {
	return Block{Kind: BlockParagraph, Paragraph: p}
}

// TableBlock wraps a table as a document block.
func TableBlock(t *Table) Block {
	return Block{Kind: BlockTable, Table: t}
}

// Text returns the block's plain text: the paragraph text, or the table
// serialization for table blocks.
func (b *Block) Text() string {
	switch b.Kind {
	case BlockParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.CleanText()
		}
	case BlockTable:
		if b.Table != nil {
			return b.Table.Text()
		}
	}
	return ""
}

// Document is an ordered sequence of blocks. It is read-only input for a
// segmentation or anchoring pass; the engines never retain it across calls.
type Document struct {
	Blocks []Block
}

// AddParagraph appends a paragraph block.
func (d *Document) AddParagraph(p Paragraph) {
	cp := p
	d.Blocks = append(d.Blocks, ParagraphBlock(&cp))
}

// AddTable appends a table block.
func (d *Document) AddTable(t Table) {
	ct := t
	d.Blocks = append(d.Blocks, TableBlock(&ct))
}

// ParagraphRef locates one paragraph within the document's canonical
// traversal order, keeping enough structure to map it back to the
// underlying container format.
type ParagraphRef struct {
	// Index is the position in the flat traversal (see Document.Paragraphs).
	Index int
	// BlockIndex is the position of the owning block in Document.Blocks.
	BlockIndex int
	// InTable is true for paragraphs living inside a table cell.
	InTable bool
	// Paragraph is the referenced paragraph.
	Paragraph *Paragraph
}

// Paragraphs returns every paragraph in canonical traversal order: body
// paragraphs in block order, with table-cell paragraphs expanded row-major
// at the table's position. Segmentation and anchoring both rely on this
// order, so it is the single definition of the document's atomic units.
func (d *Document) Paragraphs() []ParagraphRef {
	var refs []ParagraphRef
	for bi := range d.Blocks {
		b := &d.Blocks[bi]
		switch b.Kind {
		case BlockParagraph:
			if b.Paragraph == nil {
				continue
			}
			refs = append(refs, ParagraphRef{
				Index:      len(refs),
				BlockIndex: bi,
				Paragraph:  b.Paragraph,
			})
		case BlockTable:
			if b.Table == nil {
				continue
			}
			for ri := range b.Table.Rows {
				for ci := range b.Table.Rows[ri] {
					cell := &b.Table.Rows[ri][ci]
					for pi := range cell.Paragraphs {
						refs = append(refs, ParagraphRef{
							Index:      len(refs),
							BlockIndex: bi,
							InTable:    true,
							Paragraph:  &cell.Paragraphs[pi],
						})
					}
				}
			}
		}
	}
	return refs
}

// NonEmptyParagraphs returns the canonical traversal filtered to paragraphs
// with non-empty text. Indexes still refer to the unfiltered traversal.
func (d *Document) NonEmptyParagraphs() []ParagraphRef {
	all := d.Paragraphs()
	refs := make([]ParagraphRef, 0, len(all))
	for _, ref := range all {
		if ref.Paragraph.CleanText() != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
