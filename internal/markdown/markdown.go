package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/czfsss/word-tool/pkg/types"
)

const codeFont = "Courier New"

// headingSizes maps heading levels to font sizes in points.
var headingSizes = map[int]float64{1: 22, 2: 18, 3: 16, 4: 14, 5: 12, 6: 12}

// Convert parses Markdown source into an abstract document. Headings
// become bold sized paragraphs, lists become bulleted or numbered text
// paragraphs, fenced code keeps a monospaced font, and GFM tables become
// document tables.
func Convert(source []byte) (*types.Document, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source, doc: &types.Document{}}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		c.block(child, blockContext{})
	}
	return c.doc, nil
}

// blockContext carries inherited rendering state down the block tree.
type blockContext struct {
	// prefix is prepended to the first paragraph of the block (list
	// markers, indentation).
	prefix string
	// indent is prepended to continuation paragraphs inside the block.
	indent string
	// italic forces italic runs (blockquote content).
	italic bool
}

type converter struct {
	source []byte
	doc    *types.Document
}

func (c *converter) block(n ast.Node, ctx blockContext) {
	switch node := n.(type) {
	case *ast.Heading:
		c.heading(node)
	case *ast.Paragraph, *ast.TextBlock:
		c.paragraph(n, ctx)
	case *ast.List:
		c.list(node, ctx)
	case *ast.FencedCodeBlock:
		c.codeLines(node.Lines(), ctx)
	case *ast.CodeBlock:
		c.codeLines(node.Lines(), ctx)
	case *ast.Blockquote:
		child := blockContext{
			prefix: ctx.indent + "　　",
			indent: ctx.indent + "　　",
			italic: true,
		}
		for sub := n.FirstChild(); sub != nil; sub = sub.NextSibling() {
			c.block(sub, child)
			child.prefix = child.indent
		}
	case *ast.ThematicBreak:
		c.doc.AddParagraph(types.Paragraph{
			Text:      strings.Repeat("—", 10),
			Alignment: types.AlignCenter,
			Runs:      []types.Run{{Text: strings.Repeat("—", 10)}},
		})
	case *extast.Table:
		c.table(node)
	default:
		// Unknown block kinds (raw HTML and friends) contribute nothing.
	}
}

func (c *converter) heading(n *ast.Heading) {
	bold := true
	runs := c.inlines(n, runStyle{bold: &bold, size: headingSizes[n.Level]})
	p := types.Paragraph{
		StyleName: fmt.Sprintf("Heading %d", n.Level),
		Runs:      runs,
	}
	p.Text = joinRunText(runs)
	c.doc.AddParagraph(p)
}

func (c *converter) paragraph(n ast.Node, ctx blockContext) {
	style := runStyle{}
	if ctx.italic {
		yes := true
		style.italic = &yes
	}
	runs := c.inlines(n, style)
	if ctx.prefix != "" {
		runs = append([]types.Run{{Text: ctx.prefix, Italic: style.italic}}, runs...)
	}
	if len(runs) == 0 {
		return
	}
	p := types.Paragraph{Runs: runs}
	p.Text = joinRunText(runs)
	c.doc.AddParagraph(p)
}

func (c *converter) list(n *ast.List, ctx blockContext) {
	index := n.Start
	if index == 0 {
		index = 1
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		child := blockContext{
			prefix: ctx.indent + marker,
			indent: ctx.indent + "    ",
			italic: ctx.italic,
		}
		for sub := item.FirstChild(); sub != nil; sub = sub.NextSibling() {
			c.block(sub, child)
			child.prefix = child.indent
		}
	}
}

func (c *converter) codeLines(lines *text.Segments, ctx blockContext) {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.source))
	}
	content := strings.TrimRight(sb.String(), "\n")
	if content == "" {
		return
	}
	for _, line := range strings.Split(content, "\n") {
		txt := ctx.indent + line
		c.doc.AddParagraph(types.Paragraph{
			Text: txt,
			Runs: []types.Run{{Text: txt, FontName: codeFont}},
		})
	}
}

func (c *converter) table(n *extast.Table) {
	var table types.Table
	bold := true
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		header := false
		var rowNode ast.Node = row
		if h, ok := row.(*extast.TableHeader); ok {
			header = true
			rowNode = h
		}
		var cells []types.Cell
		for cell := rowNode.FirstChild(); cell != nil; cell = cell.NextSibling() {
			style := runStyle{}
			if header {
				style.bold = &bold
			}
			runs := c.inlines(cell, style)
			p := types.Paragraph{Runs: runs}
			p.Text = joinRunText(runs)
			cells = append(cells, types.Cell{Paragraphs: []types.Paragraph{p}})
		}
		table.Rows = append(table.Rows, cells)
	}
	c.doc.AddTable(table)
}

// runStyle is inherited inline formatting while descending emphasis and
// code spans.
type runStyle struct {
	bold   *bool
	italic *bool
	font   string
	size   float64
}

func (c *converter) inlines(n ast.Node, style runStyle) []types.Run {
	var runs []types.Run
	c.collectInlines(n, style, &runs)
	return runs
}

func (c *converter) collectInlines(n ast.Node, style runStyle, runs *[]types.Run) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			c.appendRun(runs, string(node.Segment.Value(c.source)), style)
			if node.SoftLineBreak() || node.HardLineBreak() {
				c.appendRun(runs, "\n", style)
			}
		case *ast.String:
			c.appendRun(runs, string(node.Value), style)
		case *ast.Emphasis:
			sub := style
			if node.Level >= 2 {
				yes := true
				sub.bold = &yes
			} else {
				yes := true
				sub.italic = &yes
			}
			c.collectInlines(node, sub, runs)
		case *ast.CodeSpan:
			sub := style
			sub.font = codeFont
			c.collectInlines(node, sub, runs)
		case *ast.Link:
			c.collectInlines(node, style, runs)
		case *ast.Image:
			// Images cannot be embedded from Markdown alone; keep the
			// alt text so the content is not silently dropped.
			c.collectInlines(node, style, runs)
		case *ast.AutoLink:
			c.appendRun(runs, string(node.URL(c.source)), style)
		default:
			c.collectInlines(child, style, runs)
		}
	}
}

func (c *converter) appendRun(runs *[]types.Run, text string, style runStyle) {
	if text == "" {
		return
	}
	*runs = append(*runs, types.Run{
		Text:     text,
		Bold:     style.bold,
		Italic:   style.italic,
		FontName: style.font,
		FontSize: style.size,
	})
}

func joinRunText(runs []types.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
