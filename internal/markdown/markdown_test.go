package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czfsss/word-tool/pkg/types"
)

func convert(t *testing.T, source string) *types.Document {
	t.Helper()
	doc, err := Convert([]byte(source))
	require.NoError(t, err)
	return doc
}

func paragraphs(doc *types.Document) []types.Paragraph {
	var out []types.Paragraph
	for _, b := range doc.Blocks {
		if b.Kind == types.BlockParagraph && b.Paragraph != nil {
			out = append(out, *b.Paragraph)
		}
	}
	return out
}

func TestConvert_Headings(t *testing.T) {
	doc := convert(t, "# 项目报告\n\n## 背景\n\n正文内容。\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 3)

	h1 := paras[0]
	assert.Equal(t, "项目报告", h1.Text)
	assert.Equal(t, "Heading 1", h1.StyleName)
	require.Len(t, h1.Runs, 1)
	assert.True(t, h1.Runs[0].IsBold())
	assert.Equal(t, 22.0, h1.Runs[0].FontSize)

	h2 := paras[1]
	assert.Equal(t, "背景", h2.Text)
	assert.Equal(t, "Heading 2", h2.StyleName)
	assert.Equal(t, 18.0, h2.Runs[0].FontSize)

	body := paras[2]
	assert.Equal(t, "正文内容。", body.Text)
	assert.Empty(t, body.StyleName)
	assert.False(t, body.Runs[0].IsBold())
}

func TestConvert_Emphasis(t *testing.T) {
	doc := convert(t, "普通**加粗**和*斜体*以及`代码`。\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 1)
	runs := paras[0].Runs
	require.Len(t, runs, 7)

	assert.Equal(t, "普通", runs[0].Text)
	assert.False(t, runs[0].IsBold())

	assert.Equal(t, "加粗", runs[1].Text)
	assert.True(t, runs[1].IsBold())

	assert.Equal(t, "斜体", runs[3].Text)
	assert.True(t, runs[3].IsItalic())
	assert.False(t, runs[3].IsBold())

	assert.Equal(t, "代码", runs[5].Text)
	assert.Equal(t, "Courier New", runs[5].FontName)

	assert.Equal(t, "普通加粗和斜体以及代码。", paras[0].Text)
}

func TestConvert_Lists(t *testing.T) {
	doc := convert(t, "- 苹果\n- 香蕉\n\n1. 第一步\n2. 第二步\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 4)
	assert.Equal(t, "• 苹果", paras[0].Text)
	assert.Equal(t, "• 香蕉", paras[1].Text)
	assert.Equal(t, "1. 第一步", paras[2].Text)
	assert.Equal(t, "2. 第二步", paras[3].Text)
}

func TestConvert_NestedList(t *testing.T) {
	doc := convert(t, "- 外层\n    - 内层\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 2)
	assert.Equal(t, "• 外层", paras[0].Text)
	assert.Equal(t, "    • 内层", paras[1].Text)
}

func TestConvert_CodeBlock(t *testing.T) {
	doc := convert(t, "```\nfunc main() {\n\tprintln(\"hi\")\n}\n```\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 3)
	assert.Equal(t, "func main() {", paras[0].Text)
	assert.Equal(t, "}", paras[2].Text)
	for _, p := range paras {
		require.Len(t, p.Runs, 1)
		assert.Equal(t, "Courier New", p.Runs[0].FontName)
	}
}

func TestConvert_Blockquote(t *testing.T) {
	doc := convert(t, "> 引用的内容\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 1)
	assert.Equal(t, "　　引用的内容", paras[0].Text)
	for _, r := range paras[0].Runs {
		assert.True(t, r.IsItalic())
	}
}

func TestConvert_Table(t *testing.T) {
	doc := convert(t, "| 品名 | 数量 |\n| --- | --- |\n| 钢材 | 10吨 |\n")
	require.Len(t, doc.Blocks, 1)
	require.Equal(t, types.BlockTable, doc.Blocks[0].Kind)
	table := doc.Blocks[0].Table
	require.Len(t, table.Rows, 2)

	header := table.Rows[0]
	require.Len(t, header, 2)
	assert.Equal(t, "品名", header[0].Text())
	require.Len(t, header[0].Paragraphs[0].Runs, 1)
	assert.True(t, header[0].Paragraphs[0].Runs[0].IsBold())

	body := table.Rows[1]
	assert.Equal(t, "钢材", body[0].Text())
	assert.Equal(t, "10吨", body[1].Text())
	assert.False(t, body[0].Paragraphs[0].Runs[0].IsBold())
}

func TestConvert_SoftLineBreak(t *testing.T) {
	doc := convert(t, "第一行\n第二行\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 1)
	assert.Equal(t, "第一行\n第二行", paras[0].Text)
}

func TestConvert_LinkKeepsText(t *testing.T) {
	doc := convert(t, "参见[官方文档](https://example.com)了解详情。\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 1)
	assert.Equal(t, "参见官方文档了解详情。", paras[0].Text)
}

func TestConvert_ThematicBreak(t *testing.T) {
	doc := convert(t, "上文\n\n---\n\n下文\n")
	paras := paragraphs(doc)
	require.Len(t, paras, 3)
	assert.Equal(t, types.AlignCenter, paras[1].Alignment)
	assert.NotEmpty(t, paras[1].Text)
}

func TestConvert_Empty(t *testing.T) {
	doc := convert(t, "")
	assert.Empty(t, doc.Blocks)
}
