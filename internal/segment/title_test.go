package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/czfsss/word-tool/pkg/types"
)

func para(text string) *types.Paragraph {
	return &types.Paragraph{Text: text}
}

func TestIsTitle_StyleNameOverride(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)

	tests := []struct {
		name  string
		style string
		text  string
	}{
		{"english heading style", "Heading 1", "随便什么内容都被当作标题。"},
		{"chinese heading style", "标题 2", "正文一样的句子。"},
		{"title style", "Title", "文档标题"},
		{"chapter style", "chapter head", "第一部分"},
		// Caption text that the exclusion would normally reject.
		{"style beats caption exclusion", "Heading 3", "图1内容"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := para(tt.text)
			p.StyleName = tt.style
			assert.True(t, IsTitle(p, cfg))
		})
	}
}

func TestIsTitle_CaptionExclusion(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	assert.False(t, IsTitle(para("图1系统架构"), cfg))
	assert.False(t, IsTitle(para("表2对比结果"), cfg))
	assert.False(t, IsTitle(para("注：以上数据仅供参考"), cfg))
}

func TestIsTitle_SeparatorAndParenthetical(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	assert.False(t, IsTitle(para("--------"), cfg))
	assert.False(t, IsTitle(para("========"), cfg))
	assert.False(t, IsTitle(para("（以下简称甲方）"), cfg))
	// A parenthetical that closes early is not parenthetical-only; policy
	// numbering like (一) stays matchable.
	p := para("（一）总则")
	assert.True(t, IsTitle(p, NewConfig(DocTypePolicy)))
}

func TestIsTitle_ContractPatterns(t *testing.T) {
	cfg := NewConfig(DocTypeContract)
	for _, text := range []string{
		"第一条 合同标的",
		"第十二条 违约责任",
		"甲方：某某科技有限公司",
		"乙方：某某贸易有限公司",
		"合同编号：HT-2024-001",
		"签订日期：2024年1月1日",
	} {
		assert.True(t, IsTitle(para(text), cfg), "should be a title: %q", text)
	}
}

func TestIsTitle_ContractPatternsInactiveForGeneral(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	assert.False(t, IsTitle(para("甲方：某某科技有限公司"), cfg))
}

func TestIsTitle_PolicyPatterns(t *testing.T) {
	cfg := NewConfig(DocTypePolicy)
	for _, text := range []string{"第一章 总则", "总则", "附则", "（三）考核办法"} {
		assert.True(t, IsTitle(para(text), cfg), "should be a title: %q", text)
	}
}

func TestIsTitle_GeneralNumbering(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	for _, text := range []string{
		"1.1 研究背景",
		"2. 实验方法",
		"III. Results",
		"第三章 系统设计",
		"一、项目概述",
		"INTRODUCTION",
		"附录A：原始数据",
	} {
		assert.True(t, IsTitle(para(text), cfg), "should be a title: %q", text)
	}
}

func TestIsTitle_DeepNumberingException(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	// Three numbering levels are sub-clause detail, and the trailing
	// sentence gives the weak layers nothing to accept.
	assert.False(t, IsTitle(para("1.1.1 本项工作由乙方负责完成，费用另计。"), cfg))
}

func TestIsTitle_CenteredShortLine(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	p := para("项目总结报告")
	p.Alignment = types.AlignCenter
	assert.True(t, IsTitle(p, cfg))

	long := para("这是一个居中的很长很长的段落这是一个居中的很长很长的段落这是一个居中的很长很长的段落这是一个居中的很长很长的段落")
	long.Alignment = types.AlignCenter
	assert.False(t, IsTitle(long, cfg))
}

func TestIsTitle_BoldRuns(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	bold := true
	p := &types.Paragraph{
		Text: "技术方案说明",
		Runs: []types.Run{{Text: "技术方案说明", Bold: &bold}},
	}
	assert.True(t, IsTitle(p, cfg))
}

func TestIsTitle_HeiFontAndOversized(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)

	hei := &types.Paragraph{
		Text: "实施细则说明",
		Runs: []types.Run{{Text: "实施细则说明", FontName: "黑体"}},
	}
	assert.True(t, IsTitle(hei, cfg))

	big := &types.Paragraph{
		Text: "实施细则说明",
		Runs: []types.Run{{Text: "实施细则说明", FontSize: cfg.MedianFontSize * 2}},
	}
	assert.True(t, IsTitle(big, cfg))
}

func TestIsTitle_PlainBody(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	assert.False(t, IsTitle(para("双方经过友好协商，就合作事宜达成如下一致意见。"), cfg))
	assert.False(t, IsTitle(para(""), cfg))
}

func TestIsTitle_TerminalPunctuationBlocksWeakLayer(t *testing.T) {
	cfg := NewConfig(DocTypeGeneral)
	assert.True(t, IsTitle(para("SYSTEM OVERVIEW"), cfg))
	assert.False(t, IsTitle(para("DONE, FINALLY DONE,"), cfg))
}

func TestConfig_MeasureMedianFontSize(t *testing.T) {
	doc := &types.Document{}
	doc.AddParagraph(types.Paragraph{Text: "a", Runs: []types.Run{{Text: "a", FontSize: 10}}})
	doc.AddParagraph(types.Paragraph{Text: "b", Runs: []types.Run{{Text: "b", FontSize: 12}, {Text: "c", FontSize: 14}}})

	cfg := NewConfig(DocTypeGeneral)
	cfg.MeasureMedianFontSize(doc)
	assert.InDelta(t, 12.0, cfg.MedianFontSize, 1e-9)

	empty := NewConfig(DocTypeGeneral)
	empty.MeasureMedianFontSize(&types.Document{})
	assert.InDelta(t, 10.0, empty.MedianFontSize, 1e-9)
}

func TestParseDocType(t *testing.T) {
	dt, err := ParseDocType("")
	assert.NoError(t, err)
	assert.Equal(t, DocTypeGeneral, dt)

	dt, err = ParseDocType("contract")
	assert.NoError(t, err)
	assert.Equal(t, DocTypeContract, dt)

	_, err = ParseDocType("novel")
	assert.Error(t, err)
}
