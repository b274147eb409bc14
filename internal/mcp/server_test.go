package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czfsss/word-tool/internal/docx"
	"github.com/czfsss/word-tool/pkg/types"
)

func newTestServer() *Server {
	return NewServer(nil)
}

func writeFixture(t *testing.T, dir, name string, texts ...string) string {
	t.Helper()
	doc := &types.Document{}
	for _, text := range texts {
		doc.AddParagraph(types.Paragraph{Text: text, Runs: []types.Run{{Text: text}}})
	}
	data, err := docx.Build(doc, docx.TextFormat{})
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "result content should be text")
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &parsed))
	return parsed
}

func assertMCPError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
}

func TestHandleChunkDocument(t *testing.T) {
	server := newTestServer()
	path := writeFixture(t, t.TempDir(), "合同.docx",
		"第一条 合同标的",
		"甲方向乙方采购钢材十吨。",
		"第二条 付款方式",
		"乙方应当在交货后三十日内付款。",
	)

	result, err := server.handleChunkDocument(t.Context(), callTool(map[string]interface{}{
		"path":     path,
		"doc_type": "contract",
	}))
	require.NoError(t, err)

	chunks := resultJSON(t, result)
	require.Len(t, chunks, 2)
	first, ok := chunks["1"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(first, "第一条 合同标的"))
	assert.Contains(t, first, "采购钢材十吨")
	second, ok := chunks["2"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(second, "第二条 付款方式"))
}

func TestHandleChunkDocument_MaxChunksBound(t *testing.T) {
	server := newTestServer()
	path := writeFixture(t, t.TempDir(), "多段.docx",
		"第一条 甲", "正文一。",
		"第二条 乙", "正文二。",
		"第三条 丙", "正文三。",
	)

	result, err := server.handleChunkDocument(t.Context(), callTool(map[string]interface{}{
		"path":       path,
		"doc_type":   "contract",
		"max_chunks": float64(2),
	}))
	require.NoError(t, err)
	assert.Len(t, resultJSON(t, result), 2)
}

func TestHandleChunkDocument_InvalidParams(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "正常.docx", "正文。")

	cases := []struct {
		name string
		args map[string]interface{}
		code int
	}{
		{"missing path", map[string]interface{}{}, ErrorCodeInvalidParams},
		{"relative path", map[string]interface{}{"path": "相对路径.docx"}, ErrorCodeInvalidParams},
		{"wrong extension", map[string]interface{}{"path": filepath.Join(dir, "文档.txt")}, ErrorCodeInvalidParams},
		{"nonexistent file", map[string]interface{}{"path": filepath.Join(dir, "没有的.docx")}, ErrorCodeInvalidParams},
		{"bad doc_type", map[string]interface{}{"path": path, "doc_type": "novel"}, ErrorCodeInvalidParams},
		{"bad max_chunks", map[string]interface{}{"path": path, "max_chunks": float64(0)}, ErrorCodeInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := server.handleChunkDocument(t.Context(), callTool(tc.args))
			assertMCPError(t, err, tc.code)
		})
	}
}

func TestHandleChunkDocument_NotADocx(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := filepath.Join(dir, "坏文件.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))

	_, err := server.handleChunkDocument(t.Context(), callTool(map[string]interface{}{
		"path": path,
	}))
	assertMCPError(t, err, ErrorCodeInvalidDocument)
}

func TestHandleAddComments(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "合同.docx",
		"甲方应当按期支付价款。",
		"任何一方违约的，应当赔偿损失。",
	)

	result, err := server.handleAddComments(t.Context(), callTool(map[string]interface{}{
		"path":     path,
		"comments": `{"按期支付价款": "付款期限没有约定具体天数", "不存在的原文片段烹饪食谱": "不会命中"}`,
		"author":   "审阅人",
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, float64(2), response["total_comments"])
	assert.Equal(t, float64(1), response["applied"])
	assert.Equal(t, float64(0), response["failed"])
	unmatched, ok := response["unmatched"].([]interface{})
	require.True(t, ok)
	assert.Len(t, unmatched, 1)

	outputPath, ok := response["output_path"].(string)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "合同_批注版.docx"), outputPath)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	reopened, err := docx.Read(data)
	require.NoError(t, err)
	assert.Equal(t, "甲方应当按期支付价款。", reopened.Document().Paragraphs()[0].Paragraph.Text)
}

func TestHandleAddComments_DecodedObject(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "文档.docx", "乙方应当完成验收。")

	result, err := server.handleAddComments(t.Context(), callTool(map[string]interface{}{
		"path": path,
		"comments": map[string]interface{}{
			"完成验收": "验收标准未约定",
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), resultJSON(t, result)["applied"])
}

func TestHandleAddComments_InvalidComments(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "文档.docx", "正文。")

	for name, payload := range map[string]interface{}{
		"malformed json": "not json",
		"all filtered":   `{"--分隔--": "x", "合同原文的问题句": "y"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := server.handleAddComments(t.Context(), callTool(map[string]interface{}{
				"path":     path,
				"comments": payload,
			}))
			assertMCPError(t, err, ErrorCodeInvalidComments)
		})
	}

	_, err := server.handleAddComments(t.Context(), callTool(map[string]interface{}{
		"path": path,
	}))
	assertMCPError(t, err, ErrorCodeInvalidParams)
}

func TestHandleInsertText(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "原文.docx", "原有正文。")

	result, err := server.handleInsertText(t.Context(), callTool(map[string]interface{}{
		"path":     path,
		"text":     "第一行\n第二行",
		"position": "start",
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, true, response["inserted"])
	assert.Equal(t, float64(2), response["paragraphs"])
	assert.Equal(t, "start", response["position"])

	outputPath := response["output_path"].(string)
	assert.Equal(t, filepath.Join(dir, "原文_修改版.docx"), outputPath)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	reopened, err := docx.Read(data)
	require.NoError(t, err)
	paras := reopened.Document().Paragraphs()
	require.Len(t, paras, 3)
	assert.Equal(t, "第一行", paras[0].Paragraph.Text)
	assert.Equal(t, "原有正文。", paras[2].Paragraph.Text)
}

func TestHandleInsertText_Markdown(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	path := writeFixture(t, dir, "报告.docx", "已有内容。")

	result, err := server.handleInsertText(t.Context(), callTool(map[string]interface{}{
		"path":        path,
		"text":        "# 总结\n\n- 完成了验收\n- 提交了报告",
		"is_markdown": true,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, float64(3), response["paragraphs"])
	assert.Equal(t, "end", response["position"])

	data, err := os.ReadFile(response["output_path"].(string))
	require.NoError(t, err)
	reopened, err := docx.Read(data)
	require.NoError(t, err)
	paras := reopened.Document().Paragraphs()
	require.Len(t, paras, 4)
	assert.Equal(t, "总结", paras[1].Paragraph.Text)
	assert.Equal(t, "• 完成了验收", paras[2].Paragraph.Text)
}

func TestHandleInsertText_InvalidParams(t *testing.T) {
	server := newTestServer()
	path := writeFixture(t, t.TempDir(), "文档.docx", "正文。")

	cases := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing text", map[string]interface{}{"path": path}},
		{"bad position", map[string]interface{}{"path": path, "text": "x", "position": "middle"}},
		{"font size too small", map[string]interface{}{"path": path, "text": "x", "font_size": float64(-1)}},
		{"font size too large", map[string]interface{}{"path": path, "text": "x", "font_size": float64(500)}},
		{"bad color", map[string]interface{}{"path": path, "text": "x", "font_color": "彩虹色"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := server.handleInsertText(t.Context(), callTool(tc.args))
			assertMCPError(t, err, ErrorCodeInvalidParams)
		})
	}
}

func TestHandleMarkdownToDocx(t *testing.T) {
	server := newTestServer()
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "会议纪要")

	result, err := server.handleMarkdownToDocx(t.Context(), callTool(map[string]interface{}{
		"markdown":    "# 会议纪要\n\n讨论了交付计划。\n\n| 事项 | 负责人 |\n| --- | --- |\n| 验收 | 张三 |\n",
		"output_path": outputPath,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	written := response["output_path"].(string)
	assert.Equal(t, outputPath+".docx", written)
	assert.Equal(t, float64(3), response["blocks"])

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	reopened, err := docx.Read(data)
	require.NoError(t, err)
	doc := reopened.Document()
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "会议纪要", doc.Blocks[0].Paragraph.Text)
	require.Equal(t, types.BlockTable, doc.Blocks[2].Kind)
	assert.Equal(t, "张三", doc.Blocks[2].Table.Rows[1][1].Text())
}

func TestHandleMarkdownToDocx_InvalidParams(t *testing.T) {
	server := newTestServer()

	_, err := server.handleMarkdownToDocx(t.Context(), callTool(map[string]interface{}{
		"output_path": "/tmp/x.docx",
	}))
	assertMCPError(t, err, ErrorCodeInvalidParams)

	_, err = server.handleMarkdownToDocx(t.Context(), callTool(map[string]interface{}{
		"markdown": "# 标题",
	}))
	assertMCPError(t, err, ErrorCodeInvalidParams)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "合同_批注版", sanitizeFileName("合同_批注版"))
	assert.Equal(t, "a_b_c", sanitizeFileName(`a/b:c`))
	assert.Equal(t, "document", sanitizeFileName("  .. "))
	long := strings.Repeat("长", 120)
	assert.Equal(t, 80, len([]rune(sanitizeFileName(long))))
}

func TestEnsureDocxName(t *testing.T) {
	assert.Equal(t, "/tmp/报告.docx", ensureDocxName("/tmp/报告"))
	assert.Equal(t, "/tmp/报告.docx", ensureDocxName("/tmp/报告.docx"))
	assert.Equal(t, "/tmp/报告.docx", ensureDocxName("/tmp/报告.DOCX"))
	assert.Equal(t, "/tmp/报告.txt.docx", ensureDocxName("/tmp/报告.txt"))
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "/data/合同_批注版.docx", defaultOutputPath("/data/合同.docx", "_批注版"))
}

func TestAuthorInitials(t *testing.T) {
	assert.Equal(t, "审阅", authorInitials("审阅人"))
	assert.Equal(t, "李", authorInitials("李"))
}

func TestValidateDocxPath(t *testing.T) {
	dir := t.TempDir()
	good := writeFixture(t, dir, "好的.docx", "正文。")

	assert.NoError(t, validateDocxPath(good))
	assert.ErrorIs(t, validateDocxPath(""), ErrPathRequired)
	assert.ErrorIs(t, validateDocxPath("相对.docx"), ErrPathNotAbsolute)
	assert.ErrorIs(t, validateDocxPath(filepath.Join(dir, "无.docx")), ErrPathNotFound)
	assert.ErrorIs(t, validateDocxPath(dir), ErrNotFile)

	txt := filepath.Join(dir, "文本.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	assert.ErrorIs(t, validateDocxPath(txt), ErrNotDocx)
}
