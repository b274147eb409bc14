package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chunkDocumentTool returns the tool definition for chunk_document
func chunkDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_document",
		Description: "Split a Word document into semantically coherent chunks keyed by ordinal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a .docx file",
				},
				"doc_type": map[string]interface{}{
					"type":        "string",
					"description": "Document genre, tunes heading detection and chunk sizing",
					"enum":        []string{"general", "contract", "policy"},
					"default":     "general",
				},
				"max_chunks": map[string]interface{}{
					"type":        "integer",
					"description": "Upper bound on the number of chunks; adjacent chunks are merged evenly to fit",
					"default":     30,
					"minimum":     1,
				},
			},
			Required: []string{"path"},
		},
	}
}

// addCommentsTool returns the tool definition for add_comments
func addCommentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_comments",
		Description: "Attach review comments to a Word document by fuzzily matching each quoted snippet to its paragraph",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a .docx file",
				},
				"comments": map[string]interface{}{
					"description": "Comments as {snippet: comment} object, array of such objects, or a JSON string of either shape",
				},
				"author": map[string]interface{}{
					"type":        "string",
					"description": "Comment author name",
					"default":     "批注者",
				},
				"similarity_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity for a fuzzy match (0.1-1.0)",
					"default":     0.8,
					"minimum":     0.1,
					"maximum":     1.0,
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Where to write the commented document; defaults to the source name with a 批注版 suffix",
				},
			},
			Required: []string{"path", "comments"},
		},
	}
}

// insertTextTool returns the tool definition for insert_text
func insertTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "insert_text",
		Description: "Insert plain or Markdown text at the start or end of a Word document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a .docx file",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to insert; Markdown when is_markdown is true",
				},
				"position": map[string]interface{}{
					"type":        "string",
					"description": "Where to insert the text",
					"enum":        []string{"start", "end"},
					"default":     "end",
				},
				"font_name": map[string]interface{}{
					"type":        "string",
					"description": "Font for the inserted text",
					"default":     "宋体",
				},
				"font_size": map[string]interface{}{
					"type":        "number",
					"description": "Font size in points",
					"default":     12,
				},
				"font_color": map[string]interface{}{
					"type":        "string",
					"description": "Font color: RRGGBB hex or a common Chinese/English color name",
				},
				"is_markdown": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, parse text as Markdown before inserting",
					"default":     false,
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Where to write the modified document; defaults to the source name with a 修改版 suffix",
				},
			},
			Required: []string{"path", "text"},
		},
	}
}

// markdownToDocxTool returns the tool definition for markdown_to_docx
func markdownToDocxTool() mcp.Tool {
	return mcp.Tool{
		Name:        "markdown_to_docx",
		Description: "Render Markdown into a new Word document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"markdown": map[string]interface{}{
					"type":        "string",
					"description": "Markdown source to render",
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Where to write the generated .docx file",
				},
			},
			Required: []string{"markdown", "output_path"},
		},
	}
}
