package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/czfsss/word-tool/internal/anchor"
	"github.com/czfsss/word-tool/internal/docx"
	"github.com/czfsss/word-tool/internal/markdown"
	"github.com/czfsss/word-tool/internal/segment"
	"github.com/czfsss/word-tool/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeInvalidDocument = -32001 // File is not a readable DOCX package
	ErrorCodeEmptyDocument   = -32002 // Document contains no text
	ErrorCodeInvalidComments = -32003 // Comments payload unusable
	ErrorCodeWriteFailed     = -32004 // Output file could not be written
)

const (
	defaultMaxChunks = 30
	defaultFontName  = "宋体"
	defaultFontSize  = 12.0
	// latinFont pairs with the East Asian default for Markdown output.
	latinFont = "Times New Roman"
)

// handleChunkDocument handles the chunk_document tool invocation
func (s *Server) handleChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requiredPath(args)
	if err != nil {
		return nil, err
	}

	docType, err := segment.ParseDocType(getStringDefault(args, "doc_type", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid doc_type", map[string]interface{}{
			"param":  "doc_type",
			"reason": err.Error(),
		})
	}

	maxChunks := getIntDefault(args, "max_chunks", defaultMaxChunks)
	if maxChunks < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_chunks must be at least 1", map[string]interface{}{
			"param": "max_chunks",
			"value": maxChunks,
		})
	}

	file, err := s.openDocument(path)
	if err != nil {
		return nil, err
	}
	doc := file.Document()
	if len(doc.NonEmptyParagraphs()) == 0 {
		return nil, newMCPError(ErrorCodeEmptyDocument, "document contains no text", map[string]interface{}{
			"path": path,
		})
	}

	cfg := segment.NewConfig(docType)
	cfg.MeasureMedianFontSize(doc)
	chunks := segment.LimitChunks(segment.Segment(doc, cfg), maxChunks)

	response := make(map[string]interface{}, len(chunks))
	for i, chunk := range chunks {
		response[strconv.Itoa(i+1)] = chunk
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAddComments handles the add_comments tool invocation
func (s *Server) handleAddComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requiredPath(args)
	if err != nil {
		return nil, err
	}

	comments, err := commentsArgument(args)
	if err != nil {
		return nil, err
	}

	author := getStringDefault(args, "author", docx.DefaultAuthor)
	threshold := anchor.ClampThreshold(getFloatDefault(args, "similarity_threshold", 0))
	outputPath := getStringDefault(args, "output_path", "")
	if outputPath == "" {
		outputPath = defaultOutputPath(path, "_批注版")
	}

	file, err := s.openDocument(path)
	if err != nil {
		return nil, err
	}
	doc := file.Document()

	result, err := s.anchor.Anchor(doc, comments, threshold)
	if err != nil {
		if errors.Is(err, types.ErrEmptyDocument) {
			return nil, newMCPError(ErrorCodeEmptyDocument, "document contains no text", map[string]interface{}{
				"path": path,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "anchoring failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats, err := file.ApplyComments(result.Placements, docx.ApplyOptions{
		Author:   author,
		Initials: authorInitials(author),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "writing comments failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.saveDocument(file, outputPath); err != nil {
		return nil, err
	}

	unmatched := make([]map[string]interface{}, 0, len(result.Unmatched))
	for _, u := range result.Unmatched {
		unmatched = append(unmatched, map[string]interface{}{
			"snippet": u.Snippet,
			"reason":  u.Reason,
		})
	}
	response := map[string]interface{}{
		"total_comments": len(comments),
		"applied":        stats.Applied,
		"degraded":       stats.Degraded,
		"failed":         stats.Failed,
		"unmatched":      unmatched,
		"output_path":    outputPath,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleInsertText handles the insert_text tool invocation
func (s *Server) handleInsertText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requiredPath(args)
	if err != nil {
		return nil, err
	}

	text, ok := args["text"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}

	position, err := docx.ParsePosition(getStringDefault(args, "position", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid position", map[string]interface{}{
			"param":  "position",
			"reason": err.Error(),
		})
	}

	fontSize := getFloatDefault(args, "font_size", defaultFontSize)
	if fontSize <= 0 || fontSize > 200 {
		return nil, newMCPError(ErrorCodeInvalidParams, "font_size out of range", map[string]interface{}{
			"param": "font_size",
			"value": fontSize,
		})
	}

	color, err := docx.ParseColor(getStringDefault(args, "font_color", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid font_color", map[string]interface{}{
			"param":  "font_color",
			"reason": err.Error(),
		})
	}

	format := docx.TextFormat{
		FontName: getStringDefault(args, "font_name", defaultFontName),
		Size:     fontSize,
		Color:    color,
	}

	var paras []types.Paragraph
	if getBoolDefault(args, "is_markdown", false) {
		format.AsciiFont = latinFont
		mdDoc, err := markdown.Convert([]byte(text))
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid markdown", map[string]interface{}{
				"param":  "text",
				"reason": err.Error(),
			})
		}
		paras = flattenParagraphs(mdDoc)
	} else {
		for _, line := range strings.Split(text, "\n") {
			paras = append(paras, types.Paragraph{
				Text: line,
				Runs: []types.Run{{Text: line}},
			})
		}
	}

	outputPath := getStringDefault(args, "output_path", "")
	if outputPath == "" {
		outputPath = defaultOutputPath(path, "_修改版")
	}

	file, err := s.openDocument(path)
	if err != nil {
		return nil, err
	}
	if err := file.InsertParagraphs(paras, position, format); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "inserting text failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := s.saveDocument(file, outputPath); err != nil {
		return nil, err
	}

	response := map[string]interface{}{
		"inserted":    true,
		"paragraphs":  len(paras),
		"position":    string(position),
		"output_path": outputPath,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleMarkdownToDocx handles the markdown_to_docx tool invocation
func (s *Server) handleMarkdownToDocx(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["markdown"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "markdown parameter is required", map[string]interface{}{
			"param":  "markdown",
			"reason": "missing or empty",
		})
	}

	outputPath, ok := args["output_path"].(string)
	if !ok || outputPath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "output_path parameter is required", map[string]interface{}{
			"param":  "output_path",
			"reason": "missing or empty",
		})
	}
	outputPath = ensureDocxName(outputPath)

	doc, err := markdown.Convert([]byte(source))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid markdown", map[string]interface{}{
			"param":  "markdown",
			"reason": err.Error(),
		})
	}

	data, err := docx.Build(doc, docx.TextFormat{
		FontName:  defaultFontName,
		AsciiFont: latinFont,
		Size:      defaultFontSize,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "building document failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, newMCPError(ErrorCodeWriteFailed, "failed to write output file", map[string]interface{}{
			"path":  outputPath,
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"output_path": outputPath,
		"blocks":      len(doc.Blocks),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// requiredPath extracts and validates the path argument shared by the
// document tools.
func requiredPath(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validateDocxPath(path); err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	return path, nil
}

// commentsArgument accepts the dual comments shapes: a JSON string, or the
// already-decoded object / array of objects.
func commentsArgument(args map[string]interface{}) (map[string]string, error) {
	raw, ok := args["comments"]
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "comments parameter is required", map[string]interface{}{
			"param":  "comments",
			"reason": "missing",
		})
	}

	var payload []byte
	if s, isString := raw.(string); isString {
		payload = []byte(s)
	} else {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidComments, "comments are not encodable", map[string]interface{}{
				"error": err.Error(),
			})
		}
		payload = encoded
	}

	comments, err := anchor.ParseComments(payload)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidComments, "comments payload unusable", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return comments, nil
}

// openDocument reads and parses a DOCX file, translating failures into
// MCP errors.
func (s *Server) openDocument(path string) (*docx.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidDocument, "failed to read document", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	file, err := docx.Read(data)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidDocument, "failed to parse document", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return file, nil
}

// saveDocument re-packs the file and writes it to outputPath.
func (s *Server) saveDocument(file *docx.File, outputPath string) error {
	data, err := file.Bytes()
	if err != nil {
		return newMCPError(ErrorCodeInternalError, "failed to serialize document", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return newMCPError(ErrorCodeWriteFailed, "failed to write output file", map[string]interface{}{
			"path":  outputPath,
			"error": err.Error(),
		})
	}
	return nil
}

// flattenParagraphs linearizes a converted document for insertion into an
// existing body. Tables flatten to tab-joined rows since the insertion
// point may sit inside arbitrary body content.
func flattenParagraphs(doc *types.Document) []types.Paragraph {
	var paras []types.Paragraph
	for bi := range doc.Blocks {
		b := &doc.Blocks[bi]
		switch b.Kind {
		case types.BlockParagraph:
			if b.Paragraph != nil {
				paras = append(paras, *b.Paragraph)
			}
		case types.BlockTable:
			if b.Table == nil {
				continue
			}
			for _, line := range strings.Split(b.Table.Text(), "\n") {
				paras = append(paras, types.Paragraph{
					Text: line,
					Runs: []types.Run{{Text: line}},
				})
			}
		}
	}
	return paras
}

// authorInitials takes the first two characters of the author name.
func authorInitials(author string) string {
	runes := []rune(author)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}

// defaultOutputPath derives the output filename from the input, placing
// it next to the source file.
func defaultOutputPath(inputPath, suffix string) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, sanitizeFileName(base+suffix)+".docx")
}

// ensureDocxName sanitizes the filename component of a caller-supplied
// output path and guarantees the .docx extension.
func ensureDocxName(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".docx") {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, sanitizeFileName(base)+".docx")
}

const maxFileNameRunes = 80

// sanitizeFileName replaces characters that are invalid in filenames,
// trims surrounding dots and spaces, and caps the length.
func sanitizeFileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`\/:*?"<>|`, r):
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}
	cleaned := strings.Trim(sb.String(), " .")
	runes := []rune(cleaned)
	if len(runes) > maxFileNameRunes {
		cleaned = string(runes[:maxFileNameRunes])
	}
	if cleaned == "" {
		cleaned = "document"
	}
	return cleaned
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateDocxPath checks that a path points at a readable .docx file
func validateDocxPath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	// Check if path is absolute
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	// Check if path exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if info.IsDir() {
		return ErrNotFile
	}

	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return ErrNotDocx
	}

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a numeric parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotFile         = errors.New("path is a directory, not a file")
	ErrNotDocx         = errors.New("file does not have a .docx extension")
)
