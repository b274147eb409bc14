// Package markdown converts Markdown source into the abstract document
// model, for rendering into DOCX.
//
// The converter walks the goldmark AST directly instead of using a
// renderer: the target is a flat paragraph sequence with run-level
// formatting, not HTML. Structure that DOCX cannot express at that level
// is flattened into text: list nesting becomes indentation, blockquotes
// become indented italic paragraphs, and images keep only their alt text.
// GFM tables are the exception and map onto real document tables.
package markdown
