// Package types provides shared type definitions for the word-tool MCP server.
//
// This package defines the abstract document model consumed by the
// segmentation and anchoring engines, plus the result types they produce.
// It deliberately knows nothing about any container format: the docx layer
// builds a Document from OOXML and maps results back.
//
// # Document Model
//
// A Document is an ordered sequence of Block values. Block is a closed
// tagged variant: a block is either a Paragraph or a Table, discriminated
// by Kind:
//
//	for _, b := range doc.Blocks {
//	    switch b.Kind {
//	    case types.BlockParagraph:
//	        process(b.Paragraph)
//	    case types.BlockTable:
//	        process(b.Table)
//	    }
//	}
//
// Paragraphs carry their text, an optional style name, an optional
// alignment, and the styled runs the text is composed of. Tables are grids
// of cells, each cell holding its own paragraphs.
//
// # Canonical Traversal
//
// Document.Paragraphs defines the one traversal order every engine agrees
// on: body paragraphs in block order, table-cell paragraphs expanded
// row-major at the table's position. ParagraphRef values returned by the
// traversal carry flat indexes that anchoring results (Placement) refer to,
// which is how the write layer maps a placement back onto the container.
//
// # Results
//
// Segmentation produces plain chunk strings (see internal/segment).
// Anchoring produces Placement values (matched paragraphs plus the exact
// substrings within them) and Unmatched records for comments that could
// not be located confidently. Failure to anchor is reported, never guessed.
package types
