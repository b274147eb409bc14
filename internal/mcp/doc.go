// Package mcp implements the Model Context Protocol (MCP) server for the
// Word document tools.
//
// The server exposes four tools to AI assistants:
//   - chunk_document: Split a document into semantically coherent chunks
//   - add_comments: Attach review comments by fuzzy snippet matching
//   - insert_text: Insert plain or Markdown text into a document
//   - markdown_to_docx: Render Markdown into a new document
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Standard output carries only protocol messages; all logging goes to
// standard error.
//
// # Tool: chunk_document
//
// Split a document for downstream review or retrieval:
//
//	Request:
//	{
//	  "name": "chunk_document",
//	  "arguments": {
//	    "path": "/path/to/contract.docx",
//	    "doc_type": "contract",
//	    "max_chunks": 30
//	  }
//	}
//
//	Response:
//	{
//	  "1": "第一条 合同标的\n...",
//	  "2": "第二条 价款与支付\n...",
//	  "3": "..."
//	}
//
// Chunks are keyed by ordinal starting at "1". Headings are detected per
// doc_type (contract clause numbers, policy chapter numbers, general
// numbering and formatting heuristics) and each chunk carries its heading
// context. When the document yields more than max_chunks chunks, adjacent
// chunks are merged into max_chunks evenly sized groups.
//
// # Tool: add_comments
//
// Attach comments whose quoted snippets may differ from the document text
// (OCR noise, paraphrase, dropped whitespace):
//
//	Request:
//	{
//	  "name": "add_comments",
//	  "arguments": {
//	    "path": "/path/to/contract.docx",
//	    "comments": {"乙方应在三十日内付款": "期限与第5条冲突"},
//	    "author": "审查助手",
//	    "similarity_threshold": 0.8
//	  }
//	}
//
//	Response:
//	{
//	  "total_comments": 1,
//	  "applied": 1,
//	  "degraded": 0,
//	  "failed": 0,
//	  "unmatched": [],
//	  "output_path": "/path/to/contract_批注版.docx"
//	}
//
// Comments that cannot be anchored at the threshold are reported in
// unmatched and skipped; the rest of the batch still applies. Comments
// whose snippet spans paragraphs become native range comments.
//
// # Tool: insert_text
//
// Insert content at the start or end of the body, optionally rendered
// from Markdown, with font name, size and color control.
//
// # Tool: markdown_to_docx
//
// Render standalone Markdown (headings, emphasis, code, lists, quotes,
// tables) into a fresh document.
//
// # Error Handling
//
// Tools return MCPError values with JSON-RPC codes: invalid parameters
// are rejected before any file is touched, unreadable or non-DOCX inputs
// map to dedicated codes, and anchoring misses are reported per comment
// rather than failing the call.
package mcp
