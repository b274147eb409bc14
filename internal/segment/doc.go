// Package segment divides a document into a bounded number of semantically
// coherent chunks for downstream retrieval and indexing.
//
// The segmenter walks paragraphs and tables in document order and groups
// them at heading boundaries:
//
//	cfg := segment.NewConfig(segment.DocTypeContract)
//	chunks := segment.Segment(doc, cfg)
//	chunks = segment.LimitChunks(chunks, 30)
//
// # Heading Detection
//
// IsTitle is a deliberately heuristic, explainable rule cascade, not a
// model. Strong structural signals decide first: an explicit heading style
// name short-circuits everything, then genre numbering patterns
// (contract 第X条 clauses, policy 第X章 chapters), center alignment, and
// general numbering. Formatting heuristics (bold ratio, 黑体 fonts,
// oversized type relative to the document median) and weak text features
// (section keywords, short all-caps lines) only apply when structure says
// nothing. Deep numbering like 1.1.1 is treated as sub-clause detail, not
// a heading.
//
// # Chunking Rules
//
// Headings open chunks and consecutive headings share one. A body
// paragraph shorter than the doc-type threshold merges into the open
// chunk; one at or above it closes the open chunk and starts the next
// one. Tables attach to the most recent
// heading context and never split across chunks. No text is ever dropped:
// concatenating the output reproduces every non-empty block in order.
//
// # Bounding
//
// LimitChunks merges adjacent chunks arithmetically so the output never
// exceeds the caller's maximum, preserving order and completeness. It is
// idempotent: bounding an already-bounded list changes nothing.
package segment
