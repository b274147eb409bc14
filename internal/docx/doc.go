// Package docx reads and edits Word documents at the OOXML package level.
//
// A File is the opened ZIP container: every part is held as raw bytes, and
// word/document.xml is additionally parsed into the abstract
// types.Document used by the segmentation and anchoring engines. The
// parser records the byte span of each paragraph element in the same
// order the abstract traversal enumerates paragraphs, so a placement's
// paragraph index maps directly back to the XML it must edit.
//
// Edits are byte splices, not full re-serialization. Untouched XML passes
// through verbatim, which preserves formatting, numbering, images and
// anything else this package does not model. Only the paragraphs a
// comment lands in are rebuilt, and within those only the runs that carry
// the matched text.
//
// Comments are written natively: commentRangeStart/commentRangeEnd
// markers plus a commentReference run in the body, comment bodies in
// word/comments.xml, and the content-type and relationship entries the
// part needs. An inline fallback mode writes highlighted bracket markers
// into the body text instead, for consumers that cannot display the
// comments layer.
package docx
