package docx

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/czfsss/word-tool/internal/anchor"
	"github.com/czfsss/word-tool/pkg/types"
)

const (
	commentsPart     = "word/comments.xml"
	contentTypesPart = "[Content_Types].xml"
	documentRelsPart = "word/_rels/document.xml.rels"

	commentsContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
	commentsRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	wordprocessingNS    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// DefaultAuthor is the comment author used when the caller supplies none.
const DefaultAuthor = "批注者"

// ApplyOptions controls how placements are written into the document.
type ApplyOptions struct {
	// Author is the comment author name; empty means DefaultAuthor.
	Author string
	// Initials for the comment author; empty derives them from Author.
	Initials string
	// InlineFallback writes visible highlighted bracket markers into the
	// body text instead of native comments. Used when a consumer cannot
	// display the comments layer.
	InlineFallback bool
	// NoRanges disables multi-paragraph comment ranges. Placements that
	// span paragraphs then attach to their first paragraph with the range
	// note appended to the payload.
	NoRanges bool
	// Now supplies timestamps; nil means time.Now.
	Now func() time.Time
}

// opKind says what one paragraph-level edit contributes to a comment.
type opKind int

const (
	opPoint opKind = iota // whole comment anchored in one paragraph
	opStart               // range start in the first paragraph
	opEnd                 // range end plus reference in the last paragraph
	opInline              // visible marker instead of a native comment
)

type commentOp struct {
	kind    opKind
	paraIdx int
	target  string // matched substring; empty anchors the whole paragraph
	id      int
	marker  string // inline marker text, opInline only
}

type commentEntry struct {
	id   int
	text string
}

// ApplyComments writes the given placements into the document as Word
// comments (or inline markers), updating the package parts in place.
// Placements referencing paragraphs the document does not have are
// counted as failed and skipped.
func (f *File) ApplyComments(placements []types.Placement, opts ApplyOptions) (types.ApplyStats, error) {
	var stats types.ApplyStats
	if len(placements) == 0 {
		return stats, nil
	}
	if opts.Author == "" {
		opts.Author = DefaultAuthor
	}
	if opts.Initials == "" {
		opts.Initials = string([]rune(opts.Author)[:1])
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	nextID := f.maxCommentID() + 1
	var ops []commentOp
	var entries []commentEntry

	for _, pl := range placements {
		if !f.validPlacement(&pl) {
			stats.Failed++
			continue
		}
		switch {
		case opts.InlineFallback:
			marker := fmt.Sprintf(" [批注by %s %s: %s]",
				opts.Author, now().Format("2006-01-02 15:04"), inlinePayload(&pl))
			ops = append(ops, commentOp{
				kind:    opInline,
				paraIdx: pl.Paragraphs[0].Index,
				target:  pl.Matched[0],
				marker:  marker,
			})
			stats.Applied++
			stats.Degraded++
		case pl.Spans() && !opts.NoRanges:
			last := len(pl.Paragraphs) - 1
			ops = append(ops,
				commentOp{kind: opStart, paraIdx: pl.Paragraphs[0].Index, target: pl.Matched[0], id: nextID},
				commentOp{kind: opEnd, paraIdx: pl.Paragraphs[last].Index, target: pl.Matched[last], id: nextID},
			)
			entries = append(entries, commentEntry{id: nextID, text: pl.Comment})
			nextID++
			stats.Applied++
		case pl.Spans():
			ops = append(ops, commentOp{
				kind:    opPoint,
				paraIdx: pl.Paragraphs[0].Index,
				target:  pl.Matched[0],
				id:      nextID,
			})
			entries = append(entries, commentEntry{id: nextID, text: pl.Comment + pl.RangeNote})
			nextID++
			stats.Applied++
			stats.Degraded++
		default:
			ops = append(ops, commentOp{
				kind:    opPoint,
				paraIdx: pl.Paragraphs[0].Index,
				target:  pl.Matched[0],
				id:      nextID,
			})
			entries = append(entries, commentEntry{id: nextID, text: pl.Comment})
			nextID++
			stats.Applied++
		}
	}
	if len(ops) == 0 {
		return stats, nil
	}

	if err := f.spliceOps(ops); err != nil {
		return stats, err
	}
	if len(entries) > 0 {
		f.writeCommentEntries(entries, opts.Author, opts.Initials, now())
		f.registerCommentsPart()
	}
	return stats, nil
}

// validPlacement checks that the placement's paragraph indexes all map to
// known paragraph spans and the matched slice is parallel.
func (f *File) validPlacement(pl *types.Placement) bool {
	if len(pl.Paragraphs) == 0 || len(pl.Matched) != len(pl.Paragraphs) {
		return false
	}
	for _, ref := range pl.Paragraphs {
		if ref.Index < 0 || ref.Index >= len(f.spans) {
			return false
		}
	}
	return true
}

// inlinePayload is the marker body: the comment, with the range note for
// placements that span paragraphs.
func inlinePayload(pl *types.Placement) string {
	if pl.Spans() {
		return pl.Comment + pl.RangeNote
	}
	return pl.Comment
}

// spliceOps rewrites the affected paragraphs in word/document.xml and
// refreshes the parsed document and span index.
func (f *File) spliceOps(ops []commentOp) error {
	byPara := make(map[int][]commentOp)
	for _, op := range ops {
		byPara[op.paraIdx] = append(byPara[op.paraIdx], op)
	}
	indexes := make([]int, 0, len(byPara))
	for idx := range byPara {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	data := f.parts[documentPart]
	var sb strings.Builder
	var prev int64
	for _, idx := range indexes {
		sp := f.spans[idx]
		rewritten, err := rewritePara(data[sp.Start:sp.End], byPara[idx])
		if err != nil {
			return fmt.Errorf("rewriting paragraph %d: %w", idx, err)
		}
		sb.Write(data[prev:sp.Start])
		sb.Write(rewritten)
		prev = sp.End
	}
	sb.Write(data[prev:])
	f.parts[documentPart] = []byte(sb.String())

	return f.refresh()
}

// refresh re-parses the document part after an edit so spans and the
// abstract document stay consistent for any further operation.
func (f *File) refresh() error {
	styles := parseStyles(f.parts["word/styles.xml"])
	doc, spans, err := parseDocument(f.parts[documentPart], styles)
	if err != nil {
		return fmt.Errorf("re-parsing edited document: %w", err)
	}
	f.doc = doc
	f.spans = spans
	return nil
}

// rewritePara applies all ops for one paragraph. Each op anchors either
// around the run containing its matched substring, or around the whole
// paragraph content when no single run carries it.
func rewritePara(paraXML []byte, ops []commentOp) ([]byte, error) {
	layout, err := scanPara(paraXML)
	if err != nil {
		return nil, err
	}

	if layout.selfClosing {
		var body strings.Builder
		for _, op := range ops {
			start, end := wholeParaXML(op)
			body.WriteString(start)
			body.WriteString(end)
		}
		return reopenSelfClosing(paraXML, body.String()), nil
	}

	claimed := make(map[int]bool)
	var edits []edit
	for _, op := range ops {
		runIdx := -1
		if op.target != "" {
			for i, rs := range layout.runs {
				if !claimed[i] && strings.Contains(rs.text, op.target) {
					runIdx = i
					break
				}
			}
		}
		if runIdx < 0 {
			start, end := wholeParaXML(op)
			if start != "" {
				edits = append(edits, edit{start: layout.contentStart, end: layout.contentStart, text: start})
			}
			if end != "" {
				edits = append(edits, edit{start: layout.closeStart, end: layout.closeStart, text: end})
			}
			continue
		}
		claimed[runIdx] = true
		rs := layout.runs[runIdx]
		edits = append(edits, edit{start: rs.start, end: rs.end, text: splitRunXML(rs, op)})
	}
	return applyEdits(paraXML, edits), nil
}

// wholeParaXML returns the (start-insert, end-insert) fragments for an op
// that anchors around the whole paragraph content.
func wholeParaXML(op commentOp) (string, string) {
	switch op.kind {
	case opPoint:
		return rangeStartXML(op.id), rangeEndXML(op.id)
	case opStart:
		return rangeStartXML(op.id), ""
	case opEnd:
		return "", rangeEndXML(op.id)
	case opInline:
		return "", markerRunXML(op.marker)
	}
	return "", ""
}

// splitRunXML rebuilds one run with the op's comment markup wrapped
// around the matched portion of its text.
func splitRunXML(rs runSpan, op commentOp) string {
	before, hit, after, ok := anchor.SplitRun(types.Run{Text: rs.text}, op.target)
	if !ok {
		return serializeRun(rs.rPr, rs.text)
	}

	var sb strings.Builder
	if before != nil {
		sb.WriteString(serializeRun(rs.rPr, before.Text))
	}
	switch op.kind {
	case opPoint:
		sb.WriteString(rangeStartXML(op.id))
		sb.WriteString(serializeRun(rs.rPr, hit.Text))
		sb.WriteString(rangeEndXML(op.id))
	case opStart:
		sb.WriteString(rangeStartXML(op.id))
		sb.WriteString(serializeRun(rs.rPr, hit.Text))
	case opEnd:
		sb.WriteString(serializeRun(rs.rPr, hit.Text))
		sb.WriteString(rangeEndXML(op.id))
	case opInline:
		sb.WriteString(serializeRun(withHighlight(rs.rPr), hit.Text))
		sb.WriteString(markerRunXML(op.marker))
	}
	if after != nil {
		sb.WriteString(serializeRun(rs.rPr, after.Text))
	}
	return sb.String()
}

func rangeStartXML(id int) string {
	return fmt.Sprintf(`<w:commentRangeStart w:id="%d"/>`, id)
}

func rangeEndXML(id int) string {
	return fmt.Sprintf(`<w:commentRangeEnd w:id="%d"/><w:r><w:commentReference w:id="%d"/></w:r>`, id, id)
}

func markerRunXML(marker string) string {
	return `<w:r><w:rPr><w:color w:val="FF0000"/><w:highlight w:val="yellow"/></w:rPr>` +
		`<w:t xml:space="preserve">` + escapeXML(marker) + `</w:t></w:r>`
}

var commentIDPattern = regexp.MustCompile(`w:id="(\d+)"`)

// maxCommentID scans an existing comments part for the highest comment id
// so new ids never collide.
func (f *File) maxCommentID() int {
	data, ok := f.parts[commentsPart]
	if !ok {
		return 0
	}
	max := 0
	for _, m := range commentIDPattern.FindAllSubmatch(data, -1) {
		if id, err := strconv.Atoi(string(m[1])); err == nil && id > max {
			max = id
		}
	}
	return max
}

// writeCommentEntries appends the new comment bodies to word/comments.xml,
// creating the part when the document has none.
func (f *File) writeCommentEntries(entries []commentEntry, author, initials string, at time.Time) {
	var sb strings.Builder
	date := at.UTC().Format("2006-01-02T15:04:05Z")
	for _, e := range entries {
		fmt.Fprintf(&sb,
			`<w:comment w:id="%d" w:author="%s" w:date="%s" w:initials="%s"><w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p></w:comment>`,
			e.id, escapeXML(author), date, escapeXML(initials), escapeXML(e.text))
	}

	existing, ok := f.parts[commentsPart]
	if ok {
		if idx := strings.LastIndex(string(existing), "</w:comments>"); idx >= 0 {
			f.setPart(commentsPart, []byte(string(existing[:idx])+sb.String()+string(existing[idx:])))
			return
		}
	}
	content := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:comments xmlns:w="` + wordprocessingNS + `">` + sb.String() + `</w:comments>`
	f.setPart(commentsPart, []byte(content))
}

// registerCommentsPart makes sure the comments part is declared in the
// content types and related to the main document.
func (f *File) registerCommentsPart() {
	ct := string(f.parts[contentTypesPart])
	if !strings.Contains(ct, `PartName="/word/comments.xml"`) {
		override := `<Override PartName="/word/comments.xml" ContentType="` + commentsContentType + `"/>`
		if idx := strings.LastIndex(ct, "</Types>"); idx >= 0 {
			f.setPart(contentTypesPart, []byte(ct[:idx]+override+ct[idx:]))
		}
	}

	rels, ok := f.parts[documentRelsPart]
	if !ok {
		content := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
		rels = []byte(content)
	}
	if strings.Contains(string(rels), `Target="comments.xml"`) {
		return
	}
	rel := fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="comments.xml"/>`,
		f.nextRelID(string(rels)), commentsRelType)
	if idx := strings.LastIndex(string(rels), "</Relationships>"); idx >= 0 {
		f.setPart(documentRelsPart, []byte(string(rels[:idx])+rel+string(rels[idx:])))
	}
}

var relIDPattern = regexp.MustCompile(`Id="rId(\d+)"`)

func (f *File) nextRelID(rels string) int {
	max := 0
	for _, m := range relIDPattern.FindAllStringSubmatch(rels, -1) {
		if id, err := strconv.Atoi(m[1]); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}
