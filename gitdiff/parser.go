// Package gitdiff implements streaming unified diff parsing, using
// bluekeyes/go-gitdiff for identity parsing and hunk validation.
package gitdiff

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/diffpaint"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Event is one unit of parser output: *LineEvent, *BlockEvent,
// *HunkStartEvent or *HunkEndEvent.
type Event interface {
	event()
}

// LineEvent carries a line that is not part of a change block.
type LineEvent struct {
	Line diffpaint.DiffLine
	// Path is the file path named by a file header, without the a/ or b/
	// prefix. Empty for other lines and for /dev/null.
	Path string
	// Identity is the parsed author of an Author header.
	Identity *gitdiff.PatchIdentity
}

// BlockEvent carries a complete change block.
type BlockEvent struct {
	Block diffpaint.ChangeBlock
}

// HunkStartEvent carries a hunk header line.
type HunkStartEvent struct {
	Line diffpaint.DiffLine
	Hunk diffpaint.Hunk
}

// HunkEndEvent marks the end of a hunk.
type HunkEndEvent struct {
	Hunk diffpaint.Hunk
	// Err is set when the hunk body does not match its header counts,
	// typically because the input was truncated.
	Err error
}

func (*LineEvent) event()      {}
func (*BlockEvent) event()     {}
func (*HunkStartEvent) event() {}
func (*HunkEndEvent) event()   {}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

var metaPrefixes = []string{
	"index ",
	"old mode ",
	"new mode ",
	"deleted file mode ",
	"new file mode ",
	"rename from ",
	"rename to ",
	"copy from ",
	"copy to ",
	"similarity index ",
	"dissimilarity index ",
	"Binary files ",
	"GIT binary patch",
}

// Parser reads diff text one line at a time and emits events as soon as
// they are complete. Only the open change block is buffered.
type Parser struct {
	// Log receives debug messages about inconsistent hunks. Optional.
	Log logrus.FieldLogger

	r      *bufio.Reader
	source int
	queue  []Event
	block  diffpaint.ChangeBlock
	hunk   *hunkState
	done   bool
}

type hunkState struct {
	hunk     diffpaint.Hunk
	oldLeft  int
	newLeft  int
	oldNum   int
	newNum   int
	fragment gitdiff.TextFragment
}

// NewParser creates a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: bufio.NewReader(r)}
}

// Next returns the next event, or io.EOF when the input is exhausted.
// Read errors other than io.EOF are returned wrapped.
func (p *Parser) Next() (Event, error) {
	for len(p.queue) == 0 {
		if p.done {
			return nil, io.EOF
		}
		if err := p.step(); err != nil {
			return nil, err
		}
	}
	ev := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return ev, nil
}

// step consumes one input line.
func (p *Parser) step() error {
	raw, err := p.r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "read diff")
	}
	if len(raw) == 0 && err == io.EOF {
		p.flushBlock()
		p.endHunk()
		p.done = true
		return nil
	}
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	p.source++
	p.classify(raw)
	return nil
}

func (p *Parser) classify(raw []byte) {
	line := diffpaint.DiffLine{Raw: raw, Source: p.source, Valid: utf8.Valid(raw)}
	if p.hunk != nil && p.classifyInHunk(line) {
		return
	}
	p.classifyOutside(line)
}

// classifyInHunk handles a line while a hunk is open. It reports false when
// the line ends the hunk and must be classified as outside.
func (p *Parser) classifyInHunk(line diffpaint.DiffLine) bool {
	h := p.hunk
	var marker byte = ' '
	if len(line.Raw) > 0 {
		marker = line.Raw[0]
	}

	switch {
	case marker == ' ' && h.oldLeft > 0 && h.newLeft > 0:
		line.Kind = diffpaint.LineContext
		line.OldNum, line.NewNum = h.oldNum, h.newNum
		h.oldNum++
		h.newNum++
		h.oldLeft--
		h.newLeft--
		p.setText(&line)
		p.flushBlock()
		p.record(gitdiff.OpContext)
		p.emit(&LineEvent{Line: line})
	case marker == '-' && h.oldLeft > 0:
		line.Kind = diffpaint.LineMinus
		line.OldNum = h.oldNum
		h.oldNum++
		h.oldLeft--
		p.setText(&line)
		if len(p.block.Plus) > 0 {
			p.flushBlock()
		}
		p.record(gitdiff.OpDelete)
		p.block.Minus = append(p.block.Minus, line)
	case marker == '+' && h.newLeft > 0:
		line.Kind = diffpaint.LinePlus
		line.NewNum = h.newNum
		h.newNum++
		h.newLeft--
		p.setText(&line)
		p.record(gitdiff.OpAdd)
		p.block.Plus = append(p.block.Plus, line)
	case marker == '\\':
		line.Kind = diffpaint.LineOther
		p.setText(&line)
		p.flushBlock()
		p.emit(&LineEvent{Line: line})
		return true
	default:
		p.flushBlock()
		p.endHunk()
		return false
	}

	if h.oldLeft == 0 && h.newLeft == 0 {
		p.flushBlock()
		p.endHunk()
	}
	return true
}

func (p *Parser) classifyOutside(line diffpaint.DiffLine) {
	p.flushBlock()
	s := string(line.Raw)
	if line.Valid {
		line.Text = s
	}

	ev := &LineEvent{Line: line}
	ev.Line.Kind = diffpaint.LineHeader
	switch {
	case strings.HasPrefix(s, "@@ "):
		if hunk, ok := parseHunkHeader(s); ok {
			p.startHunk(line, hunk)
			return
		}
		ev.Line.Kind = diffpaint.LineOther
	case strings.HasPrefix(s, "commit "):
		ev.Line.Header = diffpaint.HeaderCommit
	case strings.HasPrefix(s, "Author:"):
		ev.Line.Header = diffpaint.HeaderAuthor
		if id, err := gitdiff.ParsePatchIdentity(strings.TrimSpace(strings.TrimPrefix(s, "Author:"))); err == nil {
			ev.Identity = &id
		}
	case strings.HasPrefix(s, "Date:"):
		ev.Line.Header = diffpaint.HeaderDate
	case strings.HasPrefix(s, "diff "):
		ev.Line.Header = diffpaint.HeaderFile
		ev.Path = gitHeaderPath(s)
	case strings.HasPrefix(s, "--- "):
		ev.Line.Header = diffpaint.HeaderFileMinus
		ev.Path = markerPath(s[4:])
	case strings.HasPrefix(s, "+++ "):
		ev.Line.Header = diffpaint.HeaderFilePlus
		ev.Path = markerPath(s[4:])
	case hasMetaPrefix(s):
		ev.Line.Header = diffpaint.HeaderFileMeta
	default:
		ev.Line.Kind = diffpaint.LineOther
	}
	p.emit(ev)
}

func (p *Parser) startHunk(line diffpaint.DiffLine, hunk diffpaint.Hunk) {
	p.endHunk()
	line.Kind = diffpaint.LineHeader
	line.Header = diffpaint.HeaderHunk
	p.emit(&HunkStartEvent{Line: line, Hunk: hunk})
	p.hunk = &hunkState{
		hunk:    hunk,
		oldLeft: hunk.OldCount,
		newLeft: hunk.NewCount,
		oldNum:  hunk.OldStart,
		newNum:  hunk.NewStart,
		fragment: gitdiff.TextFragment{
			Comment:     hunk.Section,
			OldPosition: int64(hunk.OldStart),
			OldLines:    int64(hunk.OldCount),
			NewPosition: int64(hunk.NewStart),
			NewLines:    int64(hunk.NewCount),
		},
	}
	if hunk.OldCount == 0 && hunk.NewCount == 0 {
		p.endHunk()
	}
}

// endHunk completes the open hunk, if any, and checks its body against the header.
func (p *Parser) endHunk() {
	h := p.hunk
	if h == nil {
		return
	}
	p.hunk = nil

	f := &h.fragment
	for _, l := range f.Lines {
		switch l.Op {
		case gitdiff.OpAdd:
			f.LinesAdded++
			f.TrailingContext = 0
		case gitdiff.OpDelete:
			f.LinesDeleted++
			f.TrailingContext = 0
		case gitdiff.OpContext:
			if f.LinesAdded == 0 && f.LinesDeleted == 0 {
				f.LeadingContext++
			} else {
				f.TrailingContext++
			}
		}
	}
	ev := &HunkEndEvent{Hunk: h.hunk}
	if err := f.Validate(); err != nil {
		ev.Err = errors.Wrapf(err, "hunk %s", h.hunk.Range())
		if p.Log != nil {
			p.Log.WithError(err).WithField("hunk", h.hunk.Range()).Debug("hunk does not match its header")
		}
	}
	p.emit(ev)
}

// record notes the op of a hunk body line for validation.
func (p *Parser) record(op gitdiff.LineOp) {
	p.hunk.fragment.Lines = append(p.hunk.fragment.Lines, gitdiff.Line{Op: op})
}

func (p *Parser) flushBlock() {
	if len(p.block.Minus) == 0 && len(p.block.Plus) == 0 {
		return
	}
	p.emit(&BlockEvent{Block: p.block})
	p.block = diffpaint.ChangeBlock{}
}

func (p *Parser) emit(ev Event) {
	p.queue = append(p.queue, ev)
}

// setText strips the diff marker of a hunk body line.
func (p *Parser) setText(line *diffpaint.DiffLine) {
	if !line.Valid || len(line.Raw) == 0 {
		return
	}
	line.Text = string(line.Raw[1:])
}

// parseHunkHeader parses "@@ -a,b +c,d @@ section". Omitted counts are 1.
func parseHunkHeader(s string) (diffpaint.Hunk, bool) {
	m := hunkHeaderRe.FindStringSubmatch(s)
	if m == nil {
		return diffpaint.Hunk{}, false
	}
	num := func(s string) int {
		if s == "" {
			return 1
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return -1
		}
		return n
	}
	h := diffpaint.Hunk{
		OldStart: num(m[1]),
		OldCount: num(m[2]),
		NewStart: num(m[3]),
		NewCount: num(m[4]),
		Section:  m[5],
	}
	if h.OldStart < 0 || h.OldCount < 0 || h.NewStart < 0 || h.NewCount < 0 {
		return diffpaint.Hunk{}, false
	}
	return h, true
}

func hasMetaPrefix(s string) bool {
	for _, prefix := range metaPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// gitHeaderPath extracts the new path from "diff --git a/x b/x".
func gitHeaderPath(s string) string {
	if i := strings.LastIndex(s, " b/"); i >= 0 {
		return s[i+3:]
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return trimSidePrefix(fields[len(fields)-1])
}

// markerPath extracts the path of a ---/+++ header, dropping a trailing timestamp.
func markerPath(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "/dev/null" {
		return ""
	}
	return trimSidePrefix(s)
}

func trimSidePrefix(s string) string {
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}
