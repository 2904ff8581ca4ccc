// Package pipeline drives the rendering of a diff stream: parsing, line
// pairing, intra-line diffing, painting and wrapping, written out per hunk.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/align"
	"github.com/fwojciec/diffpaint/ansiwrap"
	"github.com/fwojciec/diffpaint/gitdiff"
	"github.com/fwojciec/diffpaint/lipgloss"
	"github.com/fwojciec/diffpaint/paint"
	"github.com/fwojciec/diffpaint/worddiff"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Compile-time interface verification.
var _ diffpaint.Renderer = (*Pipeline)(nil)

// minGutterWidth is the minimum width of each line number column in the gutter.
const minGutterWidth = 4

// Config holds the resolved rendering parameters.
type Config struct {
	Threshold     float64 // Dissimilarity G above which lines are never paired
	MaxBlockLines int     // Alignment ceiling, zero for none
	MinEqual      int     // Shorter interior Equal runs are coalesced
	Mode          worddiff.Mode
	WordRegexp    string // Overrides Mode when set
	Width         int    // Wrap width, zero disables wrapping
	TabWidth      int
	LineNumbers   bool
	Markers       bool
	Profile       termenv.Profile
	Styles        diffpaint.Styles
}

// Deps holds the collaborators of a Pipeline. All are optional.
type Deps struct {
	Highlighter diffpaint.Highlighter
	Detector    diffpaint.LanguageDetector
	// Decorator renders file and hunk headers. Without one, headers are
	// written as they are, in their role styles.
	Decorator *lipgloss.Decorator
	Log       logrus.FieldLogger
}

// Stats counts what a run has processed.
type Stats struct {
	Hunks          int
	Minus          int
	Plus           int
	Pairs          int
	Overflows      int // Change blocks left unaligned
	EncodingErrors int // Lines passed through as opaque bytes
	Recovered      int // Lines whose rendering failed and were passed through
}

// Pipeline renders diff text. A Pipeline is used for one run at a time.
type Pipeline struct {
	cfg     Config
	deps    Deps
	log     logrus.FieldLogger
	differ  *worddiff.Differ
	painter *paint.Painter
	wrapper *ansiwrap.Wrapper

	stats       Stats
	language    string
	fileRule    bool   // A decorated file header was written for the current file
	minusPath   string // Path of the last --- header
	gutterWidth int
}

// New creates a Pipeline.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	differ := worddiff.NewDiffer(cfg.Mode, cfg.MinEqual)
	if cfg.WordRegexp != "" {
		tok, err := worddiff.NewRegexpTokenizer(cfg.WordRegexp)
		if err != nil {
			return nil, err
		}
		differ.Tokenizer = tok
	}
	log := deps.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{
		cfg:         cfg,
		deps:        deps,
		log:         log,
		differ:      differ,
		painter:     &paint.Painter{Styles: cfg.Styles},
		wrapper:     ansiwrap.New(cfg.Width, cfg.Profile),
		gutterWidth: minGutterWidth,
	}, nil
}

// Stats returns the counters of the last run.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Run reads diff text from r and writes the rendered lines to w, flushing at
// the end of every hunk. It returns nil as soon as w turns out to be closed,
// without reading further input.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	p.stats = Stats{}
	p.language = ""
	p.fileRule = false
	p.minusPath = ""
	p.gutterWidth = minGutterWidth
	bw := bufio.NewWriter(w)
	parser := gitdiff.NewParser(r)
	parser.Log = p.log

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := p.handle(bw, ev); err != nil {
			return p.writeFailed(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return p.writeFailed(err)
	}

	p.log.WithFields(logrus.Fields{
		"hunks":          p.stats.Hunks,
		"minus":          p.stats.Minus,
		"plus":           p.stats.Plus,
		"pairs":          p.stats.Pairs,
		"overflows":      p.stats.Overflows,
		"encodingErrors": p.stats.EncodingErrors,
		"recovered":      p.stats.Recovered,
	}).Debug("rendered diff")
	return nil
}

func (p *Pipeline) writeFailed(err error) error {
	if IsOutputClosed(err) {
		p.log.WithError(err).Debug("output closed")
		return nil
	}
	return errors.Wrap(err, "write output")
}

// IsOutputClosed reports whether err means the reader of the output went away.
func IsOutputClosed(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, diffpaint.ErrOutputClosed)
}

func (p *Pipeline) handle(w *bufio.Writer, ev gitdiff.Event) error {
	switch e := ev.(type) {
	case *gitdiff.LineEvent:
		return p.handleLine(w, e)
	case *gitdiff.BlockEvent:
		return p.renderBlock(w, e.Block)
	case *gitdiff.HunkStartEvent:
		return p.startHunk(w, e)
	case *gitdiff.HunkEndEvent:
		return w.Flush()
	}
	return errors.Errorf("unexpected event %T", ev)
}

func (p *Pipeline) handleLine(w *bufio.Writer, e *gitdiff.LineEvent) error {
	line := e.Line
	switch line.Kind {
	case diffpaint.LineContext:
		return p.renderLine(w, line, nil)
	case diffpaint.LineHeader:
		return p.renderHeader(w, e)
	}
	return writeRaw(w, line.Raw)
}

func (p *Pipeline) renderHeader(w *bufio.Writer, e *gitdiff.LineEvent) error {
	line := e.Line
	switch line.Header {
	case diffpaint.HeaderFile:
		p.fileRule = false
		p.minusPath = ""
		p.detect(e.Path)
		if d := p.deps.Decorator; d != nil && e.Path != "" {
			p.fileRule = true
			return writeString(w, d.FileHeader(e.Path))
		}
	case diffpaint.HeaderFileMinus:
		p.minusPath = e.Path
		if p.deps.Decorator != nil {
			return nil
		}
	case diffpaint.HeaderFilePlus:
		path := e.Path
		if path == "" {
			path = p.minusPath
		}
		p.detect(path)
		if d := p.deps.Decorator; d != nil {
			if p.fileRule {
				return nil
			}
			p.fileRule = true
			return writeString(w, d.FileHeader(path))
		}
	case diffpaint.HeaderAuthor:
		if e.Identity != nil {
			p.log.WithField("author", e.Identity.String()).Debug("commit author")
		}
	}

	if !line.Valid {
		return writeRaw(w, line.Raw)
	}
	var style diffpaint.Style
	switch line.Header {
	case diffpaint.HeaderFile, diffpaint.HeaderFileMinus, diffpaint.HeaderFilePlus:
		style = p.cfg.Styles.FileHeader
	case diffpaint.HeaderCommit:
		style = p.cfg.Styles.Commit
	}
	return p.writeWrapped(w, []ansiwrap.Run{{Text: line.Text, Style: style}}, nil)
}

func (p *Pipeline) detect(path string) {
	if p.deps.Detector == nil || path == "" {
		return
	}
	p.language = p.deps.Detector.DetectFromPath(path)
}

func (p *Pipeline) startHunk(w *bufio.Writer, e *gitdiff.HunkStartEvent) error {
	p.stats.Hunks++
	h := e.Hunk
	p.gutterWidth = max(minGutterWidth, digitWidth(h.OldStart+h.OldCount-1), digitWidth(h.NewStart+h.NewCount-1))

	if d := p.deps.Decorator; d != nil {
		return writeString(w, d.HunkHeader(h))
	}
	if !e.Line.Valid {
		return writeRaw(w, e.Line.Raw)
	}
	return p.writeWrapped(w, []ansiwrap.Run{{Text: e.Line.Text, Style: p.cfg.Styles.HunkHeader}}, nil)
}

// renderBlock pairs the lines of a change block and renders them in input order.
func (p *Pipeline) renderBlock(w *bufio.Writer, b diffpaint.ChangeBlock) error {
	p.stats.Minus += len(b.Minus)
	p.stats.Plus += len(b.Plus)

	minus := p.contents(b.Minus)
	plus := p.contents(b.Plus)
	res := align.Lines(minus, plus, p.differ, align.Options{
		Threshold: p.cfg.Threshold,
		MaxLines:  p.cfg.MaxBlockLines,
		Opaque: func(isMinus bool, i int) bool {
			if isMinus {
				return !b.Minus[i].Valid
			}
			return !b.Plus[i].Valid
		},
	})

	if res.Overflow {
		p.stats.Overflows++
		p.log.WithError(diffpaint.ErrAlignmentOverflow).WithFields(logrus.Fields{
			"minus": len(minus),
			"plus":  len(plus),
			"line":  b.Minus[0].Source,
		}).Debug("rendering change block unpaired")
	}

	minusEdits := make([]*paint.Side, len(minus))
	plusEdits := make([]*paint.Side, len(plus))
	for _, pair := range res.Pairs {
		script := p.differ.Diff(minus[pair.Minus], plus[pair.Plus])
		minusEdits[pair.Minus] = paint.SideOf(script, true)
		plusEdits[pair.Plus] = paint.SideOf(script, false)
	}
	p.stats.Pairs += len(res.Pairs)

	for i, line := range b.Minus {
		if err := p.renderLine(w, line, minusEdits[i]); err != nil {
			return err
		}
	}
	for j, line := range b.Plus {
		if err := p.renderLine(w, line, plusEdits[j]); err != nil {
			return err
		}
	}
	return nil
}

// contents returns the tab-expanded text of each line, empty for opaque lines.
func (p *Pipeline) contents(lines []diffpaint.DiffLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l.Valid {
			out[i] = p.content(l)
		}
	}
	return out
}

func (p *Pipeline) content(l diffpaint.DiffLine) string {
	return ansiwrap.ExpandTabs(l.Text, p.cfg.TabWidth, 0)
}

// renderLine renders one context, minus or plus line. Lines that are not
// valid UTF-8, and lines whose rendering fails, are written as they are.
func (p *Pipeline) renderLine(w *bufio.Writer, line diffpaint.DiffLine, edits *paint.Side) error {
	if !line.Valid {
		p.stats.EncodingErrors++
		p.log.WithError(diffpaint.ErrEncoding).WithField("line", line.Source).Debug("passing line through")
		return writeRaw(w, line.Raw)
	}

	lines, err := p.paintLine(line, edits)
	if err != nil {
		p.stats.Recovered++
		p.log.WithError(err).WithField("line", line.Source).Warn("passing line through")
		return writeRaw(w, line.Raw)
	}
	for _, l := range lines {
		if err := writeString(w, l); err != nil {
			return err
		}
	}
	return nil
}

// paintLine builds the physical output lines of one logical line. A panic in
// a collaborator is returned as an error.
func (p *Pipeline) paintLine(line diffpaint.DiffLine, edits *paint.Side) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("render panic: %v", r)
		}
	}()

	text := p.content(line)
	var syntax []diffpaint.SyntaxSpan
	if p.deps.Highlighter != nil && p.language != "" {
		syntax = p.deps.Highlighter.Highlight(p.language, text)
	}
	spans := p.painter.Paint(paint.Line{Text: text, Kind: line.Kind, Syntax: syntax, Edits: edits})

	styles := p.cfg.Styles
	var gutter, marker diffpaint.Style
	var fill *diffpaint.Style
	prefix := " "
	switch line.Kind {
	case diffpaint.LineMinus:
		gutter, marker, prefix = styles.LineNumberMinus, styles.Minus, "-"
		if edits != nil {
			marker = styles.MinusNonEmph
		}
		fill = &marker
	case diffpaint.LinePlus:
		gutter, marker, prefix = styles.LineNumberPlus, styles.Plus, "+"
		if edits != nil {
			marker = styles.PlusNonEmph
		}
		fill = &marker
	default:
		gutter, marker = styles.LineNumber, styles.Zero
	}

	var runs []ansiwrap.Run
	if p.cfg.LineNumbers {
		runs = append(runs, ansiwrap.Run{Text: formatGutter(line.OldNum, line.NewNum, p.gutterWidth), Style: gutter})
	}
	if p.cfg.Markers {
		runs = append(runs, ansiwrap.Run{Text: prefix, Style: marker})
	}
	runs = append(runs, paint.Runs(text, spans)...)

	p.wrapper.Fill = fill
	return p.wrapper.Wrap(runs), nil
}

func (p *Pipeline) writeWrapped(w *bufio.Writer, runs []ansiwrap.Run, fill *diffpaint.Style) error {
	p.wrapper.Fill = fill
	for _, l := range p.wrapper.Wrap(runs) {
		if err := writeString(w, l); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func writeRaw(w *bufio.Writer, raw []byte) error {
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// formatGutter formats the gutter column with old and new line numbers.
// Format: "  12   14 " for lines with both numbers
// Format: "  12      " for deleted lines (no new line number - empty space)
func formatGutter(oldLineNum, newLineNum, width int) string {
	return fmt.Sprintf("%s %s ", formatLineNum(oldLineNum, width), formatLineNum(newLineNum, width))
}

// formatLineNum returns a right-aligned number, or empty space for zero (missing) line numbers.
func formatLineNum(num, width int) string {
	if num == 0 {
		return strings.Repeat(" ", width)
	}
	return fmt.Sprintf("%*d", width, num)
}

func digitWidth(n int) int {
	if n <= 0 {
		return 1
	}
	width := 0
	for n > 0 {
		width++
		n /= 10
	}
	return width
}
