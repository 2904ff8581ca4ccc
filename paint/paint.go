// Package paint composes syntax highlighting and diff emphasis into styled spans.
package paint

import (
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/ansiwrap"
	"github.com/fwojciec/diffpaint/worddiff"
)

// Side is one side of an intra-line edit script.
type Side struct {
	Tokens []diffpaint.Token
	Ops    []diffpaint.EditOp
	Minus  bool // Tokens index the minus ranges of Ops
}

// SideOf returns the minus or plus side of a script.
func SideOf(s worddiff.Script, minus bool) *Side {
	if minus {
		return &Side{Tokens: s.Minus, Ops: s.Ops, Minus: true}
	}
	return &Side{Tokens: s.Plus, Ops: s.Ops}
}

// Line is the input of a single paint operation.
type Line struct {
	Text   string
	Kind   diffpaint.LineKind
	Syntax []diffpaint.SyntaxSpan
	Edits  *Side // Nil unless the line is paired
}

// Painter merges the syntax layer of a line with its diff layer.
type Painter struct {
	Styles diffpaint.Styles
}

// Paint returns contiguous spans covering the whole of line.Text in which no
// two neighbours share a style. Each byte starts in its syntax style and takes
// every field its diff style specifies.
func (p *Painter) Paint(line Line) []diffpaint.StyledSpan {
	n := len(line.Text)
	if n == 0 {
		return nil
	}

	styles := make([]diffpaint.Style, n)
	for _, s := range line.Syntax {
		start, end := clip(s.Start, s.End, n)
		for b := start; b < end; b++ {
			styles[b] = styles[b].Overlay(s.Style)
		}
	}

	switch line.Kind {
	case diffpaint.LineContext:
		overlay(styles, 0, n, p.Styles.Zero)
	case diffpaint.LineMinus:
		p.paintChange(styles, line.Edits, p.Styles.Minus, p.Styles.MinusNonEmph, p.Styles.MinusEmph)
	case diffpaint.LinePlus:
		p.paintChange(styles, line.Edits, p.Styles.Plus, p.Styles.PlusNonEmph, p.Styles.PlusEmph)
	}

	return coalesce(styles)
}

func (p *Painter) paintChange(styles []diffpaint.Style, edits *Side, whole, nonEmph, emph diffpaint.Style) {
	n := len(styles)
	if edits == nil {
		overlay(styles, 0, n, whole)
		return
	}

	// Every byte gets one diff style: emphasis inside change ops, the
	// non-emphasized style everywhere else.
	diff := make([]diffpaint.Style, n)
	for b := range diff {
		diff[b] = nonEmph
	}
	for _, op := range edits.Ops {
		if op.Kind == diffpaint.Equal {
			continue
		}
		lo, hi := op.PlusStart, op.PlusEnd
		if edits.Minus {
			lo, hi = op.MinusStart, op.MinusEnd
		}
		if lo >= hi {
			continue
		}
		start, end := worddiff.ByteRange(edits.Tokens, lo, hi)
		start, end = clip(start, end, n)
		for b := start; b < end; b++ {
			diff[b] = emph
		}
	}
	for b := range styles {
		styles[b] = styles[b].Overlay(diff[b])
	}
}

func overlay(styles []diffpaint.Style, start, end int, s diffpaint.Style) {
	if s.IsZero() {
		return
	}
	for b := start; b < end; b++ {
		styles[b] = styles[b].Overlay(s)
	}
}

func clip(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

func coalesce(styles []diffpaint.Style) []diffpaint.StyledSpan {
	var spans []diffpaint.StyledSpan
	start := 0
	for b := 1; b <= len(styles); b++ {
		if b < len(styles) && styles[b] == styles[start] {
			continue
		}
		spans = append(spans, diffpaint.StyledSpan{Start: start, End: b, Style: styles[start]})
		start = b
	}
	return spans
}

// Runs cuts text into wrapper runs along spans. Bytes no span covers keep the zero style.
func Runs(text string, spans []diffpaint.StyledSpan) []ansiwrap.Run {
	var runs []ansiwrap.Run
	pos := 0
	for _, s := range spans {
		start, end := clip(s.Start, s.End, len(text))
		if start < pos {
			start = pos
		}
		if start >= end {
			continue
		}
		if start > pos {
			runs = append(runs, ansiwrap.Run{Text: text[pos:start]})
		}
		runs = append(runs, ansiwrap.Run{Text: text[start:end], Style: s.Style})
		pos = end
	}
	if pos < len(text) {
		runs = append(runs, ansiwrap.Run{Text: text[pos:]})
	}
	return runs
}
