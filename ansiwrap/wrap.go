// Package ansiwrap renders styled text runs as terminal lines, wrapping them
// at a display width without splitting grapheme clusters or leaking styles
// across line ends.
package ansiwrap

import (
	"strings"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/fwojciec/diffpaint"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Run is a piece of escape-free text with the style to display it in.
type Run struct {
	Text  string
	Style diffpaint.Style
}

// Wrapper turns runs into physical terminal lines.
type Wrapper struct {
	// Width is the display width of a physical line. Zero disables wrapping.
	Width int
	// Profile selects how colors are encoded.
	Profile termenv.Profile
	// Fill, if set, pads the last physical line to Width with spaces in this style.
	Fill *diffpaint.Style

	cond *runewidth.Condition
	sgr  map[diffpaint.Style]string
}

// New returns a Wrapper for the given width and color profile.
func New(width int, profile termenv.Profile) *Wrapper {
	return &Wrapper{
		Width:   width,
		Profile: profile,
		cond:    newCondition(),
		sgr:     make(map[diffpaint.Style]string),
	}
}

func newCondition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}

var defaultCondition = newCondition()

// clusterWidth returns the number of columns a grapheme cluster occupies:
// 0 for zero-width and control clusters, 2 for wide clusters, 1 otherwise.
func clusterWidth(cond *runewidth.Condition, cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	if r < 0x20 || r == 0x7f {
		return 0
	}
	w := cond.StringWidth(cluster)
	if w > 2 {
		w = 2
	}
	return w
}

// StringWidth returns the display width of escape-free text.
func StringWidth(s string) int {
	width := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		width += clusterWidth(defaultCondition, iter.Value())
	}
	return width
}

// Wrap returns the physical lines for one logical line. Every physical line
// that switches style ends with a reset, and continues in the same style on
// the next physical line. There is always at least one line.
func (w *Wrapper) Wrap(runs []Run) []string {
	if w.cond == nil {
		w.cond = newCondition()
	}
	if w.sgr == nil {
		w.sgr = make(map[diffpaint.Style]string)
	}

	var plain strings.Builder
	ends := make([]int, len(runs))
	for i, r := range runs {
		plain.WriteString(r.Text)
		ends[i] = plain.Len()
	}
	text := plain.String()

	st := wrapState{w: w}
	ri := 0
	iter := graphemes.FromString(text)
	for iter.Next() {
		cw := clusterWidth(w.cond, iter.Value())
		if w.Width > 0 && st.col > 0 && st.col+cw > w.Width {
			st.wrap()
		}
		// A cluster may straddle runs: write each piece in its own style,
		// but count and place the cluster as one unit.
		for pos := iter.Start(); pos < iter.End(); {
			for ends[ri] <= pos {
				ri++
			}
			end := min(ends[ri], iter.End())
			st.write(text[pos:end], runs[ri].Style)
			pos = end
		}
		st.col += cw
	}

	if w.Fill != nil && w.Width > 0 && st.col < w.Width {
		st.write(strings.Repeat(" ", w.Width-st.col), *w.Fill)
		st.col = w.Width
	}
	st.finish()
	return st.lines
}

func (w *Wrapper) sequence(s diffpaint.Style) string {
	seq, ok := w.sgr[s]
	if !ok {
		seq = SGR(s, w.Profile)
		w.sgr[s] = seq
	}
	return seq
}

// wrapState is the mutable state of one logical line being wrapped.
type wrapState struct {
	w     *Wrapper
	buf   strings.Builder
	lines []string
	col   int    // Display column on the current physical line
	open  string // SGR sequence in effect on the current physical line
}

// write emits text in style s. Style switches are written lazily, right
// before the text that needs them, so they never end a physical line.
func (st *wrapState) write(text string, s diffpaint.Style) {
	if seq := st.w.sequence(s); seq != st.open {
		if st.open != "" {
			st.buf.WriteString(Reset)
		}
		st.buf.WriteString(seq)
		st.open = seq
	}
	st.buf.WriteString(text)
}

// wrap closes the current physical line and starts the next one. The next
// write re-opens the style that was in effect.
func (st *wrapState) wrap() {
	st.finish()
	st.col = 0
}

func (st *wrapState) finish() {
	if st.open != "" {
		st.buf.WriteString(Reset)
		st.open = ""
	}
	st.lines = append(st.lines, st.buf.String())
	st.buf.Reset()
}
