package ansiwrap

import (
	"fmt"
	"strings"

	"github.com/fwojciec/diffpaint"
	"github.com/muesli/termenv"
)

// Reset is the SGR sequence that clears all display attributes.
const Reset = termenv.CSI + termenv.ResetSeq + "m"

var attrSeqs = []struct {
	attr diffpaint.Attr
	seq  string
}{
	{diffpaint.Bold, termenv.BoldSeq},
	{diffpaint.Dim, termenv.FaintSeq},
	{diffpaint.Italic, termenv.ItalicSeq},
	{diffpaint.Underline, termenv.UnderlineSeq},
	{diffpaint.Blink, termenv.BlinkSeq},
	{diffpaint.Reverse, termenv.ReverseSeq},
	{diffpaint.Strike, termenv.CrossOutSeq},
}

// SGR returns the escape sequence that switches a reset terminal to style s.
// It returns an empty string when s has no visible effect under profile p.
func SGR(s diffpaint.Style, p termenv.Profile) string {
	var params []string
	for _, a := range attrSeqs {
		if s.Has(a.attr) {
			params = append(params, a.seq)
		}
	}
	if seq := colorSeq(s.Foreground, p, false); seq != "" {
		params = append(params, seq)
	}
	if seq := colorSeq(s.Background, p, true); seq != "" {
		params = append(params, seq)
	}
	if len(params) == 0 {
		return ""
	}
	return termenv.CSI + strings.Join(params, ";") + "m"
}

func colorSeq(c diffpaint.Color, p termenv.Profile, bg bool) string {
	if p == termenv.Ascii {
		return ""
	}
	var tc termenv.Color
	switch c.Kind {
	case diffpaint.ColorUnset:
		return ""
	case diffpaint.ColorDefault:
		if bg {
			return "49"
		}
		return "39"
	case diffpaint.ColorANSI:
		if c.Index < 16 {
			tc = termenv.ANSIColor(c.Index)
		} else {
			tc = termenv.ANSI256Color(c.Index)
		}
	case diffpaint.ColorRGB:
		tc = termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	default:
		return ""
	}
	return p.Convert(tc).Sequence(bg)
}
