// Package stylespec parses style specifications and resolves layered style configuration.
//
// A specification is a whitespace-separated list of tokens read left to
// right, later tokens overriding earlier ones for the same field:
//
//	bold ul fg:#ff8800 bg:22
//	red black italic
//	normal fg:auto
//
// A token is an attribute keyword (bold, dim, faint, italic, ul, underline,
// blink, reverse, strike, strikethrough), "normal" to clear all attributes,
// "no-<attribute>" to clear one, a "fg:<color>" or "bg:<color>" pair, or a
// bare color. The first bare color sets the foreground, the second the
// background. Colors are names (red, bright-blue, ...), palette indices
// 0-255, "#rrggbb", "auto" for the terminal default, or "none" for
// "not specified".
package stylespec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/diffpaint"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StyleParseError reports a malformed style specification.
type StyleParseError struct {
	Spec   string
	Token  string
	Reason string
}

func (e *StyleParseError) Error() string {
	return fmt.Sprintf("invalid style %q: token %q: %s", e.Spec, e.Token, e.Reason)
}

var attrNames = map[string]diffpaint.Attr{
	"bold":          diffpaint.Bold,
	"dim":           diffpaint.Dim,
	"faint":         diffpaint.Dim,
	"italic":        diffpaint.Italic,
	"ul":            diffpaint.Underline,
	"underline":     diffpaint.Underline,
	"blink":         diffpaint.Blink,
	"reverse":       diffpaint.Reverse,
	"strike":        diffpaint.Strike,
	"strikethrough": diffpaint.Strike,
}

var colorNames = map[string]uint8{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"purple":  5,
	"cyan":    6,
	"white":   7,
}

// Parse parses a style specification.
func Parse(spec string) (diffpaint.Style, error) {
	var s diffpaint.Style
	bare := 0
	for _, tok := range strings.Fields(spec) {
		lower := strings.ToLower(tok)

		if a, ok := attrNames[lower]; ok {
			s = s.With(a)
			continue
		}
		if lower == "normal" {
			s = s.Without(diffpaint.AllAttrs)
			continue
		}
		if name, ok := strings.CutPrefix(lower, "no-"); ok {
			a, ok := attrNames[name]
			if !ok {
				return diffpaint.Style{}, &StyleParseError{Spec: spec, Token: tok, Reason: "unknown attribute"}
			}
			s = s.Without(a)
			continue
		}

		if role, value, ok := strings.Cut(lower, ":"); ok && !strings.HasPrefix(lower, "#") {
			c, err := ParseColor(value)
			if err != nil {
				return diffpaint.Style{}, &StyleParseError{Spec: spec, Token: tok, Reason: err.Error()}
			}
			switch role {
			case "fg", "foreground":
				s.Foreground = c
			case "bg", "background":
				s.Background = c
			default:
				return diffpaint.Style{}, &StyleParseError{Spec: spec, Token: tok, Reason: "unknown role " + strconv.Quote(role)}
			}
			continue
		}

		c, err := ParseColor(lower)
		if err != nil {
			return diffpaint.Style{}, &StyleParseError{Spec: spec, Token: tok, Reason: "not an attribute or color"}
		}
		switch bare {
		case 0:
			s.Foreground = c
		case 1:
			s.Background = c
		default:
			return diffpaint.Style{}, &StyleParseError{Spec: spec, Token: tok, Reason: "more than two colors"}
		}
		bare++
	}
	return s, nil
}

// ParseColor parses a single color. "none" yields an unset color.
func ParseColor(s string) (diffpaint.Color, error) {
	s = strings.ToLower(s)
	switch s {
	case "none", "":
		return diffpaint.Color{}, nil
	case "auto", "default":
		return diffpaint.DefaultColor(), nil
	}
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 && len(s) != 4 {
			return diffpaint.Color{}, errors.Errorf("bad hex color %q", s)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return diffpaint.Color{}, errors.Errorf("bad hex color %q", s)
		}
		r, g, b := c.RGB255()
		return diffpaint.RGB(r, g, b), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return diffpaint.Color{}, errors.Errorf("palette index %d out of range", n)
		}
		return diffpaint.ANSI(uint8(n)), nil
	}
	name := s
	bright := false
	if rest, ok := strings.CutPrefix(s, "bright-"); ok {
		name, bright = rest, true
	}
	idx, ok := colorNames[name]
	if !ok {
		return diffpaint.Color{}, errors.Errorf("unknown color %q", s)
	}
	if bright {
		idx += 8
	}
	return diffpaint.ANSI(idx), nil
}

// ParseOrDefault parses spec, falling back to def with a warning when it is malformed.
func ParseOrDefault(spec string, def diffpaint.Style, log logrus.FieldLogger) diffpaint.Style {
	s, err := Parse(spec)
	if err != nil {
		log.WithError(err).Warn("using default style")
		return def
	}
	return s
}

// Merge overlays the layers in order: for each field the last layer that
// specifies it wins. Unspecified fields never overwrite.
func Merge(layers ...diffpaint.Style) diffpaint.Style {
	var s diffpaint.Style
	for _, l := range layers {
		s = s.Overlay(l)
	}
	return s
}
