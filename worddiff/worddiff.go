// Package worddiff computes intra-line edit scripts between paired diff lines.
package worddiff

import (
	"github.com/fwojciec/diffpaint"
	"github.com/pkg/errors"
)

// Mode selects the tokenization granularity.
type Mode int

// Tokenization modes.
const (
	ModeWord Mode = iota
	ModeChar
)

func (m Mode) String() string {
	if m == ModeChar {
		return "char"
	}
	return "word"
}

// ParseMode parses "word" or "char".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "word", "":
		return ModeWord, nil
	case "char", "character":
		return ModeChar, nil
	}
	return ModeWord, errors.Errorf("unknown tokenization mode %q", s)
}

// Script is the intra-line diff of one minus/plus line pair.
type Script struct {
	Minus    []diffpaint.Token
	Plus     []diffpaint.Token
	Ops      []diffpaint.EditOp // After coalescing
	Distance float64            // Of the uncoalesced script, in [0, 1]
}

// Differ tokenizes lines and computes their edit scripts.
type Differ struct {
	Tokenizer Tokenizer
	MinEqual  int // Equal runs shorter than this many tokens are coalesced
}

// NewDiffer creates a Differ for the given mode.
func NewDiffer(mode Mode, minEqual int) *Differ {
	var t Tokenizer = WordTokenizer{}
	if mode == ModeChar {
		t = CharTokenizer{}
	}
	return &Differ{Tokenizer: t, MinEqual: minEqual}
}

// Diff returns the edit script between the minus and the plus line.
func (d *Differ) Diff(minus, plus string) Script {
	mt := d.Tokenizer.Tokenize(minus)
	pt := d.Tokenizer.Tokenize(plus)

	// Fast path for identical strings
	if minus == plus {
		var ops []diffpaint.EditOp
		if len(mt) > 0 {
			ops = []diffpaint.EditOp{{Kind: diffpaint.Equal, MinusEnd: len(mt), PlusEnd: len(pt)}}
		}
		return Script{Minus: mt, Plus: pt, Ops: ops}
	}

	ops := Compute(Texts(mt), Texts(pt))
	return Script{
		Minus:    mt,
		Plus:     pt,
		Ops:      Coalesce(ops, d.MinEqual),
		Distance: Distance(ops, mt, pt),
	}
}

// Distance returns the share of bytes, over both lines, covered by change ops.
// It is 0 for identical lines and 1 for lines with nothing in common.
func Distance(ops []diffpaint.EditOp, minus, plus []diffpaint.Token) float64 {
	total := span(minus, 0, len(minus)) + span(plus, 0, len(plus))
	if total == 0 {
		return 0
	}
	changed := 0
	for _, op := range ops {
		if op.Kind == diffpaint.Equal {
			continue
		}
		changed += span(minus, op.MinusStart, op.MinusEnd) + span(plus, op.PlusStart, op.PlusEnd)
	}
	return float64(changed) / float64(total)
}

// span returns the byte length of tokens[start:end].
func span(tokens []diffpaint.Token, start, end int) int {
	if start >= end {
		return 0
	}
	return tokens[end-1].End - tokens[start].Start
}

// ByteRange maps a token range to the byte range it covers.
func ByteRange(tokens []diffpaint.Token, start, end int) (int, int) {
	if start >= end {
		if start < len(tokens) {
			return tokens[start].Start, tokens[start].Start
		}
		if len(tokens) > 0 {
			return tokens[len(tokens)-1].End, tokens[len(tokens)-1].End
		}
		return 0, 0
	}
	return tokens[start].Start, tokens[end-1].End
}
