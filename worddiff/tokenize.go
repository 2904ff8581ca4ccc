package worddiff

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/fwojciec/diffpaint"
	"github.com/pkg/errors"
)

// Tokenizer splits a line into tokens that partition it exactly.
type Tokenizer interface {
	Tokenize(s string) []diffpaint.Token
}

// Compile-time interface verification.
var (
	_ Tokenizer = WordTokenizer{}
	_ Tokenizer = CharTokenizer{}
	_ Tokenizer = (*RegexpTokenizer)(nil)
)

// WordTokenizer splits a string into tokens using a hand-written scanner.
// Token types: words (letters, digits, underscore), whitespace runs,
// operator runs, and single characters for everything else.
type WordTokenizer struct{}

// Tokenize implements Tokenizer.
func (WordTokenizer) Tokenize(s string) []diffpaint.Token {
	if len(s) == 0 {
		return nil
	}

	// Pre-allocate with estimated capacity (avoid reallocations)
	tokens := make([]diffpaint.Token, 0, len(s)/3+1)
	i := 0

	for i < len(s) {
		start := i
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case isWordRune(r):
			i = scan(s, i+size, isWordRune)
		case isWhitespace(r):
			i = scan(s, i+size, isWhitespace)
		case isOperatorRune(r):
			i = scan(s, i+size, isOperatorRune)
		default:
			// Single character (punctuation, symbols, invalid bytes)
			i += size
		}
		tokens = append(tokens, diffpaint.Token{Text: s[start:i], Start: start, End: i})
	}

	return tokens
}

// scan advances i while the runes at i satisfy class.
func scan(s string, i int, class func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 || !class(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '=', '<', '>', '!', '&', '|', '^', '%', ':':
		return true
	}
	return false
}

// CharTokenizer produces one token per grapheme cluster, so that a
// highlighted difference never splits a user-perceived character.
type CharTokenizer struct{}

// Tokenize implements Tokenizer.
func (CharTokenizer) Tokenize(s string) []diffpaint.Token {
	if len(s) == 0 {
		return nil
	}
	tokens := make([]diffpaint.Token, 0, len(s))
	iter := graphemes.FromString(s)
	for iter.Next() {
		tokens = append(tokens, diffpaint.Token{Text: iter.Value(), Start: iter.Start(), End: iter.End()})
	}
	return tokens
}

// RegexpTokenizer treats every match of a user-supplied expression as a token.
// Text between matches becomes a token of its own.
type RegexpTokenizer struct {
	pattern *regexp.Regexp
}

// NewRegexpTokenizer compiles expr into a tokenizer.
func NewRegexpTokenizer(expr string) (*RegexpTokenizer, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, "word regexp")
	}
	return &RegexpTokenizer{pattern: pattern}, nil
}

// Tokenize implements Tokenizer.
func (t *RegexpTokenizer) Tokenize(s string) []diffpaint.Token {
	if len(s) == 0 {
		return nil
	}
	var tokens []diffpaint.Token
	prev := 0
	for _, loc := range t.pattern.FindAllStringIndex(s, -1) {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] > prev {
			tokens = append(tokens, diffpaint.Token{Text: s[prev:loc[0]], Start: prev, End: loc[0]})
		}
		tokens = append(tokens, diffpaint.Token{Text: s[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		prev = loc[1]
	}
	if prev < len(s) {
		tokens = append(tokens, diffpaint.Token{Text: s[prev:], Start: prev, End: len(s)})
	}
	return tokens
}

// Texts returns the text of each token.
func Texts(tokens []diffpaint.Token) []string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return texts
}
