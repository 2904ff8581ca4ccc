package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/stylespec"
	"github.com/pkg/errors"
)

// StyleFunc maps chroma token types to diffpaint styles.
type StyleFunc func(chromalib.TokenType) diffpaint.Style

// StyleFromPalette returns a function that maps chroma token types to diffpaint styles
// based on the provided palette colors.
func StyleFromPalette(p diffpaint.Palette) StyleFunc {
	fg := func(hex string) diffpaint.Style {
		c, err := stylespec.ParseColor(hex)
		if err != nil {
			return diffpaint.Style{}
		}
		return diffpaint.Style{Foreground: c}
	}
	keyword, typ := fg(p.Keyword).With(diffpaint.Bold), fg(p.Type).With(diffpaint.Bold)
	comment, str, number := fg(p.Comment), fg(p.String), fg(p.Number)
	operator, function := fg(p.Operator), fg(p.Function)
	constant, punctuation := fg(p.Constant), fg(p.Punctuation)

	return func(tt chromalib.TokenType) diffpaint.Style {
		switch tt {
		// Type keywords (handled separately from other keywords)
		case chromalib.KeywordType:
			return typ

		case chromalib.Keyword, chromalib.KeywordConstant, chromalib.KeywordDeclaration,
			chromalib.KeywordNamespace, chromalib.KeywordPseudo, chromalib.KeywordReserved:
			return keyword

		case chromalib.Comment, chromalib.CommentHashbang, chromalib.CommentMultiline,
			chromalib.CommentPreproc, chromalib.CommentPreprocFile, chromalib.CommentSingle,
			chromalib.CommentSpecial:
			return comment

		case chromalib.String, chromalib.StringAffix, chromalib.StringBacktick, chromalib.StringChar,
			chromalib.StringDelimiter, chromalib.StringDoc, chromalib.StringDouble,
			chromalib.StringEscape, chromalib.StringHeredoc, chromalib.StringInterpol,
			chromalib.StringOther, chromalib.StringRegex, chromalib.StringSingle,
			chromalib.StringSymbol:
			return str

		case chromalib.Number, chromalib.NumberBin, chromalib.NumberFloat, chromalib.NumberHex,
			chromalib.NumberInteger, chromalib.NumberIntegerLong, chromalib.NumberOct:
			return number

		case chromalib.Operator, chromalib.OperatorWord:
			return operator

		case chromalib.NameFunction, chromalib.NameFunctionMagic:
			return function

		case chromalib.NameConstant:
			return constant

		case chromalib.Punctuation:
			return punctuation

		default:
			return diffpaint.Style{}
		}
	}
}

// StyleFromChroma returns a function that takes foregrounds and attributes
// from a style in chroma's registry. Backgrounds are left to the diff layer.
func StyleFromChroma(name string) (StyleFunc, error) {
	s, ok := styles.Registry[name]
	if !ok {
		return nil, errors.Errorf("chroma: unknown syntax theme %q", name)
	}
	base := s.Get(chromalib.Text)
	return func(tt chromalib.TokenType) diffpaint.Style {
		entry := s.Get(tt)
		var st diffpaint.Style
		// Plain text keeps the terminal foreground.
		if entry.Colour.IsSet() && entry.Colour != base.Colour {
			st.Foreground = diffpaint.RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
		}
		if entry.Bold == chromalib.Yes {
			st = st.With(diffpaint.Bold)
		}
		if entry.Italic == chromalib.Yes {
			st = st.With(diffpaint.Italic)
		}
		if entry.Underline == chromalib.Yes {
			st = st.With(diffpaint.Underline)
		}
		return st
	}, nil
}

// SyntaxThemes lists the names accepted by StyleFromChroma.
func SyntaxThemes() []string {
	return styles.Names()
}
