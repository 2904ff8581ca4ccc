// Package chroma provides syntax highlighting using the chroma library.
package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/diffpaint"
	"github.com/pkg/errors"
)

// Compile-time interface verification.
var _ diffpaint.Highlighter = (*Highlighter)(nil)

// Highlighter computes syntax spans for single lines using chroma lexers.
// It caches lexers and is not safe for concurrent use.
type Highlighter struct {
	styleFunc StyleFunc
	lexers    map[string]chromalib.Lexer
}

// NewHighlighter creates a new chroma-based highlighter with the given style function.
// Use StyleFromPalette or StyleFromChroma to create a style function.
func NewHighlighter(styleFunc StyleFunc) (*Highlighter, error) {
	if styleFunc == nil {
		return nil, errors.New("chroma: styleFunc cannot be nil")
	}
	return &Highlighter{styleFunc: styleFunc, lexers: make(map[string]chromalib.Lexer)}, nil
}

// Highlight returns the styled byte ranges of line. Tokens without a style
// produce no span. Returns nil if the language is not supported or an error occurs.
func (h *Highlighter) Highlight(language, line string) []diffpaint.SyntaxSpan {
	if line == "" || language == "" {
		return nil
	}
	lexer := h.lexer(language)
	if lexer == nil {
		return nil
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return nil
	}

	var spans []diffpaint.SyntaxSpan
	pos := 0
	for token := iterator(); token != chromalib.EOF; token = iterator() {
		start := pos
		pos += len(token.Value)
		// Lexers may append a newline the line does not have.
		end := min(pos, len(line))
		if start >= end {
			continue
		}
		style := h.styleFunc(token.Type)
		if style.IsZero() {
			continue
		}
		if n := len(spans); n > 0 && spans[n-1].End == start && spans[n-1].Style == style {
			spans[n-1].End = end
			continue
		}
		spans = append(spans, diffpaint.SyntaxSpan{Start: start, End: end, Style: style})
	}
	return spans
}

func (h *Highlighter) lexer(language string) chromalib.Lexer {
	if l, ok := h.lexers[language]; ok {
		return l
	}
	var l chromalib.Lexer
	if found := lexers.Get(language); found != nil {
		// Coalesce for better performance with consecutive tokens of the same type
		l = chromalib.Coalesce(found)
	}
	h.lexers[language] = l
	return l
}
