// Package mock provides test doubles for diffpaint interfaces.
package mock

import "github.com/fwojciec/diffpaint"

// Compile-time interface verification.
var (
	_ diffpaint.Highlighter      = (*Highlighter)(nil)
	_ diffpaint.LanguageDetector = (*LanguageDetector)(nil)
)

// Highlighter is a mock implementation of diffpaint.Highlighter.
type Highlighter struct {
	HighlightFn func(language, line string) []diffpaint.SyntaxSpan
}

func (h *Highlighter) Highlight(language, line string) []diffpaint.SyntaxSpan {
	return h.HighlightFn(language, line)
}

// LanguageDetector is a mock implementation of diffpaint.LanguageDetector.
type LanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (d *LanguageDetector) DetectFromPath(path string) string {
	return d.DetectFromPathFn(path)
}
