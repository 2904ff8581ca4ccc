package chroma

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/diffpaint"
)

// Compile-time interface verification.
var _ diffpaint.LanguageDetector = (*Detector)(nil)

// Detector detects programming languages from file paths using chroma.
type Detector struct{}

// NewDetector creates a new chroma-based language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// DetectFromPath returns the language name for the given path, or an empty
// string if the language cannot be determined. Filename patterns are tried
// first, then the extension as a lexer alias (".hcl" → "hcl").
func (d *Detector) DetectFromPath(path string) string {
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	if path == "" || path == "/dev/null" {
		return ""
	}

	filename := filepath.Base(path)
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer.Config().Name
	}
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		if lexer := lexers.Get(ext); lexer != nil {
			return lexer.Config().Name
		}
	}
	return ""
}

// Languages lists the names of the languages chroma can highlight.
func (d *Detector) Languages() []string {
	return lexers.Names(false)
}
