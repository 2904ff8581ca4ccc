package diffpaint

// SyntaxSpan is a byte range of a line with the style a syntax highlighter assigned to it.
type SyntaxSpan struct {
	Start int
	End   int
	Style Style
}

// Highlighter computes syntax highlighting for a single line.
type Highlighter interface {
	// Highlight returns styled byte ranges of line for the given language.
	// Returns nil if the language is not supported.
	Highlight(language, line string) []SyntaxSpan
}

// LanguageDetector determines the programming language from a file path.
type LanguageDetector interface {
	// DetectFromPath returns the language name for the given path,
	// or an empty string if the language cannot be determined.
	// Accepts paths with or without "a/" or "b/" prefixes (common in diffs).
	DetectFromPath(path string) string
}
