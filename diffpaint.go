// Package diffpaint provides domain types for re-rendering diff text on a terminal.
package diffpaint

import "fmt"

// LineKind classifies a single line of diff input.
type LineKind int

// Line kinds.
const (
	LineOther LineKind = iota
	LineContext
	LineMinus
	LinePlus
	LineHeader
)

func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineMinus:
		return "minus"
	case LinePlus:
		return "plus"
	case LineHeader:
		return "header"
	default:
		return "other"
	}
}

// HeaderKind refines a LineHeader line.
type HeaderKind int

// Header kinds.
const (
	HeaderNone      HeaderKind = iota
	HeaderHunk                 // @@ -a,b +c,d @@ section
	HeaderFile                 // diff --git a/x b/x
	HeaderFileMinus            // --- a/x
	HeaderFilePlus             // +++ b/x
	HeaderFileMeta             // index, mode, rename, similarity, binary
	HeaderCommit               // commit <hash>
	HeaderAuthor               // Author: Name <email>
	HeaderDate                 // Date: ...
)

// DiffLine is one classified input line. It is immutable once classified.
type DiffLine struct {
	Kind   LineKind
	Header HeaderKind
	Raw    []byte // Input bytes with the line terminator removed
	Text   string // Content without the diff marker; empty if Valid is false
	Valid  bool   // False if Raw is not valid UTF-8
	Source int    // 1-based input line number
	OldNum int    // 0 unless the line exists in the old file
	NewNum int    // 0 unless the line exists in the new file
}

// Hunk holds the data of a hunk header.
type Hunk struct {
	OldStart int    // From @@ -X,...
	OldCount int    // From @@ -X,Y ...
	NewStart int    // From @@ ...,+X
	NewCount int    // From @@ ...,+X,Y
	Section  string // Optional function name after @@ ... @@
}

// Range returns the hunk range in unified diff notation.
func (h Hunk) Range() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// ChangeBlock is a maximal run of minus lines followed by a maximal run of plus lines.
type ChangeBlock struct {
	Minus []DiffLine
	Plus  []DiffLine
}

// LinePair associates one minus line with one plus line of a ChangeBlock.
// Across the pairs of one block both indices are strictly increasing.
type LinePair struct {
	Minus    int
	Plus     int
	Distance float64
}

// Token is a sub-range of a line used for intra-line diffing.
// The tokens of a line partition it without gaps.
type Token struct {
	Text  string
	Start int // Byte offset of the token in the line
	End   int
}

// EditKind is the tag of an EditOp.
type EditKind int

// Edit kinds.
const (
	Equal EditKind = iota
	Insert
	Delete
	Replace
)

func (k EditKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// EditOp covers a half-open range of minus tokens and a half-open range of plus tokens.
// Equal covers equally long ranges on both sides, Insert an empty minus range,
// Delete an empty plus range.
type EditOp struct {
	Kind       EditKind
	MinusStart int
	MinusEnd   int
	PlusStart  int
	PlusEnd    int
}

// MinusLen returns the number of minus tokens covered by the op.
func (op EditOp) MinusLen() int { return op.MinusEnd - op.MinusStart }

// PlusLen returns the number of plus tokens covered by the op.
func (op EditOp) PlusLen() int { return op.PlusEnd - op.PlusStart }

// StyledSpan applies a style to a byte range of one line.
type StyledSpan struct {
	Start int
	End   int
	Style Style
}
