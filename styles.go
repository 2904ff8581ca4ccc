package diffpaint

// Role names a styled element of the output.
type Role string

// Output roles.
const (
	RoleMinus           Role = "minus"
	RoleMinusEmph       Role = "minus-emph"
	RoleMinusNonEmph    Role = "minus-non-emph"
	RolePlus            Role = "plus"
	RolePlusEmph        Role = "plus-emph"
	RolePlusNonEmph     Role = "plus-non-emph"
	RoleZero            Role = "zero"
	RoleHunkHeader      Role = "hunk-header"
	RoleFileHeader      Role = "file-header"
	RoleCommit          Role = "commit"
	RoleLineNumber      Role = "line-number"
	RoleLineNumberMinus Role = "line-number-minus"
	RoleLineNumberPlus  Role = "line-number-plus"
)

// Roles lists every role in a stable order.
var Roles = []Role{
	RoleMinus, RoleMinusEmph, RoleMinusNonEmph,
	RolePlus, RolePlusEmph, RolePlusNonEmph,
	RoleZero, RoleHunkHeader, RoleFileHeader, RoleCommit,
	RoleLineNumber, RoleLineNumberMinus, RoleLineNumberPlus,
}

// Styles contains the resolved style of every role.
type Styles struct {
	Minus           Style // Unpaired removed lines
	MinusEmph       Style // Changed tokens within paired removed lines
	MinusNonEmph    Style // Unchanged tokens within paired removed lines
	Plus            Style
	PlusEmph        Style
	PlusNonEmph     Style
	Zero            Style // Context lines
	HunkHeader      Style
	FileHeader      Style
	Commit          Style
	LineNumber      Style
	LineNumberMinus Style
	LineNumberPlus  Style
}

// Get returns the style of role r, or the zero Style for an unknown role.
func (s *Styles) Get(r Role) Style {
	if p := s.field(r); p != nil {
		return *p
	}
	return Style{}
}

// Set assigns the style of role r. It reports false for an unknown role.
func (s *Styles) Set(r Role, st Style) bool {
	p := s.field(r)
	if p == nil {
		return false
	}
	*p = st
	return true
}

func (s *Styles) field(r Role) *Style {
	switch r {
	case RoleMinus:
		return &s.Minus
	case RoleMinusEmph:
		return &s.MinusEmph
	case RoleMinusNonEmph:
		return &s.MinusNonEmph
	case RolePlus:
		return &s.Plus
	case RolePlusEmph:
		return &s.PlusEmph
	case RolePlusNonEmph:
		return &s.PlusNonEmph
	case RoleZero:
		return &s.Zero
	case RoleHunkHeader:
		return &s.HunkHeader
	case RoleFileHeader:
		return &s.FileHeader
	case RoleCommit:
		return &s.Commit
	case RoleLineNumber:
		return &s.LineNumber
	case RoleLineNumberMinus:
		return &s.LineNumberMinus
	case RoleLineNumberPlus:
		return &s.LineNumberPlus
	}
	return nil
}

// Theme provides a named set of style specifications for rendering diffs.
// Different implementations can provide light/dark variants.
type Theme interface {
	Name() string
	// Layer returns the style specification of each role the theme sets.
	Layer() map[Role]string
	// Palette returns the colors used for syntax highlighting.
	Palette() Palette
}

// Palette holds the semantic syntax-highlighting colors of a theme as "#RRGGBB" strings.
type Palette struct {
	Keyword     string
	String      string
	Number      string
	Comment     string
	Operator    string
	Function    string
	Type        string
	Constant    string
	Punctuation string
}
