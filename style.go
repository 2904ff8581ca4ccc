package diffpaint

// ColorKind tells how a Color is specified.
type ColorKind uint8

// Color kinds. ColorUnset means "not specified" and never overrides another layer.
const (
	ColorUnset   ColorKind = iota
	ColorDefault           // Terminal default color ("auto")
	ColorANSI              // Palette index 0-255
	ColorRGB               // 24-bit color
)

// Color is a foreground or background color.
type Color struct {
	Kind  ColorKind
	Index uint8 // For ColorANSI
	R     uint8 // For ColorRGB
	G     uint8
	B     uint8
}

// IsSet reports whether the color was explicitly specified.
func (c Color) IsSet() bool { return c.Kind != ColorUnset }

// ANSI returns a palette color.
func ANSI(index uint8) Color { return Color{Kind: ColorANSI, Index: index} }

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// DefaultColor returns the terminal default color.
func DefaultColor() Color { return Color{Kind: ColorDefault} }

// Attr is a set of text attributes.
type Attr uint16

// Text attributes.
const (
	Bold Attr = 1 << iota
	Dim
	Italic
	Underline
	Blink
	Reverse
	Strike

	AllAttrs = Bold | Dim | Italic | Underline | Blink | Reverse | Strike
)

// Style is a set of explicitly specified display properties.
// The zero Style specifies nothing. AttrMask marks attributes that are
// specified, Attrs holds their values: an attribute in AttrMask but not in
// Attrs is explicitly off.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
	AttrMask   Attr
}

// IsZero reports whether the style specifies nothing.
func (s Style) IsZero() bool { return s == Style{} }

// Has reports whether attribute a is on.
func (s Style) Has(a Attr) bool { return s.Attrs&a == a }

// With returns a copy of s with the attributes in a switched on.
func (s Style) With(a Attr) Style {
	s.Attrs |= a
	s.AttrMask |= a
	return s
}

// Without returns a copy of s with the attributes in a explicitly switched off.
func (s Style) Without(a Attr) Style {
	s.Attrs &^= a
	s.AttrMask |= a
	return s
}

// Overlay returns s with every field that top explicitly specifies replaced by top's value.
func (s Style) Overlay(top Style) Style {
	if top.Foreground.IsSet() {
		s.Foreground = top.Foreground
	}
	if top.Background.IsSet() {
		s.Background = top.Background
	}
	s.Attrs = s.Attrs&^top.AttrMask | top.Attrs&top.AttrMask
	s.AttrMask |= top.AttrMask
	return s
}
