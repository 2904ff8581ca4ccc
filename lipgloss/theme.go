// Package lipgloss provides themes and header decoration using the Lipgloss styling library.
package lipgloss

import (
	"sort"

	"github.com/fwojciec/diffpaint"
	"github.com/pkg/errors"
)

// Compile-time interface verification.
var _ diffpaint.Theme = (*Theme)(nil)

// Theme implements diffpaint.Theme with Catppuccin colors.
type Theme struct {
	name    string
	layer   map[diffpaint.Role]string
	palette diffpaint.Palette
}

// Name returns the theme name.
func (t *Theme) Name() string {
	return t.name
}

// Layer returns the style specification of each role the theme sets.
// The returned map is a copy.
func (t *Theme) Layer() map[diffpaint.Role]string {
	layer := make(map[diffpaint.Role]string, len(t.layer))
	for role, spec := range t.layer {
		layer[role] = spec
	}
	return layer
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() diffpaint.Palette {
	return t.palette
}

var themes = map[string]func() *Theme{
	"dark":  DarkTheme,
	"light": LightTheme,
}

// ThemeByName returns the named built-in theme. An empty name selects the default.
func ThemeByName(name string) (*Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	fn, ok := themes[name]
	if !ok {
		return nil, errors.Errorf("unknown theme %q", name)
	}
	return fn(), nil
}

// ThemeNames lists the built-in theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
// Background colors are very dark to allow syntax highlighting colors to remain readable.
func DarkTheme() *Theme {
	return &Theme{
		name: "dark",
		layer: map[diffpaint.Role]string{
			diffpaint.RoleMinus:           "bg:#3f0001",
			diffpaint.RoleMinusEmph:       "#1e1e2e #f38ba8", // Dark text on bright red
			diffpaint.RolePlus:            "bg:#004000",
			diffpaint.RolePlusEmph:        "#1e1e2e #a6e3a1",
			diffpaint.RoleHunkHeader:      "fg:#89b4fa",
			diffpaint.RoleFileHeader:      "fg:#f9e2af bg:#313244 bold",
			diffpaint.RoleCommit:          "fg:#f9e2af",
			diffpaint.RoleLineNumber:      "fg:#6c7086",
			diffpaint.RoleLineNumberMinus: "fg:#f38ba8 bg:#3f0001",
			diffpaint.RoleLineNumberPlus:  "fg:#a6e3a1 bg:#004000",
		},
		// Catppuccin Mocha
		palette: diffpaint.Palette{
			Keyword:     "#cba6f7",
			String:      "#a6e3a1",
			Number:      "#fab387",
			Comment:     "#6c7086",
			Operator:    "#89dceb",
			Function:    "#89b4fa",
			Type:        "#f9e2af",
			Constant:    "#fab387",
			Punctuation: "#9399b2",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		name: "light",
		layer: map[diffpaint.Role]string{
			diffpaint.RoleMinus:           "bg:#f4d4d4",
			diffpaint.RoleMinusEmph:       "#ffffff #d20f39", // White text on bright red
			diffpaint.RolePlus:            "bg:#d4f4d4",
			diffpaint.RolePlusEmph:        "#ffffff #40a02b",
			diffpaint.RoleHunkHeader:      "fg:#1e66f5",
			diffpaint.RoleFileHeader:      "fg:#df8e1d bg:#e6e9ef bold",
			diffpaint.RoleCommit:          "fg:#df8e1d",
			diffpaint.RoleLineNumber:      "fg:#9ca0b0",
			diffpaint.RoleLineNumberMinus: "fg:#d20f39 bg:#f4d4d4",
			diffpaint.RoleLineNumberPlus:  "fg:#40a02b bg:#d4f4d4",
		},
		// Catppuccin Latte
		palette: diffpaint.Palette{
			Keyword:     "#8839ef",
			String:      "#40a02b",
			Number:      "#fe640b",
			Comment:     "#9ca0b0",
			Operator:    "#04a5e5",
			Function:    "#1e66f5",
			Type:        "#df8e1d",
			Constant:    "#fe640b",
			Punctuation: "#6c6f85",
		},
	}
}
