package lipgloss

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/diffpaint"
)

// minHeaderFill is the minimum number of rule characters in a file header.
const minHeaderFill = 3

// Decorator renders file and hunk headers.
type Decorator struct {
	// Renderer selects the color profile. Nil uses the default lipgloss renderer.
	Renderer *lipgloss.Renderer
	Styles   diffpaint.Styles
	// Width is the terminal width the file header rule extends to and hunk
	// headers are cut to. Zero leaves hunk headers whole.
	Width int
}

// FileHeader renders a file header as a rule carrying the path.
// Format: ── path ─────────────────── ──
func (d *Decorator) FileHeader(path string) string {
	middle := "── " + path + " "
	end := " ──"

	fillWidth := d.Width - lipgloss.Width(middle) - lipgloss.Width(end)
	if fillWidth < minHeaderFill {
		fillWidth = minHeaderFill
	}
	header := middle + strings.Repeat("─", fillWidth) + end
	return StyleFrom(d.Styles.FileHeader, d.Renderer).Render(header)
}

// HunkHeader renders a hunk header in standard diff format, with its section
// if any. A header wider than Width is cut to Width, ending in an ellipsis.
func (d *Decorator) HunkHeader(h diffpaint.Hunk) string {
	header := h.Range()
	if h.Section != "" {
		header += " " + h.Section
	}
	if d.Width > 0 && lipgloss.Width(header) > d.Width {
		header = ansi.Truncate(header, d.Width, "…")
	}
	return StyleFrom(d.Styles.HunkHeader, d.Renderer).Render(header)
}

var lipglossAttrs = []struct {
	attr  diffpaint.Attr
	apply func(lipgloss.Style, bool) lipgloss.Style
}{
	{diffpaint.Bold, lipgloss.Style.Bold},
	{diffpaint.Dim, lipgloss.Style.Faint},
	{diffpaint.Italic, lipgloss.Style.Italic},
	{diffpaint.Underline, lipgloss.Style.Underline},
	{diffpaint.Blink, lipgloss.Style.Blink},
	{diffpaint.Reverse, lipgloss.Style.Reverse},
	{diffpaint.Strike, lipgloss.Style.Strikethrough},
}

// StyleFrom creates a lipgloss style from a diffpaint style. Only specified
// fields are set. If renderer is nil, the default lipgloss renderer is used.
func StyleFrom(s diffpaint.Style, renderer *lipgloss.Renderer) lipgloss.Style {
	var style lipgloss.Style
	if renderer != nil {
		style = renderer.NewStyle()
	} else {
		style = lipgloss.NewStyle()
	}
	if c, ok := terminalColor(s.Foreground); ok {
		style = style.Foreground(c)
	}
	if c, ok := terminalColor(s.Background); ok {
		style = style.Background(c)
	}
	for _, a := range lipglossAttrs {
		if s.AttrMask&a.attr != 0 {
			style = a.apply(style, s.Has(a.attr))
		}
	}
	return style
}

func terminalColor(c diffpaint.Color) (lipgloss.TerminalColor, bool) {
	switch c.Kind {
	case diffpaint.ColorDefault:
		return lipgloss.NoColor{}, true
	case diffpaint.ColorANSI:
		return lipgloss.Color(fmt.Sprint(c.Index)), true
	case diffpaint.ColorRGB:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
	}
	return nil, false
}
