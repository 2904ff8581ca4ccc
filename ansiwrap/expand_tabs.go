package ansiwrap

import "strings"

// ExpandTabs converts tab characters to the appropriate number of spaces
// based on tab stops every tabWidth columns. The startCol parameter indicates
// the column position where the string begins, which affects how the first
// tab is expanded. A non-positive tabWidth leaves s unchanged.
func ExpandTabs(s string, tabWidth, startCol int) string {
	if tabWidth <= 0 || !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			nextStop := ((col / tabWidth) + 1) * tabWidth
			sb.WriteString(strings.Repeat(" ", nextStop-col))
			col = nextStop
		} else {
			sb.WriteRune(r)
			col += defaultCondition.RuneWidth(r)
		}
	}
	return sb.String()
}
