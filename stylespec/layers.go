package stylespec

import (
	"sort"

	"github.com/fwojciec/diffpaint"
	"github.com/sirupsen/logrus"
)

// Layer is one named source of style specifications, keyed by role.
type Layer struct {
	Name  string
	Specs map[diffpaint.Role]string
}

// DefaultLayer holds the built-in specifications every resolution starts from.
// They only use the 256-color palette and leave foregrounds to syntax highlighting.
var DefaultLayer = Layer{
	Name: "default",
	Specs: map[diffpaint.Role]string{
		diffpaint.RoleMinus:           "bg:52",
		diffpaint.RoleMinusEmph:       "bg:124",
		diffpaint.RolePlus:            "bg:22",
		diffpaint.RolePlusEmph:        "bg:28",
		diffpaint.RoleHunkHeader:      "fg:blue",
		diffpaint.RoleFileHeader:      "fg:yellow bold",
		diffpaint.RoleCommit:          "fg:yellow",
		diffpaint.RoleLineNumber:      "fg:244",
		diffpaint.RoleLineNumberMinus: "fg:red",
		diffpaint.RoleLineNumberPlus:  "fg:green",
	},
}

var features = map[string]Layer{
	"emph-underline": {Name: "emph-underline", Specs: map[diffpaint.Role]string{
		diffpaint.RoleMinusEmph: "ul",
		diffpaint.RolePlusEmph:  "ul",
	}},
	"emph-bold": {Name: "emph-bold", Specs: map[diffpaint.Role]string{
		diffpaint.RoleMinusEmph: "bold",
		diffpaint.RolePlusEmph:  "bold",
	}},
	"dim-context": {Name: "dim-context", Specs: map[diffpaint.Role]string{
		diffpaint.RoleZero:       "dim",
		diffpaint.RoleLineNumber: "dim",
	}},
}

// Feature returns the built-in feature layer with the given name.
func Feature(name string) (Layer, bool) {
	l, ok := features[name]
	return l, ok
}

// Features lists the names of the built-in feature layers.
func Features() []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the default layer with the given layers, in order, into
// resolved styles. Malformed specifications and unknown roles are logged and
// skipped; they never abort resolution.
//
// Non-emphasized styles inherit every field they leave unspecified from the
// plain minus and plus styles.
func Resolve(log logrus.FieldLogger, layers ...Layer) diffpaint.Styles {
	var styles diffpaint.Styles
	all := append([]Layer{DefaultLayer}, layers...)
	for _, l := range all {
		for _, role := range sortedRoles(l.Specs) {
			spec := l.Specs[role]
			fields := log.WithFields(logrus.Fields{"layer": l.Name, "role": role})
			parsed := ParseOrDefault(spec, diffpaint.Style{}, fields)
			if !styles.Set(role, styles.Get(role).Overlay(parsed)) {
				fields.Warn("unknown style role")
			}
		}
	}
	styles.MinusNonEmph = styles.Minus.Overlay(styles.MinusNonEmph)
	styles.PlusNonEmph = styles.Plus.Overlay(styles.PlusNonEmph)
	return styles
}

func sortedRoles(specs map[diffpaint.Role]string) []diffpaint.Role {
	roles := make([]diffpaint.Role, 0, len(specs))
	for r := range specs {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
