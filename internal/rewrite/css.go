package rewrite

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// setDeclaration re-serializes an inline style with the given property
// set to value, replacing an existing declaration or appending one. An
// unparseable style is returned with the declaration appended verbatim;
// inline styles on captured pages are machine-generated and short.
func setDeclaration(style, property, value string) string {
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return strings.TrimSpace(style + " " + property + ": " + value + ";")
	}

	var b strings.Builder
	replaced := false
	for _, d := range decls {
		v := d.Value
		if d.Property == property {
			v = value
			replaced = true
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("; ")
	}
	if !replaced {
		b.WriteString(property)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
