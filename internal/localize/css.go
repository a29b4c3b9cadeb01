package localize

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// backgroundURL extracts the url() reference from the background
// declaration of an inline style. It returns the full background value
// and the bare URL inside url(); both empty when the style has no
// background declaration.
func backgroundURL(style string) (background, rawURL string, err error) {
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return "", "", fmt.Errorf("parse inline style: %w", err)
	}
	for _, d := range decls {
		if d.Property != "background" {
			continue
		}
		start := strings.Index(d.Value, "(")
		end := strings.Index(d.Value, ")")
		if start < 0 || end < start {
			return "", "", fmt.Errorf("background declaration has no url(): %q", d.Value)
		}
		return d.Value, d.Value[start+1 : end], nil
	}
	return "", "", nil
}

// replaceDeclaration re-serializes an inline style with the given
// property's value replaced. Unknown properties are passed through
// untouched; if the property is absent the style is returned unchanged.
func replaceDeclaration(style, property, value string) string {
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return style
	}
	var b strings.Builder
	for _, d := range decls {
		v := d.Value
		if d.Property == property {
			v = value
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// joinURL joins URL pieces with single slashes, dropping empty segments.
func joinURL(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
