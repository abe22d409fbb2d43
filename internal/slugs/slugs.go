// Package slugs normalizes user-typed names into docs topic and section IDs.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Component slugifies one name: "Date Tags", "date_tags" and "Date-Tags.md"
// all become "date-tags".
func Component(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ".md"))
	s = strings.ReplaceAll(s, "_", "-")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Path slugifies each "/"-separated component, dropping empty ones.
// Backslashes are treated as separators.
func Path(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := Component(part); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// Title turns a slug back into a display title: "date-tags" -> "Date Tags".
func Title(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return slug
	}
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
