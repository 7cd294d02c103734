package injection

import (
	"regexp"
	"strings"
)

// DirectiveName is the injection directive recognized inside code bodies,
// written as [inject id="..."] or [inject slug="..."].
const DirectiveName = "inject"

var directivePattern = regexp.MustCompile(`\[` + DirectiveName + `\s+([^\]]+)\]`)

// Directive is one parsed injection directive found in a body.
type Directive struct {
	Raw   string
	Attrs map[string]string
}

// Identifier returns the directive's target: the id attribute, the slug
// attribute, or the first bare attribute value.
func (d Directive) Identifier() string {
	if id, ok := d.Attrs["id"]; ok && id != "" {
		return id
	}
	return d.Attrs["slug"]
}

// ParseDirectives scans body text for injection directives and returns them
// in order of appearance.
func ParseDirectives(body string) []Directive {
	matches := directivePattern.FindAllStringSubmatch(body, -1)
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		directives = append(directives, Directive{
			Raw:   m[0],
			Attrs: parseAttrs(m[1]),
		})
	}
	return directives
}

func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	first := true
	for _, field := range strings.Fields(raw) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			// A bare value is shorthand for slug, mirroring the original
			// directive syntax.
			if first {
				attrs["slug"] = stripQuotes(field)
			}
			first = false
			continue
		}
		attrs[strings.ToLower(key)] = stripQuotes(value)
		first = false
	}
	return attrs
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
