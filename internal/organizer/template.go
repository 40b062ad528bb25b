package organizer

import (
	"strings"

	"comicrenamer/internal/identification"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = "{namecn} {author}"

// ReferencedFields returns the recognised placeholders present in template,
// in placeholder order.
func ReferencedFields(template string) []identification.Field {
	var referenced []identification.Field
	for _, field := range identification.AllFields {
		if strings.Contains(template, field.Placeholder()) {
			referenced = append(referenced, field)
		}
	}
	return referenced
}

// MissingFields returns the placeholders referenced by template that fields
// does not resolve.
func MissingFields(template string, fields identification.ResolvedFields) []identification.Field {
	var missing []identification.Field
	for _, field := range ReferencedFields(template) {
		if _, ok := fields.Get(field); !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// Format substitutes resolved fields into template. It returns false without
// substituting anything when a referenced placeholder is unresolved. Unknown
// tokens such as {volume} are left as written. Values are inserted literally
// in a single pass, so a value containing a placeholder is not expanded again.
func Format(template string, fields identification.ResolvedFields) (string, bool) {
	referenced := ReferencedFields(template)
	pairs := make([]string, 0, 2*len(referenced))
	for _, field := range referenced {
		value, ok := fields.Get(field)
		if !ok {
			return "", false
		}
		pairs = append(pairs, field.Placeholder(), value)
	}
	if len(pairs) == 0 {
		return template, true
	}
	return strings.NewReplacer(pairs...).Replace(template), true
}
