package notiftemplate

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*.+?\s*\}\}`)

// category keys in priority order; the first key contained in the placeholder
// name decides its type.
var categories = []struct {
	key    string
	typ    PlaceholderType
	marker string
}{
	{key: "userId", typ: TypeUser, marker: "<user-template>"},
	{key: "communityId", typ: TypeCommunity, marker: "<community-template>"},
	{key: "text", typ: TypeText, marker: "<text-template>"},
	{key: "eventId", typ: TypeEvent, marker: "<event-template>"},
}

const unknownMarker = "<unknown-template>"

// Marker returns the marker token a placeholder of type t is replaced with.
func Marker(t PlaceholderType) string {
	for _, c := range categories {
		if c.typ == t {
			return c.marker
		}
	}
	return unknownMarker
}

// ExtractPlaceholders scans template for {{ key: value }} placeholders. It
// returns one descriptor per placeholder, in template order, with ID and Type
// set, and a copy of template where every placeholder is replaced by the
// marker of its category.
func ExtractPlaceholders(template string) ([]PlaceholderSpan, string) {
	matches := placeholderPattern.FindAllStringIndex(template, -1)
	spans := make([]PlaceholderSpan, 0, len(matches))
	if len(matches) == 0 {
		return spans, template
	}

	var marked strings.Builder
	marked.Grow(len(template))
	last := 0
	for _, m := range matches {
		key, value := splitPlaceholder(template[m[0]:m[1]])
		typ := classify(key)
		spans = append(spans, PlaceholderSpan{ID: value, Type: typ})

		marked.WriteString(template[last:m[0]])
		marked.WriteString(Marker(typ))
		last = m[1]
	}
	marked.WriteString(template[last:])

	return spans, marked.String()
}

// splitPlaceholder turns "{{ userId: u1 }}" into ("userId", "u1").
func splitPlaceholder(raw string) (string, string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "{{"), "}}")
	inner = strings.TrimSpace(inner)
	key, value, _ := strings.Cut(inner, ":")
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

func classify(key string) PlaceholderType {
	for _, c := range categories {
		if strings.Contains(key, c.key) {
			return c.typ
		}
	}
	return TypeUnknown
}
