// Package notiftemplate aligns server-side notification templates such as
// "{{ userId: u1 }} posted in {{ communityId: c1 }}" with the rendered text
// "Alice posted in Family Group", recovering the byte range each placeholder
// occupies so clients can highlight it.
//
// Parsing never fails: a placeholder whose text cannot be located keeps a
// zero Range, and callers render that part of the text without highlighting.
package notiftemplate

// Parse returns one span per placeholder of template, in template order, with
// Text and Range resolved against text where possible. It returns an empty
// slice when template has no placeholders.
func Parse(text, template string) []PlaceholderSpan {
	spans, marked := ExtractPlaceholders(template)
	return AlignSpans(text, marked, spans)
}
