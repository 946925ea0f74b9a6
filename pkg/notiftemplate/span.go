package notiftemplate

import "unicode/utf16"

// PlaceholderType is the entity category of a template placeholder.
type PlaceholderType string

const (
	TypeUser      PlaceholderType = "user"
	TypeCommunity PlaceholderType = "community"
	TypeText      PlaceholderType = "text"
	TypeEvent     PlaceholderType = "event"
	// TypeUnknown marks a placeholder whose key matched no category.
	TypeUnknown PlaceholderType = ""
)

// Range is a byte range inside the rendered notification text.
type Range struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// IsZero reports whether the range was never resolved.
func (r Range) IsZero() bool {
	return r.Offset == 0 && r.Length == 0
}

// End returns the exclusive end offset.
func (r Range) End() int {
	return r.Offset + r.Length
}

// PlaceholderSpan describes one placeholder of a template and, once aligned,
// the substring of the rendered text it was substituted with.
type PlaceholderSpan struct {
	ID    string          `json:"id"`
	Type  PlaceholderType `json:"type"`
	Text  string          `json:"text"`
	Range Range           `json:"range"`
}

// Resolved reports whether the span was located in the rendered text.
func (s PlaceholderSpan) Resolved() bool {
	return !s.Range.IsZero()
}

// Resolved returns the spans that carry a usable range, preserving order.
func Resolved(spans []PlaceholderSpan) []PlaceholderSpan {
	out := make([]PlaceholderSpan, 0, len(spans))
	for _, s := range spans {
		if s.Resolved() {
			out = append(out, s)
		}
	}
	return out
}

// ClientSpan is a PlaceholderSpan as returned to API clients. Range stays in
// bytes; CharRange is the same range in UTF-16 code units of the text.
type ClientSpan struct {
	PlaceholderSpan
	CharRange Range `json:"char_range"`
}

// ForClient converts spans resolved against text into ClientSpans. It never
// returns nil.
func ForClient(text string, spans []PlaceholderSpan) []ClientSpan {
	out := make([]ClientSpan, 0, len(spans))
	for _, s := range spans {
		out = append(out, ClientSpan{PlaceholderSpan: s, CharRange: s.Range.Chars(text)})
	}
	return out
}

// Chars converts a byte range of text into UTF-16 code units. Unresolved or
// out of bounds ranges convert to the zero Range.
func (r Range) Chars(text string) Range {
	if r.IsZero() || r.Offset < 0 || r.Length <= 0 || r.End() > len(text) {
		return Range{}
	}
	return Range{
		Offset: utf16Len(text[:r.Offset]),
		Length: utf16Len(text[r.Offset:r.End()]),
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
