package notiftemplate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AlignSpans fills Text and Range of spans by walking the words of text and
// markedTemplate side by side. Wherever the two diverge, the text words up to
// the next template word (the stop word) are taken as the substitution of the
// next placeholder in order.
//
// Words are delimited by any whitespace; a multi-word substitution is
// rejoined with single spaces before it is located in text.
//
// Spans are filled strictly in order. A span whose substitution is empty,
// missing from text, or present more than once keeps a zero Range; spans of
// unknown type hold their slot but are never filled. The input slice is not
// modified.
func AlignSpans(text, markedTemplate string, spans []PlaceholderSpan) []PlaceholderSpan {
	out := make([]PlaceholderSpan, len(spans))
	copy(out, spans)
	if len(out) == 0 {
		return out
	}

	textWords := strings.Fields(text)
	// Empty template tokens are kept on purpose; see DESIGN.md.
	templateWords := splitWords(markedTemplate)

	slot := 0
	textIndex, templateIndex := 0, 0
	for textIndex < len(textWords) && templateIndex < len(templateWords) {
		if textWords[textIndex] == templateWords[templateIndex] {
			textIndex++
			templateIndex++
			continue
		}

		stopWord := ""
		if templateIndex+1 < len(templateWords) {
			stopWord = templateWords[templateIndex+1]
		}

		start := textIndex
		for textIndex < len(textWords) && textWords[textIndex] != stopWord {
			textIndex++
		}

		if slot < len(out) {
			if out[slot].Type != TypeUnknown {
				candidate := strings.Join(textWords[start:textIndex], " ")
				if r, ok := locate(text, candidate); ok {
					out[slot].Text = candidate
					out[slot].Range = r
				}
			}
			slot++
		}
		templateIndex++
	}

	return out
}

// locate returns the range of candidate in text when it occurs exactly once.
func locate(text, candidate string) (Range, bool) {
	if candidate == "" {
		return Range{}, false
	}
	first := strings.Index(text, candidate)
	if first < 0 {
		return Range{}, false
	}
	if strings.Contains(text[first+1:], candidate) {
		return Range{}, false
	}
	return Range{Offset: first, Length: len(candidate)}, true
}

// splitWords splits s at every whitespace rune. Unlike strings.Fields,
// consecutive separators yield empty words.
func splitWords(s string) []string {
	words := make([]string, 0, strings.Count(s, " ")+1)
	start := 0
	for i, r := range s {
		if unicode.IsSpace(r) {
			words = append(words, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(words, s[start:])
}
