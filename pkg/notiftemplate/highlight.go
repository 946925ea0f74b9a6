package notiftemplate

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// Highlighter formats the literal and highlighted parts of a notification.
type Highlighter interface {
	Literal(s string) string
	Span(span PlaceholderSpan, s string) string
}

// Highlight rebuilds text with every resolved span passed through h.Span and
// everything else through h.Literal. Spans with a zero, negative, out of
// bounds or overlapping range are left as plain text.
func Highlight(text string, spans []PlaceholderSpan, h Highlighter) string {
	ordered := Resolved(spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Range.Offset < ordered[j].Range.Offset
	})

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, s := range ordered {
		if s.Range.Length <= 0 || s.Range.Offset < cursor || s.Range.End() > len(text) {
			continue
		}
		b.WriteString(h.Literal(text[cursor:s.Range.Offset]))
		b.WriteString(h.Span(s, text[s.Range.Offset:s.Range.End()]))
		cursor = s.Range.End()
	}
	b.WriteString(h.Literal(text[cursor:]))
	return b.String()
}

type htmlHighlighter struct {
	classPrefix string
}

// HTML returns a Highlighter that escapes text and wraps spans in
// <b class="{prefix}-{type}" data-id="{id}">.
func HTML(classPrefix string) Highlighter {
	if classPrefix == "" {
		classPrefix = "notification"
	}
	return htmlHighlighter{classPrefix: classPrefix}
}

func (h htmlHighlighter) Literal(s string) string {
	return html.EscapeString(s)
}

func (h htmlHighlighter) Span(span PlaceholderSpan, s string) string {
	return fmt.Sprintf(`<b class="%s-%s" data-id="%s">%s</b>`,
		h.classPrefix, span.Type, html.EscapeString(span.ID), html.EscapeString(s))
}

type markdownHighlighter struct{}

// Markdown returns a Highlighter that emphasises spans with **bold**.
func Markdown() Highlighter {
	return markdownHighlighter{}
}

func (markdownHighlighter) Literal(s string) string { return s }

func (markdownHighlighter) Span(_ PlaceholderSpan, s string) string {
	return "**" + s + "**"
}

type plainHighlighter struct{}

// Plain returns a Highlighter that leaves the text untouched.
func Plain() Highlighter {
	return plainHighlighter{}
}

func (plainHighlighter) Literal(s string) string                 { return s }
func (plainHighlighter) Span(_ PlaceholderSpan, s string) string { return s }

// HighlighterFor maps a format name ("html", "markdown", "plain") to a
// Highlighter, defaulting to plain.
func HighlighterFor(format string) Highlighter {
	switch strings.ToLower(format) {
	case "html":
		return HTML("")
	case "markdown", "md":
		return Markdown()
	default:
		return Plain()
	}
}
