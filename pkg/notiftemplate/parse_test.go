package notiftemplate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		template string
		expected []PlaceholderSpan
	}{
		{
			name:     "Single User Placeholder",
			text:     "Alice liked your post",
			template: "{{ userId: u1 }} liked your post",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Alice", Range: Range{Offset: 0, Length: 5}},
			},
		},
		{
			name:     "Multiple Placeholders Keep Order",
			text:     "Bob commented on Photography Club",
			template: "{{ userId: u1 }} commented on {{ communityId: c1 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Bob", Range: Range{Offset: 0, Length: 3}},
				{ID: "c1", Type: TypeCommunity, Text: "Photography Club", Range: Range{Offset: 17, Length: 16}},
			},
		},
		{
			name:     "Event Placeholder At End",
			text:     "Carol invited you to Summer Picnic",
			template: "{{ userId: u1 }} invited you to {{ eventId: e9 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Carol", Range: Range{Offset: 0, Length: 5}},
				{ID: "e9", Type: TypeEvent, Text: "Summer Picnic", Range: Range{Offset: 21, Length: 13}},
			},
		},
		{
			name:     "Text Placeholder",
			text:     "Dan commented: Nice shot!",
			template: "{{ userId: u1 }} commented: {{ text: t1 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Dan", Range: Range{Offset: 0, Length: 3}},
				{ID: "t1", Type: TypeText, Text: "Nice shot!", Range: Range{Offset: 15, Length: 10}},
			},
		},
		{
			name:     "Placeholder In The Middle",
			text:     "Your post in Family Group got 3 likes",
			template: "Your post in {{ communityId: c7 }} got 3 likes",
			expected: []PlaceholderSpan{
				{ID: "c7", Type: TypeCommunity, Text: "Family Group", Range: Range{Offset: 13, Length: 12}},
			},
		},
		{
			name:     "Unknown Placeholder Holds Its Slot",
			text:     "Someone joined Hiking Crew",
			template: "{{ unknownKey: x }} joined {{ communityId: c1 }}",
			expected: []PlaceholderSpan{
				{ID: "x", Type: TypeUnknown},
				{ID: "c1", Type: TypeCommunity, Text: "Hiking Crew", Range: Range{Offset: 15, Length: 11}},
			},
		},
		{
			name:     "Duplicate Substring Stays Unresolved",
			text:     "Anna mentioned Anna in a post",
			template: "{{ userId: u1 }} mentioned {{ userId: u2 }} in a post",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser},
				{ID: "u2", Type: TypeUser},
			},
		},
		{
			name:     "Substring Missing From Text Stays Unresolved",
			text:     "Big  Band Club invited you",
			template: "{{ communityId: c1 }} invited you",
			expected: []PlaceholderSpan{
				{ID: "c1", Type: TypeCommunity},
			},
		},
		{
			name:     "Double Space In Template Swallows The Rest Of Text",
			text:     "Alice liked your post",
			template: "{{ userId: u1 }}  liked your post",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Alice liked your post", Range: Range{Offset: 0, Length: 21}},
			},
		},
		{
			name:     "More Placeholders Than Divergences",
			text:     "Alice",
			template: "{{ userId: u1 }} and {{ userId: u2 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Alice", Range: Range{Offset: 0, Length: 5}},
				{ID: "u2", Type: TypeUser},
			},
		},
		{
			name:     "Tab Separates Words In Text",
			text:     "Alice\tliked your post",
			template: "{{ userId: u1 }} liked your post",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Alice", Range: Range{Offset: 0, Length: 5}},
			},
		},
		{
			name:     "Newline Separates Words In Text",
			text:     "Bob commented on\nPhotography Club",
			template: "{{ userId: u1 }} commented on {{ communityId: c1 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Bob", Range: Range{Offset: 0, Length: 3}},
				{ID: "c1", Type: TypeCommunity, Text: "Photography Club", Range: Range{Offset: 17, Length: 16}},
			},
		},
		{
			name:     "Newline Separates Words In Template",
			text:     "Carol invited you to Summer Picnic",
			template: "{{ userId: u1 }}\ninvited you to {{ eventId: e9 }}",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser, Text: "Carol", Range: Range{Offset: 0, Length: 5}},
				{ID: "e9", Type: TypeEvent, Text: "Summer Picnic", Range: Range{Offset: 21, Length: 13}},
			},
		},
		{
			name:     "Empty Text",
			text:     "",
			template: "{{ userId: u1 }} liked your post",
			expected: []PlaceholderSpan{
				{ID: "u1", Type: TypeUser},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, tt.template)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			for _, s := range got {
				if s.Resolved() {
					assert.LessOrEqual(t, s.Range.End(), len(tt.text), "range must stay inside text")
					assert.Equal(t, s.Text, tt.text[s.Range.Offset:s.Range.End()])
				}
			}
		})
	}
}

func TestParse_NoPlaceholders(t *testing.T) {
	got := Parse("Hello world", "Hello world")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParse_Idempotent(t *testing.T) {
	text := "Bob commented on Photography Club"
	template := "{{ userId: u1 }} commented on {{ communityId: c1 }}"

	first := Parse(text, template)
	second := Parse(text, template)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Parse() not idempotent (-first +second):\n%s", diff)
	}
}

func TestParse_MismatchedLiteralDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Parse("Alice liked your photo today", "{{ userId: u1 }} liked your post")
		require.Len(t, got, 1)
		assert.Equal(t, "Alice", got[0].Text)
	})
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Single Spaces", input: "a b c", expected: []string{"a", "b", "c"}},
		{name: "Tab And Newline", input: "a\tb\nc", expected: []string{"a", "b", "c"}},
		{name: "Consecutive Separators Keep Empty Words", input: "a \tb", expected: []string{"a", "", "b"}},
		{name: "Non Breaking Space", input: "a\u00a0b", expected: []string{"a", "b"}},
		{name: "Empty", input: "", expected: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitWords(tt.input))
		})
	}
}
