package notiftemplate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForClient(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		template  string
		wantBytes []Range
		wantChars []Range
	}{
		{
			name:      "ASCII Ranges Match",
			text:      "Bob commented on Photography Club",
			template:  "{{ userId: u1 }} commented on {{ communityId: c1 }}",
			wantBytes: []Range{{Offset: 0, Length: 3}, {Offset: 17, Length: 16}},
			wantChars: []Range{{Offset: 0, Length: 3}, {Offset: 17, Length: 16}},
		},
		{
			name:      "Accented Letters",
			text:      "Zoë commented on Café Club",
			template:  "{{ userId: u1 }} commented on {{ communityId: c1 }}",
			wantBytes: []Range{{Offset: 0, Length: 4}, {Offset: 18, Length: 10}},
			wantChars: []Range{{Offset: 0, Length: 3}, {Offset: 17, Length: 9}},
		},
		{
			name:      "Emoji Counts As Surrogate Pair",
			text:      "😀 Ana liked your post",
			template:  "😀 {{ userId: u1 }} liked your post",
			wantBytes: []Range{{Offset: 5, Length: 3}},
			wantChars: []Range{{Offset: 3, Length: 3}},
		},
		{
			name:      "Unresolved Span Keeps Zero Ranges",
			text:      "Anna mentioned Anna",
			template:  "{{ userId: u1 }} mentioned {{ userId: u2 }}",
			wantBytes: []Range{{}, {}},
			wantChars: []Range{{}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForClient(tt.text, Parse(tt.text, tt.template))
			require.Len(t, got, len(tt.wantBytes))
			for i, s := range got {
				assert.Equal(t, tt.wantBytes[i], s.Range, "byte range of span %d", i)
				assert.Equal(t, tt.wantChars[i], s.CharRange, "char range of span %d", i)
			}
		})
	}
}

func TestForClient_NeverNil(t *testing.T) {
	got := ForClient("hello", nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRangeChars_OutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{name: "Past End", r: Range{Offset: 3, Length: 10}},
		{name: "Negative Length", r: Range{Offset: 1, Length: -1}},
		{name: "Negative Offset", r: Range{Offset: -1, Length: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Range{}, tt.r.Chars("Zoë"))
		})
	}
}

func TestClientSpan_JSON(t *testing.T) {
	spans := ForClient("Zoë liked your post", Parse("Zoë liked your post", "{{ userId: u1 }} liked your post"))

	raw, err := json.Marshal(spans)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"u1","type":"user","text":"Zoë","range":{"offset":0,"length":4},"char_range":{"offset":0,"length":3}}]`,
		string(raw))
}
