package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuannvm/formrelay/internal/models"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{
			name:  "plain text",
			input: "see https://a.com/x and http://b.org/y.pdf please",
			want:  []string{"https://a.com/x", "http://b.org/y.pdf"},
		},
		{
			name:  "escaped text",
			input: `file: https:\/\/a.com\/x.png`,
			want:  []string{"https://a.com/x.png"},
		},
		{
			name:  "json string walked in document order",
			input: `{"a":"https://x.com/1.png","b":["https://y.com/2.pdf",{"c":"see https://z.com/3"}]}`,
			want:  []string{"https://x.com/1.png", "https://y.com/2.pdf", "https://z.com/3"},
		},
		{
			name:  "double escaped inside json",
			input: `{"u":"https:\\/\\/x.com\\/a.png"}`,
			want:  []string{"https://x.com/a.png"},
		},
		{
			name:  "malformed json falls back to text scan",
			input: `{"a": "https:\/\/x.com\/f.pdf"`,
			want:  []string{"https://x.com/f.pdf"},
		},
		{
			name:  "nested go values",
			input: map[string]any{"b": "https://b.com", "a": []any{"https://a.com", 42, nil, true}},
			want:  []string{"https://a.com", "https://b.com"},
		},
		{
			name: "resolved fields in order",
			input: models.Fields{
				{Name: "z", Value: "https://z.com"},
				{Name: "a", Value: "https://a.com"},
			},
			want: []string{"https://z.com", "https://a.com"},
		},
		{
			name:  "duplicates kept",
			input: "https://a.com https://a.com",
			want:  []string{"https://a.com", "https://a.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURLs(tt.input))
		})
	}
}

func TestExtractURLsScalars(t *testing.T) {
	for _, input := range []any{nil, 42, 3.5, true, "", "no links here"} {
		assert.Empty(t, ExtractURLs(input), "input %v", input)
	}
}
