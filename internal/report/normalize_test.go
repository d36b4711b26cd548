package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer("example-form.com")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "upload rewrite",
			input: "https://www.example-form.com/uploads/abc/file.png",
			want:  "https://files.example-form.com/jufs/abc/file.png",
		},
		{
			name:  "upload rewrite without www",
			input: "https://example-form.com/uploads/abc/file.png",
			want:  "https://files.example-form.com/jufs/abc/file.png",
		},
		{
			name:  "escaped upload url",
			input: `https:\/\/www.example-form.com\/uploads\/a\/b.pdf`,
			want:  "https://files.example-form.com/jufs/a/b.pdf",
		},
		{
			name:  "trailing quote and bracket",
			input: `https://x.com/a.pdf">`,
			want:  "https://x.com/a.pdf",
		},
		{
			name:  "trailing punctuation",
			input: "https://x.com/a.pdf,",
			want:  "https://x.com/a.pdf",
		},
		{
			name:  "unbalanced closing parenthesis",
			input: "https://x.com/a.pdf).",
			want:  "https://x.com/a.pdf",
		},
		{
			name:  "balanced parentheses kept",
			input: "https://en.wikipedia.org/wiki/Form_(document)",
			want:  "https://en.wikipedia.org/wiki/Form_(document)",
		},
		{
			name:  "other host untouched",
			input: "https://www.other.com/uploads/a.png",
			want:  "https://www.other.com/uploads/a.png",
		},
		{
			name:  "already canonical",
			input: "https://files.example-form.com/jufs/abc/file.png",
			want:  "https://files.example-form.com/jufs/abc/file.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer("example-form.com")
	inputs := []string{
		"",
		"https://www.example-form.com/uploads/abc/file.png",
		`https:\\/\\/www.example-form.com\\/uploads\\/x.pdf\"`,
		"https://x.com/a.pdf.,;'\"<>",
		" https://x.com/a \n",
		"http://EXAMPLE-FORM.com/uploads/a",
		`https://x.com/a\`,
		"...",
		"https://x.com/a.pdf)).",
		"https://x.com/(a.pdf))",
	}
	for _, u := range inputs {
		once := n.Normalize(u)
		assert.Equal(t, once, n.Normalize(once), "input %q", u)
	}
}

func TestCanonicalize(t *testing.T) {
	n := NewNormalizer("example-form.com")

	a := "https://a.com/1.pdf"
	b := "https://b.com/2.pdf"
	c := "https://c.com/3.pdf"
	assert.Equal(t, []string{b, a, c}, n.Canonicalize([]string{b, a, b, c, a}))

	got := n.Canonicalize([]string{
		"https://www.example-form.com/uploads/x/1.png",
		"https://files.example-form.com/jufs/x/1.png",
		"https://example-form.com/uploads/x/1.png\"",
		"",
	})
	assert.Equal(t, []string{"https://files.example-form.com/jufs/x/1.png"}, got)
}

func TestNewNormalizerDefaultHost(t *testing.T) {
	assert.Equal(t, DefaultFormHost, NewNormalizer("").FormHost())
	assert.Equal(t, "example-form.com", NewNormalizer(" Example-Form.com ").FormHost())
}
