package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewRuleOrder(t *testing.T) {
	names := make([]string, 0, len(PreviewRules))
	for _, r := range PreviewRules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"h3", "h2", "h1", "bold", "italic", "code", "newline"}, names)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "h1", in: "# Title", want: "<h1>Title</h1>"},
		{name: "h2", in: "## Sub", want: "<h2>Sub</h2>"},
		{name: "h3", in: "### Deep", want: "<h3>Deep</h3>"},
		{name: "heading needs space", in: "#Title", want: "#Title"},
		{name: "heading only at line start", in: "a # b", want: "a # b"},
		{name: "headings per line", in: "# A\n## B", want: "<h1>A</h1><br /><h2>B</h2>"},
		{name: "bold", in: "**x**", want: "<strong>x</strong>"},
		{name: "bold is non-greedy", in: "**a** and **b**", want: "<strong>a</strong> and <strong>b</strong>"},
		{name: "italic", in: "*x*", want: "<em>x</em>"},
		{name: "bold then italic", in: "**b** *i*", want: "<strong>b</strong> <em>i</em>"},
		{name: "triple asterisks", in: "***x***", want: "<strong><em>x</strong></em>"},
		{name: "code", in: "use `go test`", want: "use <code>go test</code>"},
		{name: "unmatched bold", in: "**open", want: "**open"},
		{name: "unmatched italic", in: "a * b", want: "a * b"},
		{name: "unmatched code", in: "`open", want: "`open"},
		{name: "spans stay on one line", in: "*a\nb*", want: "*a<br />b*"},
		{
			name: "mixed document",
			in:   "# Hello\n\nThis is **bold** and *italic* with `code`.",
			want: "<h1>Hello</h1><br /><br />This is <strong>bold</strong> and <em>italic</em> with <code>code</code>.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.in))
		})
	}
}

func TestPreviewCRLF(t *testing.T) {
	assert.Equal(t, "a<br />b", Preview("a\r\nb"))
	assert.Equal(t, "<h2>Title</h2><br />x", Preview("## Title\r\nx"))
}

func TestPreviewPlainTextOnlyConvertsNewlines(t *testing.T) {
	in := "first line\nsecond line\n\nthird"
	assert.Equal(t, "first line<br />second line<br /><br />third", Preview(in))
}
