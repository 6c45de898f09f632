package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer renders complete Markdown documents for the read view and
// sanitizes any HTML fragment before it is handed to a template.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a CommonMark + GFM renderer with a UGC sanitizing policy.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	return &Renderer{md: md, policy: policy}
}

// Render converts Markdown source to sanitized HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Sanitize cleans an HTML fragment produced elsewhere, such as Preview output.
func (r *Renderer) Sanitize(fragment string) string {
	return r.policy.Sanitize(fragment)
}

// SafePreview runs the preview pipeline and sanitizes its output.
func (r *Renderer) SafePreview(src string) string {
	return r.Sanitize(Preview(src))
}
