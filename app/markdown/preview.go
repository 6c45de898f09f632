// Package markdown holds the Markdown pipelines used by the blog front end:
// a fixed rewrite pipeline for live preview, the excerpt generator used when
// a post is submitted without a summary, and the full renderer for the read view.
package markdown

import (
	"regexp"
	"strings"
)

// Rule is one step of a rewrite pipeline: every match of Pattern in the
// output of the previous step is replaced by Replacement ($1 expands).
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

func (r Rule) apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

// PreviewRules is the ordered preview pipeline. Order matters: headings are
// matched longest marker first, and bold runs before italic so that the
// inner asterisks of a bold span are consumed before the italic rule sees them.
var PreviewRules = []Rule{
	{Name: "h3", Pattern: regexp.MustCompile(`(?m)^### (.*)$`), Replacement: "<h3>$1</h3>"},
	{Name: "h2", Pattern: regexp.MustCompile(`(?m)^## (.*)$`), Replacement: "<h2>$1</h2>"},
	{Name: "h1", Pattern: regexp.MustCompile(`(?m)^# (.*)$`), Replacement: "<h1>$1</h1>"},
	{Name: "bold", Pattern: regexp.MustCompile(`\*\*(.*?)\*\*`), Replacement: "<strong>$1</strong>"},
	{Name: "italic", Pattern: regexp.MustCompile(`\*(.*?)\*`), Replacement: "<em>$1</em>"},
	{Name: "code", Pattern: regexp.MustCompile("`(.*?)`"), Replacement: "<code>$1</code>"},
	{Name: "newline", Pattern: regexp.MustCompile(`\n`), Replacement: "<br />"},
}

// Preview converts a Markdown subset to an HTML fragment for live preview.
// It never fails: unmatched delimiters are left as they are. The output is
// not sanitized.
func Preview(src string) string {
	return applyRules(PreviewRules, normalizeNewlines(src))
}

// normalizeNewlines turns CRLF and lone CR line endings, as sent by browser
// forms, into "\n".
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

func applyRules(rules []Rule, s string) string {
	for _, r := range rules {
		s = r.apply(s)
	}
	return s
}
