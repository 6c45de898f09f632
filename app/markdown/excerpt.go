package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// ExcerptLength is the number of characters kept from the plain text.
	ExcerptLength = 150
	ellipsis      = "..."
)

// excerptRules strip Markdown down to plain text. Images are removed before
// links are unwrapped; otherwise the link rule would leave "!alt" behind.
var excerptRules = []Rule{
	{Name: "heading", Pattern: regexp.MustCompile(`#{1,6}\s+`), Replacement: ""},
	{Name: "bold", Pattern: regexp.MustCompile(`\*\*(.*?)\*\*`), Replacement: "$1"},
	{Name: "italic", Pattern: regexp.MustCompile(`\*(.*?)\*`), Replacement: "$1"},
	{Name: "code", Pattern: regexp.MustCompile("`(.*?)`"), Replacement: "$1"},
	{Name: "image", Pattern: regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`), Replacement: ""},
	{Name: "link", Pattern: regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), Replacement: "$1"},
	{Name: "newlines", Pattern: regexp.MustCompile(`\n+`), Replacement: " "},
}

// PlainText strips the supported Markdown markers from src.
func PlainText(src string) string {
	return strings.TrimSpace(applyRules(excerptRules, normalizeNewlines(src)))
}

// Excerpt derives a teaser from Markdown source: the first ExcerptLength
// characters of its plain text, followed by "..." when text was cut.
func Excerpt(src string) string {
	plain := PlainText(src)
	if utf8.RuneCountInString(plain) <= ExcerptLength {
		return plain
	}
	return string([]rune(plain)[:ExcerptLength]) + ellipsis
}

// ExcerptOrDefault returns excerpt unchanged when it is non-blank, otherwise
// the excerpt generated from content.
func ExcerptOrDefault(excerpt, content string) string {
	if strings.TrimSpace(excerpt) != "" {
		return excerpt
	}
	return Excerpt(content)
}
