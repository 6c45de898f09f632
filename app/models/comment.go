package models

import "strings"

// Identifier returns the comment ID.
func (c Comment) Identifier() string { return c.ID }

// DisplayName returns the author's username or a placeholder for anonymous comments.
func (c Comment) DisplayName() string {
	if c.Author == nil || c.Author.Username == "" {
		return "Anonymous"
	}
	return c.Author.Username
}

// Initial returns the upper-cased first letter of the display name.
func (c Comment) Initial() string {
	if c.Author == nil || c.Author.Username == "" {
		return "A"
	}
	r := []rune(c.Author.Username)
	return strings.ToUpper(string(r[0]))
}

// Validate checks the comment draft; content is trimmed first.
func (d *CommentDraft) Validate() error {
	d.Content = strings.TrimSpace(d.Content)
	return validateStruct(d)
}
