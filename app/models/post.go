package models

import (
	"strings"
	"time"
)

// Identifier returns the post ID; it lets loaders deduplicate posts.
func (p Post) Identifier() string { return p.ID }

// HasTag reports whether the post carries the tag with the given slug.
func (p Post) HasTag(slug string) bool {
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// Normalize trims the free-text fields of a draft in place.
func (d *PostDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Excerpt = strings.TrimSpace(d.Excerpt)
	d.CoverImage = strings.TrimSpace(d.CoverImage)
}

// Validate checks the draft before anything is sent to the blog service.
// Whitespace-only title or content count as empty.
func (d *PostDraft) Validate() error {
	ve := ValidationErrors{}
	if strings.TrimSpace(d.Title) == "" {
		ve["title"] = "title is required"
	}
	if strings.TrimSpace(d.Content) == "" {
		ve["content"] = "content is required"
	}
	if err := validateStruct(d); err != nil {
		tagErrs, ok := err.(ValidationErrors)
		if !ok {
			return err
		}
		for f, msg := range tagErrs {
			if _, seen := ve[f]; !seen {
				ve[f] = msg
			}
		}
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

// BeforeCreate stamps the creation time when the caller left it empty.
func (d *PostDraft) BeforeCreate() {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
}

// Validate checks the fields present in a patch.
func (p *PostPatch) Validate() error {
	return validateStruct(p)
}

// IsEmpty reports whether the patch changes nothing.
func (p *PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil &&
		p.CoverImage == nil && p.Published == nil
}

// Apply copies the patched fields onto post.
func (p *PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.CoverImage != nil {
		post.CoverImage = *p.CoverImage
	}
	if p.Published != nil {
		post.Published = *p.Published
	}
}

// AuthorName returns the author's username, or "Anonymous" when the post has none.
func (p Post) AuthorName() string {
	if p.Author == nil || p.Author.Username == "" {
		return "Anonymous"
	}
	return p.Author.Username
}
