package models

import "time"

// Author is the public profile joined onto posts and comments.
type Author struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Post represents a blog post as returned by the blog service.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt,omitempty"`
	CoverImage string    `json:"cover_image,omitempty"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	Author     *Author   `json:"author,omitempty"`
	Tags       []Tag     `json:"tags,omitempty"`
}

// Tag is a post label with a derived post count.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListPage is one window of an offset-paginated collection.
type ListPage[T any] struct {
	Items  []T `json:"items"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// PostDraft is the payload submitted by the composition view.
type PostDraft struct {
	Title      string  `json:"title" validate:"required,max=200"`
	Excerpt    string  `json:"excerpt" validate:"max=300"`
	Content    string  `json:"content" validate:"required"`
	CoverImage string  `json:"cover_image" validate:"omitempty,url,startswith=http"`
	Published  bool    `json:"published"`
	AuthorID   *string `json:"author_id"`
	// CreatedAt is stamped by the composition view; zero lets the backend decide.
	CreatedAt time.Time `json:"created_at,omitempty"`
	TagIDs    []string  `json:"-" validate:"dive,required"`
}

// PostPatch carries the fields of a partial post update.
type PostPatch struct {
	Title      *string `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	Excerpt    *string `json:"excerpt,omitempty" validate:"omitnil,max=300"`
	Content    *string `json:"content,omitempty" validate:"omitnil,min=1"`
	CoverImage *string `json:"cover_image,omitempty" validate:"omitempty,url"`
	Published  *bool   `json:"published,omitempty"`
}

// CommentDraft is the payload submitted by the comment form.
type CommentDraft struct {
	PostID   string  `json:"post_id" validate:"required"`
	Content  string  `json:"content" validate:"required,max=2000"`
	AuthorID *string `json:"author_id"`
}
