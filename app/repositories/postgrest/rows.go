package postgrest

import (
	"time"

	"inkpot/app/models"
)

// Boundary records as PostgREST returns them. They are converted to
// models right after decoding and never leave this package.

type authorRow struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type tagRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	PostTags []struct {
		Count int `json:"count"`
	} `json:"post_tags"`
}

type postRow struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Excerpt    *string    `json:"excerpt"`
	CoverImage *string    `json:"cover_image"`
	Published  bool       `json:"published"`
	CreatedAt  time.Time  `json:"created_at"`
	Author     *authorRow `json:"author"`
	Tags       []struct {
		Tag *tagRow `json:"tag"`
	} `json:"tags"`
}

type commentRow struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *authorRow `json:"author"`
}

type postTagRow struct {
	PostID string `json:"post_id"`
	TagID  string `json:"tag_id"`
}

// postInsert is the body of a post insert; created_at is omitted when zero.
type postInsert struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Excerpt    string     `json:"excerpt"`
	CoverImage *string    `json:"cover_image"`
	Published  bool       `json:"published"`
	AuthorID   *string    `json:"author_id"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type commentInsert struct {
	PostID   string  `json:"post_id"`
	Content  string  `json:"content"`
	AuthorID *string `json:"author_id"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (a *authorRow) toModel() *models.Author {
	if a == nil {
		return nil
	}
	return &models.Author{Username: a.Username, AvatarURL: deref(a.AvatarURL)}
}

func (t tagRow) toModel() models.Tag {
	tag := models.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
	if len(t.PostTags) > 0 {
		tag.PostCount = t.PostTags[0].Count
	}
	return tag
}

func (p postRow) toModel() models.Post {
	post := models.Post{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Excerpt:    deref(p.Excerpt),
		CoverImage: deref(p.CoverImage),
		Published:  p.Published,
		CreatedAt:  p.CreatedAt,
		Author:     p.Author.toModel(),
	}
	for _, pt := range p.Tags {
		if pt.Tag != nil {
			post.Tags = append(post.Tags, pt.Tag.toModel())
		}
	}
	return post
}

func (c commentRow) toModel() models.Comment {
	return models.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    c.Author.toModel(),
	}
}

func postsFromRows(rows []postRow) []models.Post {
	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toModel())
	}
	return posts
}
