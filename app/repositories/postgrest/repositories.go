package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// PostRepository implements repositories.PostRepository over PostgREST.
type PostRepository struct{ c *Client }

// CommentRepository implements repositories.CommentRepository over PostgREST.
type CommentRepository struct{ c *Client }

// TagRepository implements repositories.TagRepository over PostgREST.
type TagRepository struct{ c *Client }

func NewPostRepository(c *Client) *PostRepository       { return &PostRepository{c: c} }
func NewCommentRepository(c *Client) *CommentRepository { return &CommentRepository{c: c} }
func NewTagRepository(c *Client) *TagRepository         { return &TagRepository{c: c} }

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.TagRepository     = (*TagRepository)(nil)
)

func returnRepresentation() http.Header {
	return http.Header{"Prefer": []string{"return=representation"}}
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
	page := models.ListPage[models.Post]{Offset: offset, Limit: limit, Items: []models.Post{}}
	var rows []postRow
	res, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "posts",
		query: url.Values{
			"select":    {postSelect},
			"published": {eq("true")},
			"order":     {"created_at.desc"},
		},
		header: http.Header{
			"Prefer":     {"count=exact"},
			"Range-Unit": {"items"},
			"Range":      {fmt.Sprintf("%d-%d", offset, offset+limit-1)},
		},
	}, &rows)
	if err != nil {
		return page, err
	}
	page.Items = postsFromRows(rows)
	page.Total = res.total
	if page.Total < 0 {
		page.Total = offset + len(rows)
	}
	return page, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var rows []postRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "posts",
		query:  url.Values{"select": {postSelect}, "id": {eq(id)}},
	}, &rows); err != nil {
		return nil, err
	}
	row, err := notFoundIfEmpty(rows)
	if err != nil {
		return nil, err
	}
	post := row.toModel()
	return &post, nil
}

func (r *PostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	var rows []postRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "posts",
		query: url.Values{
			"select":    {postSelect},
			"id":        {in(ids)},
			"published": {eq("true")},
			"order":     {"created_at.desc"},
		},
	}, &rows); err != nil {
		return nil, err
	}
	return postsFromRows(rows), nil
}

func (r *PostRepository) Create(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	body := postInsert{
		Title:     draft.Title,
		Content:   draft.Content,
		Excerpt:   draft.Excerpt,
		Published: draft.Published,
		AuthorID:  draft.AuthorID,
	}
	if draft.CoverImage != "" {
		body.CoverImage = &draft.CoverImage
	}
	if !draft.CreatedAt.IsZero() {
		at := draft.CreatedAt.UTC()
		body.CreatedAt = &at
	}

	var rows []postRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodPost,
		table:  "posts",
		query:  url.Values{"select": {postSelect}},
		body:   []postInsert{body},
		header: returnRepresentation(),
	}, &rows); err != nil {
		return nil, err
	}
	row, err := notFoundIfEmpty(rows)
	if err != nil {
		return nil, fmt.Errorf("insert returned no row: %w", err)
	}

	if len(draft.TagIDs) > 0 {
		links := make([]postTagRow, 0, len(draft.TagIDs))
		for _, tagID := range draft.TagIDs {
			links = append(links, postTagRow{PostID: row.ID, TagID: tagID})
		}
		if _, err := r.c.do(ctx, request{
			method: http.MethodPost,
			table:  "post_tags",
			body:   links,
		}, nil); err != nil {
			if isForeignKeyViolation(err) {
				return nil, repositories.ErrNotFound
			}
			return nil, err
		}
		return r.GetByID(ctx, row.ID)
	}
	post := row.toModel()
	return &post, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	var rows []postRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodPatch,
		table:  "posts",
		query:  url.Values{"select": {postSelect}, "id": {eq(id)}},
		body:   patch,
		header: returnRepresentation(),
	}, &rows); err != nil {
		return nil, err
	}
	row, err := notFoundIfEmpty(rows)
	if err != nil {
		return nil, err
	}
	post := row.toModel()
	return &post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	var rows []struct {
		ID string `json:"id"`
	}
	if _, err := r.c.do(ctx, request{
		method: http.MethodDelete,
		table:  "posts",
		query:  url.Values{"select": {"id"}, "id": {eq(id)}},
		header: returnRepresentation(),
	}, &rows); err != nil {
		return err
	}
	_, err := notFoundIfEmpty(rows)
	return err
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var rows []commentRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "comments",
		query: url.Values{
			"select":  {commentSelect},
			"post_id": {eq(postID)},
			"order":   {"created_at.asc"},
		},
	}, &rows); err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toModel())
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error) {
	var rows []commentRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodPost,
		table:  "comments",
		query:  url.Values{"select": {commentSelect}},
		body:   []commentInsert{{PostID: draft.PostID, Content: draft.Content, AuthorID: draft.AuthorID}},
		header: returnRepresentation(),
	}, &rows); err != nil {
		if isForeignKeyViolation(err) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	row, err := notFoundIfEmpty(rows)
	if err != nil {
		return nil, fmt.Errorf("insert returned no row: %w", err)
	}
	comment := row.toModel()
	return &comment, nil
}

func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var rows []tagRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "tags",
		query:  url.Values{"select": {tagSelect}, "order": {"name.asc"}},
	}, &rows); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, row.toModel())
	}
	return tags, nil
}

func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var rows []tagRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "tags",
		query:  url.Values{"select": {tagSelect}, "slug": {eq(slug)}, "limit": {strconv.Itoa(1)}},
	}, &rows); err != nil {
		return nil, err
	}
	row, err := notFoundIfEmpty(rows)
	if err != nil {
		return nil, err
	}
	tag := row.toModel()
	return &tag, nil
}

func (r *TagRepository) PostIDs(ctx context.Context, tagID string) ([]string, error) {
	var rows []postTagRow
	if _, err := r.c.do(ctx, request{
		method: http.MethodGet,
		table:  "post_tags",
		query:  url.Values{"select": {"post_id"}, "tag_id": {eq(tagID)}},
	}, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PostID)
	}
	return ids, nil
}
