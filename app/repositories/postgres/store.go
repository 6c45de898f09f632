// Package postgres implements the repository ports with direct SQL over the
// blog platform's Postgres schema (posts, profiles, tags, post_tags, comments).
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

type Store struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying pgxpool.Pool
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Posts, Comments and Tags return repositories sharing the pool.
func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }
func (s *Store) Tags() *TagRepository         { return &TagRepository{s: s} }

type PostRepository struct{ s *Store }
type CommentRepository struct{ s *Store }
type TagRepository struct{ s *Store }

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.TagRepository     = (*TagRepository)(nil)
)

const postColumns = `
	p.id::text,
	p.title,
	p.content,
	COALESCE(p.excerpt, ''),
	COALESCE(p.cover_image, ''),
	p.published,
	p.created_at,
	pr.username,
	pr.avatar_url,
	COALESCE((
		SELECT json_agg(json_build_object('id', t.id::text, 'name', t.name, 'slug', t.slug) ORDER BY t.name)
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = p.id
	), '[]'::json)
FROM posts p
LEFT JOIN profiles pr ON pr.id = p.author_id`

func scanPost(row pgx.Row) (models.Post, error) {
	var (
		post      models.Post
		username  *string
		avatarURL *string
		tagsJSON  []byte
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.CoverImage,
		&post.Published,
		&post.CreatedAt,
		&username,
		&avatarURL,
		&tagsJSON,
	); err != nil {
		return post, err
	}
	post.Author = author(username, avatarURL)
	if err := json.Unmarshal(tagsJSON, &post.Tags); err != nil {
		return post, fmt.Errorf("decode post tags: %w", err)
	}
	if len(post.Tags) == 0 {
		post.Tags = nil
	}
	return post, nil
}

func author(username, avatarURL *string) *models.Author {
	if username == nil {
		return nil
	}
	a := &models.Author{Username: *username}
	if avatarURL != nil {
		a.AvatarURL = *avatarURL
	}
	return a
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	defer rows.Close()
	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repositories.ErrNotFound
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
	page := models.ListPage[models.Post]{Offset: offset, Limit: limit, Items: []models.Post{}}
	rows, err := r.s.pool.Query(ctx,
		"SELECT"+postColumns+" WHERE p.published ORDER BY p.created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return page, fmt.Errorf("list posts: %w", err)
	}
	page.Items, err = collectPosts(rows)
	if err != nil {
		return page, err
	}
	if err := r.s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE published").Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count posts: %w", err)
	}
	return page, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.s.pool.QueryRow(ctx, "SELECT"+postColumns+" WHERE p.id::text = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *PostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	rows, err := r.s.pool.Query(ctx,
		"SELECT"+postColumns+" WHERE p.published AND p.id::text = ANY($1) ORDER BY p.created_at DESC",
		ids)
	if err != nil {
		return nil, fmt.Errorf("list posts by id: %w", err)
	}
	return collectPosts(rows)
}

func (r *PostRepository) Create(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	var createdAt *time.Time
	if !draft.CreatedAt.IsZero() {
		at := draft.CreatedAt.UTC()
		createdAt = &at
	}
	var coverImage *string
	if draft.CoverImage != "" {
		coverImage = &draft.CoverImage
	}

	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO posts (title, content, excerpt, cover_image, published, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id::text`,
		draft.Title, draft.Content, draft.Excerpt, coverImage, draft.Published, draft.AuthorID, createdAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	for _, tagID := range draft.TagIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)", id, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("link tag: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	tag, err := r.s.pool.Exec(ctx, `
		UPDATE posts SET
			title = COALESCE($2, title),
			excerpt = COALESCE($3, excerpt),
			content = COALESCE($4, content),
			cover_image = COALESCE($5, cover_image),
			published = COALESCE($6, published)
		WHERE id::text = $1`,
		id, patch.Title, patch.Excerpt, patch.Content, patch.CoverImage, patch.Published)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repositories.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.s.pool.Exec(ctx, "DELETE FROM posts WHERE id::text = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

const commentColumns = `
	c.id::text,
	c.post_id::text,
	c.content,
	c.created_at,
	pr.username,
	pr.avatar_url
FROM comments c
LEFT JOIN profiles pr ON pr.id = c.author_id`

func scanComment(row pgx.Row) (models.Comment, error) {
	var (
		c         models.Comment
		username  *string
		avatarURL *string
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt, &username, &avatarURL); err != nil {
		return c, err
	}
	c.Author = author(username, avatarURL)
	return c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := r.s.pool.Query(ctx,
		"SELECT"+commentColumns+" WHERE c.post_id::text = $1 ORDER BY c.created_at ASC", postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error) {
	var id string
	err := r.s.pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, content, author_id)
		SELECT p.id, $2, $3 FROM posts p WHERE p.id::text = $1
		RETURNING id::text`,
		draft.PostID, draft.Content, draft.AuthorID,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repositories.ErrNotFound
		}
		return nil, notFound(err)
	}
	c, err := scanComment(r.s.pool.QueryRow(ctx, "SELECT"+commentColumns+" WHERE c.id::text = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

const tagColumns = `
	t.id::text,
	t.name,
	t.slug,
	(SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id)
FROM tags t`

func scanTag(row pgx.Row) (models.Tag, error) {
	var t models.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.PostCount)
	return t, err
}

func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.s.pool.Query(ctx, "SELECT"+tagColumns+" ORDER BY t.name ASC")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	t, err := scanTag(r.s.pool.QueryRow(ctx, "SELECT"+tagColumns+" WHERE t.slug = $1", slug))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TagRepository) PostIDs(ctx context.Context, tagID string) ([]string, error) {
	rows, err := r.s.pool.Query(ctx, "SELECT post_id::text FROM post_tags WHERE tag_id::text = $1", tagID)
	if err != nil {
		return nil, fmt.Errorf("list post ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Schema creates the tables used by this backend when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	username text NOT NULL,
	avatar_url text
);
CREATE TABLE IF NOT EXISTS posts (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL,
	content text NOT NULL,
	excerpt text,
	cover_image text,
	published boolean NOT NULL DEFAULT false,
	author_id uuid REFERENCES profiles(id),
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS tags (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	slug text NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS post_tags (
	post_id uuid NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	tag_id uuid NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (post_id, tag_id)
);
CREATE TABLE IF NOT EXISTS comments (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	post_id uuid NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	content text NOT NULL,
	author_id uuid REFERENCES profiles(id),
	created_at timestamptz NOT NULL DEFAULT now()
);`

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateTag inserts a tag; used by seeding.
func (r *TagRepository) CreateTag(ctx context.Context, name, slug string) (*models.Tag, error) {
	t, err := scanTag(r.s.pool.QueryRow(ctx, `
		WITH t AS (INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id, name, slug)
		SELECT t.id::text, t.name, t.slug, 0 FROM t`, name, slug))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repositories.ErrSlugTaken
		}
		return nil, err
	}
	return &t, nil
}
