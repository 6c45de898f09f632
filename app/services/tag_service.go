package services

import (
	"context"

	"inkpot/app/models"
)

// ListTags returns every tag ordered by name, with post counts.
func (s *BlogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list tags", err)
	}
	return tags, nil
}

// GetTag resolves a tag by slug.
func (s *BlogService) GetTag(ctx context.Context, slug string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, s.fail(ctx, "get tag", err, "slug", slug)
	}
	return tag, nil
}

// ListPostsByTag returns the published posts carrying the tag, newest first.
// The slug is resolved to a tag id, the join gives the post ids, and the
// posts are then fetched by id.
func (s *BlogService) ListPostsByTag(ctx context.Context, slug string) ([]models.Post, error) {
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, s.fail(ctx, "list posts by tag", err, "slug", slug)
	}
	ids, err := s.tagRepo.PostIDs(ctx, tag.ID)
	if err != nil {
		return nil, s.fail(ctx, "list posts by tag", err, "slug", slug)
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	posts, err := s.postRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail(ctx, "list posts by tag", err, "slug", slug)
	}
	return posts, nil
}

// ListPostsByTagPage windows ListPostsByTag so the tag view can page through it.
func (s *BlogService) ListPostsByTagPage(ctx context.Context, slug string, limit, offset int) (models.ListPage[models.Post], error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	page := models.ListPage[models.Post]{Offset: offset, Limit: limit, Items: []models.Post{}}
	posts, err := s.ListPostsByTag(ctx, slug)
	if err != nil {
		return page, err
	}
	page.Total = len(posts)
	if offset < len(posts) {
		end := offset + limit
		if end > len(posts) {
			end = len(posts)
		}
		page.Items = posts[offset:end]
	}
	return page, nil
}
