package services

import (
	"context"

	"inkpot/app/markdown"
	"inkpot/app/models"
)

// ListPosts returns one window of published posts, newest first, with the total.
func (s *BlogService) ListPosts(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	page, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return page, s.fail(ctx, "list posts", err, "limit", limit, "offset", offset)
	}
	return page, nil
}

// GetPost retrieves a post by id; a missing post yields an error matching IsNotFound.
func (s *BlogService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get post", err, "id", id)
	}
	return post, nil
}

// CreatePost validates the draft, fills a missing excerpt from the content and stores it.
func (s *BlogService) CreatePost(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, invalid("create post", err)
	}
	draft.Excerpt = markdown.ExcerptOrDefault(draft.Excerpt, draft.Content)
	post, err := s.postRepo.Create(ctx, draft)
	if err != nil {
		return nil, s.fail(ctx, "create post", err, "title", draft.Title)
	}
	s.log.InfoContext(ctx, "post created", "id", post.ID, "published", post.Published)
	return post, nil
}

// UpdatePost applies a partial update.
func (s *BlogService) UpdatePost(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	if patch.IsEmpty() {
		return nil, invalid("update post", models.ValidationErrors{"patch": "no fields to update"})
	}
	if err := patch.Validate(); err != nil {
		return nil, invalid("update post", err)
	}
	post, err := s.postRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail(ctx, "update post", err, "id", id)
	}
	return post, nil
}

// DeletePost removes a post; it reports false when nothing was deleted.
func (s *BlogService) DeletePost(ctx context.Context, id string) (bool, error) {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return false, s.fail(ctx, "delete post", err, "id", id)
	}
	s.log.InfoContext(ctx, "post deleted", "id", id)
	return true, nil
}
