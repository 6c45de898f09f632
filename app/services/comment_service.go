package services

import (
	"context"

	"inkpot/app/models"
)

// ListComments returns a post's comments, oldest first.
func (s *BlogService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, s.fail(ctx, "list comments", err, "post_id", postID)
	}
	return comments, nil
}

// AddComment validates and stores a comment. Content is trimmed first.
func (s *BlogService) AddComment(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalid("add comment", err)
	}
	comment, err := s.commentRepo.Create(ctx, draft)
	if err != nil {
		return nil, s.fail(ctx, "add comment", err, "post_id", draft.PostID)
	}
	return comment, nil
}
