package repositories

import (
	"context"

	"inkpot/app/models"
)

// PostRepository defines the interface for post data access.
// List and ListByIDs return published posts only, newest first.
type PostRepository interface {
	List(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, draft *models.PostDraft) (*models.Post, error)
	Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment data access.
// ListByPost returns comments oldest first.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Create(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error)
}

// TagRepository defines the interface for tag data access.
// List returns tags ordered by name, each with its post count.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	// PostIDs resolves the post_tags join for one tag.
	PostIDs(ctx context.Context, tagID string) ([]string, error)
}
