// Package views holds the per-visitor state of each page. Every view is a
// small state machine (Idle, Loading, then Loaded, Failed or NotFound)
// driven by one Activate entry point; responses that arrive after a newer
// activation are discarded.
package views

import (
	"context"
	"errors"

	"inkpot/app/models"
	"inkpot/app/services"
)

// Blog is the collaborator the views read from and write to.
type Blog interface {
	ListPosts(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, draft *models.PostDraft) (*models.Post, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, slug string) (*models.Tag, error)
	ListPostsByTagPage(ctx context.Context, slug string, limit, offset int) (models.ListPage[models.Post], error)
}

// Status is the lifecycle state of a view.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
	NotFound
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrNotReady is returned when an action needs content that is not loaded.
	ErrNotReady = errors.New("view is not loaded")
)

// RetryNotice is shown when a collaborator call fails.
const RetryNotice = "Something went wrong while talking to the blog. Please try again."

func isNotFound(err error) bool { return services.IsNotFound(err) }
