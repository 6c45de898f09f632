// Package services implements the blog service contract used by the views
// and the JSON API on top of the repository ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// ErrValidation marks input rejected before any repository call. The
// wrapped models.ValidationErrors carries the per-field messages.
var ErrValidation = errors.New("validation failed")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// BlogService handles business logic for posts, comments and tags
type BlogService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	tagRepo     repositories.TagRepository
	log         *slog.Logger
}

// NewBlogService creates a new BlogService
func NewBlogService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, tagRepo repositories.TagRepository) *BlogService {
	return &BlogService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		tagRepo:     tagRepo,
		log:         slog.Default().With("component", "blog"),
	}
}

// WithLogger replaces the service logger.
func (s *BlogService) WithLogger(l *slog.Logger) *BlogService {
	s.log = l.With("component", "blog")
	return s
}

// fail wraps err with the operation name and logs it once. Not-found is an
// expected outcome and is only logged at debug level.
func (s *BlogService) fail(ctx context.Context, op string, err error, args ...any) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	args = append(args, "err", err)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		s.log.DebugContext(ctx, op+" not found", args...)
	case errors.Is(err, context.Canceled):
		s.log.DebugContext(ctx, op+" canceled", args...)
	default:
		s.log.ErrorContext(ctx, op+" failed", args...)
	}
	return wrapped
}

func invalid(op string, err error) error {
	var fields models.ValidationErrors
	if errors.As(err, &fields) {
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, fields)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
}

// IsNotFound reports whether err means the post or tag does not exist.
func IsNotFound(err error) bool { return errors.Is(err, repositories.ErrNotFound) }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// FieldErrors extracts the per-field messages of a validation failure.
func FieldErrors(err error) models.ValidationErrors {
	var fields models.ValidationErrors
	if errors.As(err, &fields) {
		return fields
	}
	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
