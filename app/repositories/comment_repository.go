package repositories

import (
	"context"
	"time"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type commentRecord struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	AuthorID  *string   `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, now: time.Now}
}

// Create stores a comment on an existing post.
func (r *BadgerCommentRepository) Create(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := commentRecord{
		ID:        uuid.NewString(),
		PostID:    draft.PostID,
		Content:   draft.Content,
		AuthorID:  draft.AuthorID,
		CreatedAt: r.now().UTC(),
	}

	var comment *models.Comment
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(postKey(rec.PostID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		data, err := marshalEntity(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(commentKey(rec.PostID, rec.CreatedAt, rec.ID), data); err != nil {
			return err
		}
		comment, err = hydrateComment(txn, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns the comments on a post, oldest first.
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		var recs []commentRecord
		prefix := commentPrefix(postID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec commentRecord
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &rec)
			}); err != nil {
				it.Close()
				return err
			}
			recs = append(recs, rec)
		}
		it.Close()

		for _, rec := range recs {
			c, err := hydrateComment(txn, rec)
			if err != nil {
				return err
			}
			comments = append(comments, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func hydrateComment(txn *badger.Txn, rec commentRecord) (*models.Comment, error) {
	author, err := loadAuthor(txn, rec.AuthorID)
	if err != nil {
		return nil, err
	}
	return &models.Comment{
		ID:        rec.ID,
		PostID:    rec.PostID,
		Content:   rec.Content,
		Author:    author,
		CreatedAt: rec.CreatedAt,
	}, nil
}
