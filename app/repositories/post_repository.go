package repositories

import (
	"context"
	"sort"
	"time"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// postRecord is the stored form of a post; author and tags are joined on read.
type postRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorID   *string   `json:"author_id"`
}

func (rec postRecord) toModel() models.Post {
	return models.Post{
		ID:         rec.ID,
		Title:      rec.Title,
		Content:    rec.Content,
		Excerpt:    rec.Excerpt,
		CoverImage: rec.CoverImage,
		Published:  rec.Published,
		CreatedAt:  rec.CreatedAt,
	}
}

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create stores a new post and its tag links, returning the stored post.
func (r *BadgerPostRepository) Create(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	draft.BeforeCreate()
	rec := postRecord{
		ID:         uuid.NewString(),
		Title:      draft.Title,
		Content:    draft.Content,
		Excerpt:    draft.Excerpt,
		CoverImage: draft.CoverImage,
		Published:  draft.Published,
		CreatedAt:  draft.CreatedAt.UTC(),
		AuthorID:   draft.AuthorID,
	}

	var post *models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := putPost(txn, rec); err != nil {
			return err
		}
		for _, tagID := range draft.TagIDs {
			if _, err := txn.Get(tagKey(tagID)); err == badger.ErrKeyNotFound {
				return ErrNotFound
			} else if err != nil {
				return err
			}
			if err := txn.Set(postTagKey(tagID, rec.ID), nil); err != nil {
				return err
			}
			if err := txn.Set(tagOfPostKey(rec.ID, tagID), nil); err != nil {
				return err
			}
		}
		var err error
		post, err = hydratePost(txn, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID retrieves a post by ID, drafts included.
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		rec, err := getPostRecord(txn, id)
		if err != nil {
			return err
		}
		post, err = hydratePost(txn, *rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List returns one window of published posts, newest first, with the total count.
func (r *BadgerPostRepository) List(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
	page := models.ListPage[models.Post]{Offset: offset, Limit: limit, Items: []models.Post{}}
	if err := ctx.Err(); err != nil {
		return page, err
	}
	err := r.db.View(func(txn *badger.Txn) error {
		ids := keyTails(txn, []byte(PostIndexPrefix))
		page.Total = len(ids)

		for i := offset; i < len(ids) && i < offset+limit; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := getPostRecord(txn, ids[i])
			if err != nil {
				return err
			}
			post, err := hydratePost(txn, *rec)
			if err != nil {
				return err
			}
			page.Items = append(page.Items, *post)
		}
		return nil
	})
	return page, err
}

// ListByIDs returns the published posts among ids, newest first. Unknown ids are skipped.
func (r *BadgerPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := []models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			rec, err := getPostRecord(txn, id)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if !rec.Published {
				continue
			}
			post, err := hydratePost(txn, *rec)
			if err != nil {
				return err
			}
			posts = append(posts, *post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Update applies a partial update to an existing post.
func (r *BadgerPostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post *models.Post
	err := r.db.Update(func(txn *badger.Txn) error {
		rec, err := getPostRecord(txn, id)
		if err != nil {
			return err
		}
		if rec.Published {
			if err := txn.Delete(postIndexKey(rec.CreatedAt, rec.ID)); err != nil {
				return err
			}
		}

		m := rec.toModel()
		patch.Apply(&m)
		rec.Title, rec.Content, rec.Excerpt = m.Title, m.Content, m.Excerpt
		rec.CoverImage, rec.Published = m.CoverImage, m.Published

		if err := putPost(txn, *rec); err != nil {
			return err
		}
		post, err = hydratePost(txn, *rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post together with its comments and tag links.
func (r *BadgerPostRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		rec, err := getPostRecord(txn, id)
		if err != nil {
			return err
		}
		keys := [][]byte{postKey(id), postIndexKey(rec.CreatedAt, id)}
		for _, tagID := range keyTails(txn, tagOfPostPrefix(id)) {
			keys = append(keys, postTagKey(tagID, id), tagOfPostKey(id, tagID))
		}
		keys = append(keys, prefixKeys(txn, commentPrefix(id))...)
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func putPost(txn *badger.Txn, rec postRecord) error {
	data, err := marshalEntity(rec)
	if err != nil {
		return err
	}
	if err := txn.Set(postKey(rec.ID), data); err != nil {
		return err
	}
	if rec.Published {
		return txn.Set(postIndexKey(rec.CreatedAt, rec.ID), []byte(rec.ID))
	}
	return nil
}

func getPostRecord(txn *badger.Txn, id string) (*postRecord, error) {
	item, err := txn.Get(postKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec postRecord
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &rec)
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}

// hydratePost joins the author profile and tags onto a stored post.
func hydratePost(txn *badger.Txn, rec postRecord) (*models.Post, error) {
	post := rec.toModel()
	author, err := loadAuthor(txn, rec.AuthorID)
	if err != nil {
		return nil, err
	}
	post.Author = author
	for _, tagID := range keyTails(txn, tagOfPostPrefix(rec.ID)) {
		tag, err := getTag(txn, tagID)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		post.Tags = append(post.Tags, *tag)
	}
	sort.Slice(post.Tags, func(i, j int) bool { return post.Tags[i].Name < post.Tags[j].Name })
	return &post, nil
}

func prefixKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}
