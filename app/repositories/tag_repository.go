package repositories

import (
	"context"
	"errors"
	"sort"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ErrSlugTaken is returned when a tag is created with a slug already in use.
var ErrSlugTaken = errors.New("tag slug already exists")

type tagRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BadgerTagRepository implements TagRepository using BadgerDB
type BadgerTagRepository struct {
	db *badger.DB
}

// NewBadgerTagRepository creates a new BadgerTagRepository
func NewBadgerTagRepository(db *badger.DB) *BadgerTagRepository {
	return &BadgerTagRepository{db: db}
}

// Create stores a new tag. Tags are managed out of band; this is used for seeding.
func (r *BadgerTagRepository) Create(ctx context.Context, name, slug string) (*models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := tagRecord{ID: uuid.NewString(), Name: name, Slug: slug}
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(tagSlugKey(slug)); err == nil {
			return ErrSlugTaken
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		data, err := marshalEntity(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(tagKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set(tagSlugKey(slug), []byte(rec.ID))
	})
	if err != nil {
		return nil, err
	}
	return &models.Tag{ID: rec.ID, Name: rec.Name, Slug: rec.Slug}, nil
}

// List returns every tag ordered by name, with post counts.
func (r *BadgerTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tags := []models.Tag{}
	err := r.db.View(func(txn *badger.Txn) error {
		var recs []tagRecord
		prefix := []byte(TagKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec tagRecord
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
			tags = append(tags, rec.withCount(txn))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// GetBySlug retrieves a tag by its slug.
func (r *BadgerTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tag *models.Tag
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tagSlugKey(slug))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		tag, err = getTag(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// PostIDs returns the ids of every post linked to the tag.
func (r *BadgerTagRepository) PostIDs(ctx context.Context, tagID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []string
	err := r.db.View(func(txn *badger.Txn) error {
		ids = keyTails(txn, postTagPrefix(tagID))
		return nil
	})
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

func (rec tagRecord) withCount(txn *badger.Txn) models.Tag {
	return models.Tag{
		ID:        rec.ID,
		Name:      rec.Name,
		Slug:      rec.Slug,
		PostCount: countPrefix(txn, postTagPrefix(rec.ID)),
	}
}

func getTag(txn *badger.Txn, id string) (*models.Tag, error) {
	item, err := txn.Get(tagKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec tagRecord
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &rec)
	}); err != nil {
		return nil, err
	}
	tag := rec.withCount(txn)
	return &tag, nil
}
