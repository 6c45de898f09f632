package views

import (
	"context"
	"sync"

	"inkpot/app/loader"
	"inkpot/app/models"
)

// TagsView lists every tag with a display size bucket.
type TagsView struct {
	blog Blog

	mu     sync.Mutex
	epoch  uint64
	status Status
	tags   []models.Tag
	notice string
}

// TagEntry pairs a tag with its size class (sm, md or lg).
type TagEntry struct {
	models.Tag
	Size string
}

// TagsState is a snapshot for rendering.
type TagsState struct {
	Status Status
	Tags   []TagEntry
	Notice string
}

func NewTagsView(blog Blog) *TagsView {
	return &TagsView{blog: blog}
}

func (v *TagsView) Activate(ctx context.Context) error {
	v.mu.Lock()
	v.epoch++
	epoch := v.epoch
	v.status = Loading
	v.notice = ""
	v.mu.Unlock()

	tags, err := v.blog.ListTags(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		return nil
	}
	if err != nil {
		v.status = Failed
		v.notice = RetryNotice
		return err
	}
	v.tags = tags
	v.status = Loaded
	return nil
}

func (v *TagsView) Snapshot() TagsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	entries := make([]TagEntry, 0, len(v.tags))
	for _, t := range v.tags {
		entries = append(entries, TagEntry{Tag: t, Size: t.SizeClass()})
	}
	return TagsState{Status: v.status, Tags: entries, Notice: v.notice}
}

// TagView lists the published posts carrying one tag.
type TagView struct {
	blog   Blog
	loader *loader.Loader[models.Post]

	mu     sync.Mutex
	epoch  uint64
	status Status
	slug   string
	tag    *models.Tag
	notice string
}

// TagState is a snapshot for rendering.
type TagState struct {
	Status    Status
	Tag       *models.Tag
	Posts     []models.Post
	HasMore   bool
	IsLoading bool
	Notice    string
}

func NewTagView(blog Blog, pageSize int) *TagView {
	v := &TagView{blog: blog}
	v.loader = loader.New[models.Post](func(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
		v.mu.Lock()
		slug := v.slug
		v.mu.Unlock()
		return blog.ListPostsByTagPage(ctx, slug, limit, offset)
	}, pageSize)
	return v
}

// Activate switches the view to slug, resets the list and loads the first
// page. An unknown slug ends in NotFound without listing posts.
func (v *TagView) Activate(ctx context.Context, slug string) error {
	v.mu.Lock()
	v.epoch++
	epoch := v.epoch
	v.slug = slug
	v.tag = nil
	v.status = Loading
	v.notice = ""
	v.loader.Reset()
	v.mu.Unlock()

	tag, err := v.blog.GetTag(ctx, slug)

	v.mu.Lock()
	if epoch != v.epoch {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		if isNotFound(err) {
			v.status = NotFound
			v.mu.Unlock()
			return nil
		}
		v.status = Failed
		v.notice = RetryNotice
		v.mu.Unlock()
		return err
	}
	v.tag = tag
	v.mu.Unlock()

	out, err := v.loader.LoadNext(ctx)
	v.settle(epoch, out, err)
	return err
}

// LoadMore appends the next page of the current tag.
func (v *TagView) LoadMore(ctx context.Context) (loader.Outcome, error) {
	v.mu.Lock()
	epoch, status := v.epoch, v.status
	v.mu.Unlock()
	if status != Loaded {
		return loader.Dropped, ErrNotReady
	}
	out, err := v.loader.LoadNext(ctx)
	v.settle(epoch, out, err)
	return out, err
}

func (v *TagView) settle(epoch uint64, out loader.Outcome, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		return
	}
	switch out {
	case loader.Merged, loader.Exhausted:
		v.status = Loaded
		v.notice = ""
	case loader.Failed:
		if isNotFound(err) {
			v.status = NotFound
			return
		}
		if v.status != Loaded {
			v.status = Failed
		}
		v.notice = RetryNotice
	}
}

func (v *TagView) Snapshot() TagState {
	s := v.loader.Snapshot()
	v.mu.Lock()
	defer v.mu.Unlock()
	return TagState{
		Status:    v.status,
		Tag:       v.tag,
		Posts:     s.Items,
		HasMore:   s.HasMore,
		IsLoading: s.IsLoading,
		Notice:    v.notice,
	}
}
