// Package mock provides in-memory repositories with call counting and
// error injection for service and view tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// Calls counts invocations per method name.
type Calls struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *Calls) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[name]++
}

// Count returns how many times name was called.
func (c *Calls) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Total returns the number of calls across all methods.
func (c *Calls) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

type PostRepository struct {
	Calls
	posts  map[string]*models.Post
	nextID int
	mutex  sync.RWMutex
	// Err, when set, is returned by every method.
	Err error
}

type CommentRepository struct {
	Calls
	comments []*models.Comment
	nextID   int
	mutex    sync.RWMutex
	Err      error
}

type TagRepository struct {
	Calls
	tags  map[string]*models.Tag
	links map[string][]string
	mutex sync.RWMutex
	Err   error
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[string]*models.Post),
		nextID: 1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{nextID: 1}
}

func NewTagRepository() *TagRepository {
	return &TagRepository{
		tags:  make(map[string]*models.Tag),
		links: make(map[string][]string),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.nextID = 1
}

// Put stores post as-is, overwriting any post with the same ID.
func (m *PostRepository) Put(post models.Post) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	p := post
	m.posts[p.ID] = &p
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	m.record("Create")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	draft.BeforeCreate()
	post := &models.Post{
		ID:         fmt.Sprintf("post-%d", m.nextID),
		Title:      draft.Title,
		Content:    draft.Content,
		Excerpt:    draft.Excerpt,
		CoverImage: draft.CoverImage,
		Published:  draft.Published,
		CreatedAt:  draft.CreatedAt,
	}
	m.nextID++
	m.posts[post.ID] = post
	out := *post
	return &out, nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.record("GetByID")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	return &out, nil
}

func (m *PostRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	m.record("Update")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	patch.Apply(post)
	out := *post
	return &out, nil
}

func (m *PostRepository) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// published returns published posts newest first; callers hold the lock.
func (m *PostRepository) published() []models.Post {
	var out []models.Post
	for _, p := range m.posts {
		if p.Published {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *PostRepository) List(ctx context.Context, limit, offset int) (models.ListPage[models.Post], error) {
	m.record("List")
	page := models.ListPage[models.Post]{Offset: offset, Limit: limit, Items: []models.Post{}}
	if m.Err != nil {
		return page, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	all := m.published()
	page.Total = len(all)
	for i := offset; i < len(all) && i < offset+limit; i++ {
		page.Items = append(page.Items, all[i])
	}
	return page, nil
}

func (m *PostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	m.record("ListByIDs")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	posts := []models.Post{}
	for _, p := range m.published() {
		if want[p.ID] {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, draft *models.CommentDraft) (*models.Comment, error) {
	m.record("Create")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment := &models.Comment{
		ID:        fmt.Sprintf("comment-%d", m.nextID),
		PostID:    draft.PostID,
		Content:   draft.Content,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.comments = append(m.comments, comment)
	out := *comment
	return &out, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	m.record("ListByPost")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

// TagRepository implementation

// Add stores a tag and links it to the given post ids.
func (m *TagRepository) Add(tag models.Tag, postIDs ...string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	t := tag
	t.PostCount = len(postIDs)
	m.tags[t.Slug] = &t
	m.links[t.ID] = append([]string(nil), postIDs...)
}

func (m *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	m.record("List")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tags := []models.Tag{}
	for _, t := range m.tags {
		tags = append(tags, *t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *TagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	m.record("GetBySlug")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	t, ok := m.tags[slug]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (m *TagRepository) PostIDs(ctx context.Context, tagID string) ([]string, error) {
	m.record("PostIDs")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]string{}, m.links[tagID]...), nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
	_ repositories.TagRepository     = (*TagRepository)(nil)
)
