package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"
	"inkpot/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	posts    *mock.PostRepository
	comments *mock.CommentRepository
	tags     *mock.TagRepository
	svc      *BlogService
}

func newFixture() *fixture {
	f := &fixture{
		posts:    mock.NewPostRepository(),
		comments: mock.NewCommentRepository(),
		tags:     mock.NewTagRepository(),
	}
	f.svc = NewBlogService(f.posts, f.comments, f.tags)
	return f
}

func (f *fixture) seed(n int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		f.posts.Put(models.Post{
			ID:        fmt.Sprintf("p%02d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Published: true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
}

func TestListPosts(t *testing.T) {
	f := newFixture()
	f.seed(13)
	ctx := context.Background()

	page, err := f.svc.ListPosts(ctx, 6, 12)
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p00", page.Items[0].ID)

	page, err = f.svc.ListPosts(ctx, 0, -3)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)

	page, err = f.svc.ListPosts(ctx, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, page.Limit)
}

func TestListPostsFailure(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection refused")
	f.posts.Err = boom

	_, err := f.svc.ListPosts(context.Background(), 6, 0)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "list posts: "))
}

func TestGetPost(t *testing.T) {
	f := newFixture()
	f.seed(1)

	post, err := f.svc.GetPost(context.Background(), "p00")
	require.NoError(t, err)
	assert.Equal(t, "Post 0", post.Title)

	_, err = f.svc.GetPost(context.Background(), "missing-id")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft gets generated excerpt", func(t *testing.T) {
		f := newFixture()
		post, err := f.svc.CreatePost(ctx, &models.PostDraft{
			Title:   "  Hello  ",
			Content: "# Hello\n\nThis is **bold** and *italic* text.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
		assert.Equal(t, "Hello This is bold and italic text.", post.Excerpt)
		assert.False(t, post.CreatedAt.IsZero())
	})

	t.Run("supplied excerpt kept", func(t *testing.T) {
		f := newFixture()
		post, err := f.svc.CreatePost(ctx, &models.PostDraft{
			Title: "T", Content: "body", Excerpt: "mine",
		})
		require.NoError(t, err)
		assert.Equal(t, "mine", post.Excerpt)
	})

	t.Run("invalid draft makes no call", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreatePost(ctx, &models.PostDraft{Title: "   ", Content: ""})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		fields := FieldErrors(err)
		assert.Equal(t, "title is required", fields["title"])
		assert.Equal(t, "content is required", fields["content"])
		assert.Zero(t, f.posts.Total())
	})
}

func TestUpdatePost(t *testing.T) {
	f := newFixture()
	f.seed(1)
	ctx := context.Background()

	title := "New"
	post, err := f.svc.UpdatePost(ctx, "p00", &models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)

	_, err = f.svc.UpdatePost(ctx, "p00", &models.PostPatch{})
	assert.True(t, IsValidation(err))

	empty := ""
	_, err = f.svc.UpdatePost(ctx, "p00", &models.PostPatch{Title: &empty})
	assert.True(t, IsValidation(err))
	assert.Contains(t, FieldErrors(err), "title")

	_, err = f.svc.UpdatePost(ctx, "nope", &models.PostPatch{Title: &title})
	assert.True(t, IsNotFound(err))
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	f.seed(1)
	ctx := context.Background()

	ok, err := f.svc.DeletePost(ctx, "p00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.DeletePost(ctx, "p00")
	assert.False(t, ok)
	assert.True(t, IsNotFound(err))
}

func TestComments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddComment(ctx, &models.CommentDraft{PostID: "p1", Content: "   "})
	assert.True(t, IsValidation(err))
	assert.Zero(t, f.comments.Count("Create"))

	c, err := f.svc.AddComment(ctx, &models.CommentDraft{PostID: "p1", Content: "  nice post  "})
	require.NoError(t, err)
	assert.Equal(t, "nice post", c.Content)
	_, err = f.svc.AddComment(ctx, &models.CommentDraft{PostID: "p1", Content: "second"})
	require.NoError(t, err)

	list, err := f.svc.ListComments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "nice post", list[0].Content)

	f.comments.Err = errors.New("down")
	_, err = f.svc.ListComments(ctx, "p1")
	assert.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestTags(t *testing.T) {
	f := newFixture()
	f.seed(4)
	f.posts.Put(models.Post{ID: "draft", Title: "Draft"})
	f.tags.Add(models.Tag{ID: "t1", Name: "Go", Slug: "go"}, "p01", "p03", "draft")
	f.tags.Add(models.Tag{ID: "t2", Name: "Empty", Slug: "empty"})
	ctx := context.Background()

	tags, err := f.svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Empty", tags[0].Name)

	posts, err := f.svc.ListPostsByTag(ctx, "go")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p03", posts[0].ID)
	assert.Equal(t, "p01", posts[1].ID)

	posts, err = f.svc.ListPostsByTag(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, f.posts.Count("ListByIDs"))

	_, err = f.svc.ListPostsByTag(ctx, "unknown")
	assert.True(t, IsNotFound(err))

	page, err := f.svc.ListPostsByTagPage(ctx, "go", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p01", page.Items[0].ID)

	page, err = f.svc.ListPostsByTagPage(ctx, "go", 6, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = f.svc.ListPostsByTagPage(ctx, "go", -5, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Len(t, page.Items, 2)
}
