package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"inkpot/app/models"
	"inkpot/app/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to INKPOT_TEST_DATABASE_URL; tests skip without it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("INKPOT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INKPOT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	_, err = store.Pool().Exec(ctx, "TRUNCATE comments, post_tags, tags, posts, profiles CASCADE")
	require.NoError(t, err)
	return store
}

func TestPostgresPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	posts := store.Posts()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tag, err := store.Tags().CreateTag(ctx, "Go", "go")
	require.NoError(t, err)
	_, err = store.Tags().CreateTag(ctx, "Go again", "go")
	assert.ErrorIs(t, err, repositories.ErrSlugTaken)

	for i := 0; i < 7; i++ {
		_, err := posts.Create(ctx, &models.PostDraft{
			Title:     "post",
			Content:   "body",
			Published: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			TagIDs:    []string{tag.ID},
		})
		require.NoError(t, err)
	}
	draft, err := posts.Create(ctx, &models.PostDraft{Title: "draft", Content: "x"})
	require.NoError(t, err)

	page, err := posts.List(ctx, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Items, 6)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))
	assert.True(t, page.Items[0].HasTag("go"))

	got, err := store.Tags().GetBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, 7, got.PostCount)

	ids, err := store.Tags().PostIDs(ctx, tag.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 7)

	byID, err := posts.ListByIDs(ctx, append(ids, draft.ID))
	require.NoError(t, err)
	assert.Len(t, byID, 7, "drafts are excluded")

	title := "renamed"
	updated, err := posts.Update(ctx, draft.ID, &models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	require.NoError(t, posts.Delete(ctx, draft.ID))
	assert.ErrorIs(t, posts.Delete(ctx, draft.ID), repositories.ErrNotFound)
	_, err = posts.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPostgresComments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	post, err := store.Posts().Create(ctx, &models.PostDraft{Title: "t", Content: "c", Published: true})
	require.NoError(t, err)

	for _, text := range []string{"first", "second"} {
		_, err := store.Comments().Create(ctx, &models.CommentDraft{PostID: post.ID, Content: text})
		require.NoError(t, err)
	}
	list, err := store.Comments().ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Nil(t, list[0].Author)

	_, err = store.Comments().Create(ctx, &models.CommentDraft{PostID: uuid.NewString(), Content: "x"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
