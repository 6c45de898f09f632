package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDraftValidation(t *testing.T) {
	tests := []struct {
		name       string
		draft      *PostDraft
		wantFields []string
	}{
		{
			name: "valid draft",
			draft: &PostDraft{
				Title:   "Valid Title",
				Content: "# Hello\n\nSome content",
			},
		},
		{
			name:       "empty title",
			draft:      &PostDraft{Title: "", Content: "Body"},
			wantFields: []string{"title"},
		},
		{
			name:       "whitespace only fields",
			draft:      &PostDraft{Title: "   ", Content: "\n\t"},
			wantFields: []string{"title", "content"},
		},
		{
			name: "cover image must be a URL",
			draft: &PostDraft{
				Title:      "Title",
				Content:    "Body",
				CoverImage: "not a url",
			},
			wantFields: []string{"cover_image"},
		},
		{
			name: "https cover image",
			draft: &PostDraft{
				Title:      "Title",
				Content:    "Body",
				CoverImage: "https://example.com/cover.jpg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ve, ok := err.(ValidationErrors)
			require.True(t, ok, "expected ValidationErrors, got %T", err)
			for _, f := range tt.wantFields {
				assert.NotEmpty(t, ve.Field(f), "missing message for %s", f)
			}
			assert.Len(t, ve, len(tt.wantFields))
		})
	}
}

func TestPostDraftRequiredMessages(t *testing.T) {
	err := (&PostDraft{}).Validate()
	require.Error(t, err)
	ve := err.(ValidationErrors)
	assert.Equal(t, "title is required", ve.Field("title"))
	assert.Equal(t, "content is required", ve.Field("content"))
	assert.Equal(t, "content is required; title is required", ve.Error())
}

func TestPostDraftBeforeCreate(t *testing.T) {
	draft := &PostDraft{Title: "Test", Content: "Body"}
	assert.True(t, draft.CreatedAt.IsZero())
	draft.BeforeCreate()
	assert.False(t, draft.CreatedAt.IsZero())

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	draft = &PostDraft{CreatedAt: fixed}
	draft.BeforeCreate()
	assert.Equal(t, fixed, draft.CreatedAt)
}

func TestPostPatch(t *testing.T) {
	title := "New title"
	published := false
	patch := &PostPatch{Title: &title, Published: &published}
	require.NoError(t, patch.Validate())
	assert.False(t, patch.IsEmpty())

	post := &Post{Title: "Old", Content: "Body", Published: true}
	patch.Apply(post)
	assert.Equal(t, "New title", post.Title)
	assert.Equal(t, "Body", post.Content)
	assert.False(t, post.Published)

	assert.True(t, (&PostPatch{}).IsEmpty())

	empty := ""
	assert.Error(t, (&PostPatch{Title: &empty}).Validate())
}

func TestPostHelpers(t *testing.T) {
	post := Post{
		ID:   "p1",
		Tags: []Tag{{ID: "t1", Name: "Go", Slug: "go"}},
	}
	assert.Equal(t, "p1", post.Identifier())
	assert.True(t, post.HasTag("go"))
	assert.False(t, post.HasTag("rust"))
	assert.Equal(t, "Anonymous", post.AuthorName())

	post.Author = &Author{Username: "ada"}
	assert.Equal(t, "ada", post.AuthorName())
}
