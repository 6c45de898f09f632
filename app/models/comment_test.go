package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentDraftValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   *CommentDraft
		wantErr bool
	}{
		{
			name:  "valid comment",
			draft: &CommentDraft{PostID: "p1", Content: "Nice post"},
		},
		{
			name:    "missing post",
			draft:   &CommentDraft{Content: "Nice post"},
			wantErr: true,
		},
		{
			name:    "whitespace content",
			draft:   &CommentDraft{PostID: "p1", Content: "   \n"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentDraftTrimsContent(t *testing.T) {
	draft := &CommentDraft{PostID: "p1", Content: "  hello  "}
	assert.NoError(t, draft.Validate())
	assert.Equal(t, "hello", draft.Content)
}

func TestCommentDisplay(t *testing.T) {
	anon := Comment{ID: "c1"}
	assert.Equal(t, "Anonymous", anon.DisplayName())
	assert.Equal(t, "A", anon.Initial())

	named := Comment{Author: &Author{Username: "grace"}}
	assert.Equal(t, "grace", named.DisplayName())
	assert.Equal(t, "G", named.Initial())
}

func TestTagSizeClass(t *testing.T) {
	assert.Equal(t, "sm", Tag{PostCount: 0}.SizeClass())
	assert.Equal(t, "sm", Tag{PostCount: 5}.SizeClass())
	assert.Equal(t, "md", Tag{PostCount: 6}.SizeClass())
	assert.Equal(t, "md", Tag{PostCount: 10}.SizeClass())
	assert.Equal(t, "lg", Tag{PostCount: 11}.SizeClass())
}
