package views

import (
	"context"
	"testing"

	"inkpot/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedBlog holds GetPost for one id until release is closed.
type gatedBlog struct {
	Blog
	gatedID string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBlog) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if id == g.gatedID {
		close(g.entered)
		<-g.release
	}
	return g.Blog.GetPost(ctx, id)
}

func TestPostViewDiscardsStaleResponse(t *testing.T) {
	f := newFixture(2)
	blog := &gatedBlog{
		Blog:    f.blog,
		gatedID: "p00",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	v := NewPostView(blog)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- v.Activate(ctx, "p00") }()
	<-blog.entered

	require.NoError(t, v.Activate(ctx, "p01"))
	close(blog.release)
	require.NoError(t, <-done)

	s := v.Snapshot()
	assert.Equal(t, Loaded, s.Status)
	assert.Equal(t, "p01", s.Post.ID, "the older activation does not overwrite the newer one")
}
