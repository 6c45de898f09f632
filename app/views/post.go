package views

import (
	"context"
	"strings"
	"sync"

	"inkpot/app/models"
	"inkpot/app/services"
)

// PostView shows one post and its comments and accepts new comments.
type PostView struct {
	blog Blog

	mu         sync.Mutex
	epoch      uint64
	status     Status
	postID     string
	post       *models.Post
	comments   []models.Comment
	notice     string
	submitting bool
}

// PostState is a snapshot for rendering.
type PostState struct {
	Status     Status
	Post       *models.Post
	Comments   []models.Comment
	Notice     string
	Submitting bool
}

func NewPostView(blog Blog) *PostView {
	return &PostView{blog: blog}
}

// Activate loads the post and then its comments. A missing post ends in
// NotFound without fetching comments.
func (v *PostView) Activate(ctx context.Context, id string) error {
	v.mu.Lock()
	v.epoch++
	epoch := v.epoch
	v.status = Loading
	v.postID = id
	v.post = nil
	v.comments = nil
	v.notice = ""
	v.mu.Unlock()

	post, err := v.blog.GetPost(ctx, id)

	v.mu.Lock()
	if epoch != v.epoch {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		if services.IsNotFound(err) {
			v.status = NotFound
			v.mu.Unlock()
			return nil
		}
		v.status = Failed
		v.notice = RetryNotice
		v.mu.Unlock()
		return err
	}
	v.post = post
	v.mu.Unlock()

	comments, err := v.blog.ListComments(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if epoch != v.epoch {
		return nil
	}
	v.status = Loaded
	if err != nil {
		v.notice = RetryNotice
		return err
	}
	v.comments = comments
	return nil
}

// SubmitComment posts an anonymous comment on the loaded post. Blank text is
// rejected without calling the blog. On success the comment is appended.
func (v *PostView) SubmitComment(ctx context.Context, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.ValidationErrors{"content": "content is required"}
	}

	v.mu.Lock()
	if v.status != Loaded {
		v.mu.Unlock()
		return nil, ErrNotReady
	}
	if v.submitting {
		v.mu.Unlock()
		return nil, ErrBusy
	}
	v.submitting = true
	epoch, postID := v.epoch, v.postID
	v.mu.Unlock()

	comment, err := v.blog.AddComment(ctx, &models.CommentDraft{PostID: postID, Content: text})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitting = false
	if err != nil {
		if !services.IsValidation(err) {
			v.notice = RetryNotice
		}
		return nil, err
	}
	if epoch == v.epoch {
		v.comments = append(v.comments, *comment)
		v.notice = ""
	}
	return comment, nil
}

func (v *PostView) Snapshot() PostState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return PostState{
		Status:     v.status,
		Post:       v.post,
		Comments:   append([]models.Comment(nil), v.comments...),
		Notice:     v.notice,
		Submitting: v.submitting,
	}
}
